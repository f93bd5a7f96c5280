// Package dsl provides pure constructors for rapira schemes.
//
// Overview
//   - Primitives: Bool()/U8()/.../Str()/Fuid()/Bytes()/JSON()/JSONBytes() return shared zero-payload schemes.
//   - Containers: ArrayBytes(n), Array(n, elem), Vec(elem), Optional(inner), Map(k, v).
//   - Structs: Named(name, Field(...)...), Unnamed(name, ...), Tuple(...).
//   - Enums: Enum(name, Case(...)...) numbers arms by position; EnumWithKey(name, KeyedCase(...)...) keeps explicit indices.
//   - Custom types: Custom(name, args...), Decimal().
//   - Keys: TypedKey(KeyU8(), KeyU32(), KeyArray(n)), BytesKey().
//   - JSONValue(): the canonical recursive Json scheme.
//
// Builders never fail and never validate. Structural problems (a nil element
// scheme, an out-of-range enum index) surface as decode errors.
//
// File layout (roles)
//   - scheme.go: value scheme constructors.
//   - keys.go: key scheme constructors.
//
// Example
//
//	package main
//
//	import (
//	    "github.com/reoring/rapira"
//	    g "github.com/reoring/rapira/dsl"
//	)
//
//	func main() {
//	    order := g.Named("Order",
//	        g.Field("id", g.Fuid()),
//	        g.Field("items", g.Vec(g.Tuple(g.Str(), g.U32()))),
//	        g.Field("status", g.SimpleEnum("Status", "Open", "Closed")),
//	        g.Field("note", g.Optional(g.Str())),
//	    )
//	    key := g.TypedKey(g.KeyU8(), g.KeyU32())
//	    entries, err := rapira.DecodeEntrySequence(buf, key, order)
//	    _, _ = entries, err
//	}
package dsl
