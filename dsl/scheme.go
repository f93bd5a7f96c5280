package dsl

import (
	rapira "github.com/reoring/rapira"
)

// Primitive schemes. Each call returns the shared zero-payload value.

func Bool() rapira.Scheme      { return rapira.Primitive(rapira.KindBool) }
func U8() rapira.Scheme        { return rapira.Primitive(rapira.KindU8) }
func U16() rapira.Scheme       { return rapira.Primitive(rapira.KindU16) }
func U32() rapira.Scheme       { return rapira.Primitive(rapira.KindU32) }
func U64() rapira.Scheme       { return rapira.Primitive(rapira.KindU64) }
func I32() rapira.Scheme       { return rapira.Primitive(rapira.KindI32) }
func I64() rapira.Scheme       { return rapira.Primitive(rapira.KindI64) }
func F32() rapira.Scheme       { return rapira.Primitive(rapira.KindF32) }
func F64() rapira.Scheme       { return rapira.Primitive(rapira.KindF64) }
func Str() rapira.Scheme       { return rapira.Primitive(rapira.KindStr) }
func Void() rapira.Scheme      { return rapira.Primitive(rapira.KindVoid) }
func Datetime() rapira.Scheme  { return rapira.Primitive(rapira.KindDatetime) }
func Timestamp() rapira.Scheme { return rapira.Primitive(rapira.KindTimestamp) }
func Fuid() rapira.Scheme      { return rapira.Primitive(rapira.KindFuid) }
func LowID() rapira.Scheme     { return rapira.Primitive(rapira.KindLowID) }
func Bytes() rapira.Scheme     { return rapira.Primitive(rapira.KindBytes) }

// JSON is a value of the canonical recursive Json scheme (see JSONValue).
func JSON() rapira.Scheme { return rapira.Primitive(rapira.KindJSON) }

// JSONBytes is a length-prefixed UTF-8 JSON text parsed at decode time.
func JSONBytes() rapira.Scheme { return rapira.Primitive(rapira.KindJSONBytes) }

// ArrayBytes is n raw bytes without a length prefix, decoded as lowercase hex.
func ArrayBytes(n int) rapira.Scheme { return &rapira.ArrayBytes{Len: n} }

// Array is n consecutive values of elem without a length prefix.
func Array(n int, elem rapira.Scheme) rapira.Scheme { return &rapira.Array{Len: n, Elem: elem} }

// Vec is a u32 count followed by that many values of elem.
func Vec(elem rapira.Scheme) rapira.Scheme { return &rapira.Vec{Elem: elem} }

// Optional is a presence byte followed by inner when present.
func Optional(inner rapira.Scheme) rapira.Scheme { return &rapira.Optional{Inner: inner} }

// Custom refers to a handler registered under name.
func Custom(name string, args ...rapira.Scheme) rapira.Scheme {
	return &rapira.Custom{Name: name, Args: append([]rapira.Scheme(nil), args...)}
}

// Decimal is the 16-byte decimal custom type (see package custom).
func Decimal() rapira.Scheme { return Custom("Decimal") }

// Field declares a named struct field.
func Field(name string, s rapira.Scheme) rapira.NamedField {
	return rapira.NamedField{Name: name, Scheme: s}
}

// Named builds a struct with named fields in declaration order.
func Named(name string, fields ...rapira.NamedField) *rapira.Struct {
	return &rapira.Struct{Name: name, Fields: rapira.NamedFields(append([]rapira.NamedField(nil), fields...))}
}

// Unnamed builds a tuple struct with positional fields.
func Unnamed(name string, fields ...rapira.Scheme) *rapira.Struct {
	return &rapira.Struct{Name: name, Fields: rapira.UnnamedFields(append([]rapira.Scheme(nil), fields...))}
}

// Tuple is an anonymous tuple struct.
func Tuple(fields ...rapira.Scheme) *rapira.Struct { return Unnamed("", fields...) }

// Map is a vector of key/value tuples. Entry order and duplicates are kept.
func Map(k, v rapira.Scheme) rapira.Scheme { return Vec(Tuple(k, v)) }

// Case declares an enum arm. Its index is assigned by Enum.
func Case(name string, s rapira.Scheme) rapira.Variant {
	return rapira.Variant{Name: name, Scheme: s}
}

// KeyedCase declares an enum arm with an explicit wire index.
func KeyedCase(index uint8, name string, s rapira.Scheme) rapira.Variant {
	return rapira.Variant{Index: index, Name: name, Scheme: s}
}

// Enum numbers variants by position starting at 0. Any Index already set on
// the variants is overwritten.
func Enum(name string, variants ...rapira.Variant) *rapira.Enum {
	out := make([]rapira.Variant, len(variants))
	for i, v := range variants {
		v.Index = uint8(i)
		out[i] = v
	}
	return &rapira.Enum{Name: name, Variants: out}
}

// EnumWithKey keeps the indices supplied by the caller, which need not be
// contiguous.
func EnumWithKey(name string, variants ...rapira.Variant) *rapira.Enum {
	return &rapira.Enum{Name: name, Variants: append([]rapira.Variant(nil), variants...)}
}

// SimpleEnum numbers payload-less variants by position starting at 0.
func SimpleEnum(name string, names ...string) *rapira.SimpleEnum {
	out := make([]rapira.SimpleVariant, len(names))
	for i, n := range names {
		out[i] = rapira.SimpleVariant{Index: uint8(i), Name: n}
	}
	return &rapira.SimpleEnum{Name: name, Variants: out}
}

// SimpleEnumWithKey builds a SimpleEnum from an index to name mapping.
func SimpleEnumWithKey(name string, variants map[uint8]string) *rapira.SimpleEnum {
	out := make([]rapira.SimpleVariant, 0, len(variants))
	for i := 0; i < 256; i++ {
		if n, ok := variants[uint8(i)]; ok {
			out = append(out, rapira.SimpleVariant{Index: uint8(i), Name: n})
		}
	}
	return &rapira.SimpleEnum{Name: name, Variants: out}
}

// JSONValue returns the canonical recursive Json scheme. Its self references
// are JSON() nodes, which the engine resolves back to this scheme.
func JSONValue() *rapira.Enum { return rapira.JSONValueScheme }
