package rapira

// Package rapira provides:
//
// - A closed Scheme model describing binary value layouts (primitives, strings, fixed arrays, vectors, optionals, enums, structs, embedded JSON and custom types)
// - A cursor-driven decoding engine that walks a Scheme and a buffer in lockstep (Decode/DecodeValue)
// - Key schemes for composite sort keys and batch decoding of value and key/value sequences (DecodeKey/DecodeEntry/DecodeSequence/DecodeEntrySequence)
// - A stable error model via Issues (JSON Pointer, code, scheme, byte offset)
//
// Wire format:
// - Value-region integers and floats are fixed-width little-endian.
// - Typed key integers are big-endian so encoded keys sort byte-wise.
// - Str, Bytes and Vec carry a u32 little-endian length prefix.
// - Optional presence flags and enum tags are single bytes.
// - Fuid/LowId are 8 bytes: 5 bytes timestamp, 1 byte shard id, 2 bytes random.
//
// Design policy:
// - Keep only public APIs in the root package; builders live in dsl/, scheme files in schemefile/, built-in custom types in custom/, and the CLI under cmd/rapira.
// - Schemes and registries are immutable and shared; a Cursor belongs to one decode call.
// - Decoding never logs and never substitutes defaults: the first failure aborts the call.
//
// Typical usage:
//
//  user := dsl.Named("User",
//      dsl.Field("id", dsl.Fuid()),
//      dsl.Field("name", dsl.Str()),
//      dsl.Field("score", dsl.Optional(dsl.U32())),
//  )
//  v, err := rapira.DecodeValue(buf, user)
//  entries, err := rapira.DecodeEntrySequence(buf, dsl.TypedKey(dsl.KeyU32()), user,
//      rapira.DecodeOpt{Registry: custom.Defaults()})
//
