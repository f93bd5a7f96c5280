package rapira

import (
	"strconv"
	"strings"
)

// Kind identifies a Scheme variant. The values double as the "type" tags of
// the scheme descriptor format (see package schemefile).
type Kind string

const (
	KindBool       Kind = "Bool"
	KindU8         Kind = "U8"
	KindU16        Kind = "U16"
	KindU32        Kind = "U32"
	KindU64        Kind = "U64"
	KindI32        Kind = "I32"
	KindI64        Kind = "I64"
	KindF32        Kind = "F32"
	KindF64        Kind = "F64"
	KindStr        Kind = "Str"
	KindVoid       Kind = "Void"
	KindDatetime   Kind = "Datetime"
	KindTimestamp  Kind = "Timestamp"
	KindFuid       Kind = "Fuid"
	KindLowID      Kind = "LowId"
	KindBytes      Kind = "Bytes"
	KindJSON       Kind = "Json"
	KindJSONBytes  Kind = "JsonBytes"
	KindArrayBytes Kind = "ArrayBytes"
	KindArray      Kind = "Array"
	KindVec        Kind = "Vec"
	KindOptional   Kind = "Optional"
	KindCustom     Kind = "Custom"
	KindStruct     Kind = "Struct"
	KindEnum       Kind = "Enum"
	KindSimpleEnum Kind = "SimpleEnum"
)

// IsPrimitive reports whether k is a zero-payload kind that can be
// represented by a Primitive.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindBool, KindU8, KindU16, KindU32, KindU64, KindI32, KindI64,
		KindF32, KindF64, KindStr, KindVoid, KindDatetime, KindTimestamp,
		KindFuid, KindLowID, KindBytes, KindJSON, KindJSONBytes:
		return true
	default:
		return false
	}
}

// Scheme describes exactly one decodable shape. The set of implementations is
// closed; build values with package dsl or load them with package schemefile.
//
// Schemes are immutable once built and may be shared across goroutines.
type Scheme interface {
	Kind() Kind
	isScheme()
}

// Primitive is a zero-payload scheme identified only by its kind
// (Bool, U8, ..., Json, JsonBytes).
type Primitive Kind

func (p Primitive) Kind() Kind     { return Kind(p) }
func (p Primitive) String() string { return string(p) }
func (Primitive) isScheme()        {}

// ArrayBytes is a fixed run of Len raw bytes without a length prefix.
type ArrayBytes struct {
	Len int
}

func (*ArrayBytes) Kind() Kind       { return KindArrayBytes }
func (s *ArrayBytes) String() string { return Describe(s) }
func (*ArrayBytes) isScheme()        {}

// Array is a fixed number of Elem values without a length prefix.
type Array struct {
	Len  int
	Elem Scheme
}

func (*Array) Kind() Kind       { return KindArray }
func (s *Array) String() string { return Describe(s) }
func (*Array) isScheme()        {}

// Vec is a u32 count followed by that many Elem values.
type Vec struct {
	Elem Scheme
}

func (*Vec) Kind() Kind       { return KindVec }
func (s *Vec) String() string { return Describe(s) }
func (*Vec) isScheme()        {}

// Optional is a presence byte followed by Inner when the byte is non-zero.
type Optional struct {
	Inner Scheme
}

func (*Optional) Kind() Kind       { return KindOptional }
func (s *Optional) String() string { return Describe(s) }
func (*Optional) isScheme()        {}

// Custom delegates decoding to the handler registered under Name.
type Custom struct {
	Name string
	Args []Scheme
}

func (*Custom) Kind() Kind       { return KindCustom }
func (s *Custom) String() string { return Describe(s) }
func (*Custom) isScheme()        {}

// Struct is a named sequence of fields, either named (records) or unnamed
// (tuple structs and plain tuples, which carry an empty Name).
type Struct struct {
	Name   string
	Fields Fields
}

func (*Struct) Kind() Kind       { return KindStruct }
func (s *Struct) String() string { return Describe(s) }
func (*Struct) isScheme()        {}

// FieldsKind tags the Fields of a Struct.
type FieldsKind string

const (
	FieldsNamed   FieldsKind = "Named"
	FieldsUnnamed FieldsKind = "Unnamed"
)

// Fields is either NamedFields or UnnamedFields.
type Fields interface {
	FieldsKind() FieldsKind
	isFields()
}

// NamedField pairs a field name with its scheme.
type NamedField struct {
	Name   string
	Scheme Scheme
}

// NamedFields lists fields in declaration order.
type NamedFields []NamedField

func (NamedFields) FieldsKind() FieldsKind { return FieldsNamed }
func (NamedFields) isFields()              {}

// UnnamedFields lists positional fields in declaration order.
type UnnamedFields []Scheme

func (UnnamedFields) FieldsKind() FieldsKind { return FieldsUnnamed }
func (UnnamedFields) isFields()              {}

// Variant is one arm of an Enum. Index is the tag byte on the wire.
type Variant struct {
	Index  uint8
	Name   string
	Scheme Scheme
}

// Enum is a tag byte selecting one of Variants followed by its payload.
type Enum struct {
	Name     string
	Variants []Variant
}

func (*Enum) Kind() Kind       { return KindEnum }
func (s *Enum) String() string { return Describe(s) }
func (*Enum) isScheme()        {}

// Variant returns the arm registered under index i.
func (s *Enum) Variant(i uint8) (Variant, bool) {
	for _, v := range s.Variants {
		if v.Index == i {
			return v, true
		}
	}
	return Variant{}, false
}

// SimpleVariant is one payload-less arm of a SimpleEnum.
type SimpleVariant struct {
	Index uint8
	Name  string
}

// SimpleEnum is a tag byte selecting a variant name; there is no payload.
type SimpleEnum struct {
	Name     string
	Variants []SimpleVariant
}

func (*SimpleEnum) Kind() Kind       { return KindSimpleEnum }
func (s *SimpleEnum) String() string { return Describe(s) }
func (*SimpleEnum) isScheme()        {}

// Variant returns the name registered under index i.
func (s *SimpleEnum) Variant(i uint8) (string, bool) {
	for _, v := range s.Variants {
		if v.Index == i {
			return v.Name, true
		}
	}
	return "", false
}

// Describe renders a compact description of s for messages and logs, e.g.
// "Vec<Str>", "Struct(User)", "Array(4, U8)". Element schemes are described
// one level deep only.
func Describe(s Scheme) string {
	return describe(s, 1)
}

func describe(s Scheme, depth int) string {
	if s == nil {
		return "<nil>"
	}
	inner := func(e Scheme) string {
		if depth <= 0 {
			if e == nil {
				return "<nil>"
			}
			return string(e.Kind())
		}
		return describe(e, depth-1)
	}
	switch s := s.(type) {
	case Primitive:
		return string(s)
	case *ArrayBytes:
		return "ArrayBytes(" + strconv.Itoa(s.Len) + ")"
	case *Array:
		return "Array(" + strconv.Itoa(s.Len) + ", " + inner(s.Elem) + ")"
	case *Vec:
		return "Vec<" + inner(s.Elem) + ">"
	case *Optional:
		return "Optional<" + inner(s.Inner) + ">"
	case *Custom:
		if len(s.Args) == 0 {
			return "Custom(" + s.Name + ")"
		}
		args := make([]string, 0, len(s.Args))
		for _, a := range s.Args {
			args = append(args, inner(a))
		}
		return "Custom(" + s.Name + "<" + strings.Join(args, ", ") + ">)"
	case *Struct:
		if s.Name == "" {
			return "Tuple"
		}
		return "Struct(" + s.Name + ")"
	case *Enum:
		return "Enum(" + s.Name + ")"
	case *SimpleEnum:
		return "SimpleEnum(" + s.Name + ")"
	}
	return string(s.Kind())
}
