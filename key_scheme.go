package rapira

import "strconv"

// KeySchemeKind tags a KeyScheme.
type KeySchemeKind string

const (
	KeyTyped KeySchemeKind = "Typed"
	KeyBytes KeySchemeKind = "Bytes"
)

// KeyScheme describes the wire layout of a composite sort key: either a
// fixed-width tuple (TypedKey) or an opaque length-prefixed byte string
// (BytesKey).
type KeyScheme interface {
	KeyKind() KeySchemeKind
	isKeyScheme()
}

// KeyPartKind identifies one component of a TypedKey.
type KeyPartKind string

const (
	KeyPartU8    KeyPartKind = "U8"
	KeyPartU32   KeyPartKind = "U32"
	KeyPartArray KeyPartKind = "Array"
)

// KeyPart is one fixed-width key component. Size is only meaningful for
// KeyPartArray.
type KeyPart struct {
	Kind KeyPartKind
	Size int
}

// Width returns the encoded width of the component in bytes, or -1 for an
// unknown kind.
func (p KeyPart) Width() int {
	switch p.Kind {
	case KeyPartU8:
		return 1
	case KeyPartU32:
		return 4
	case KeyPartArray:
		return p.Size
	default:
		return -1
	}
}

func (p KeyPart) String() string {
	if p.Kind == KeyPartArray {
		return "Array(" + strconv.Itoa(p.Size) + ")"
	}
	return string(p.Kind)
}

// TypedKey is a tuple of fixed-width components. Integers are big-endian so
// encoded keys compare byte-for-byte in key order.
type TypedKey struct {
	Parts []KeyPart
}

func (*TypedKey) KeyKind() KeySchemeKind { return KeyTyped }
func (*TypedKey) isKeyScheme()           {}

// Width returns the total encoded width of the key, or -1 when a component
// has an unknown kind.
func (k *TypedKey) Width() int {
	total := 0
	for _, p := range k.Parts {
		w := p.Width()
		if w < 0 {
			return -1
		}
		total += w
	}
	return total
}

// BytesKey is an opaque u32-length-prefixed byte string.
type BytesKey struct{}

func (BytesKey) KeyKind() KeySchemeKind { return KeyBytes }
func (BytesKey) isKeyScheme()           {}
