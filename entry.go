package rapira

import (
	"encoding/binary"
	"errors"
)

// DecodeKey decodes one key of scheme ks at cur.Offset.
//
// A TypedKey yields []any with one element per part: uint8 for U8, uint32
// for U32 (big-endian, unlike the value region) and a lowercase hex string for
// Array(n). A BytesKey yields a lowercase hex string read after a u32
// little-endian length prefix.
func DecodeKey(buf []byte, ks KeyScheme, cur *Cursor) (any, error) {
	r := newReader(buf, cur, DecodeOpt{})
	start := r.cur.Offset
	r.path.field("key")
	k, err := r.decodeKey(ks)
	if err != nil {
		r.cur.Offset = start
		return nil, err
	}
	return k, nil
}

func (r *Reader) decodeKey(ks KeyScheme) (any, error) {
	switch ks := ks.(type) {
	case *TypedKey:
		r.node = nil
		out := make([]any, 0, len(ks.Parts))
		for i, part := range ks.Parts {
			r.path.index(i)
			v, err := r.decodeKeyPart(part)
			if err != nil {
				return nil, err
			}
			r.path.pop()
			out = append(out, v)
		}
		return out, nil
	case BytesKey, *BytesKey:
		r.node = Primitive(KindBytes)
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		return r.readHex(n)
	}
	r.node = nil
	return nil, r.fail(CodeUnhandledScheme, r.cur.Offset, nil, nil)
}

func (r *Reader) decodeKeyPart(p KeyPart) (any, error) {
	switch p.Kind {
	case KeyPartU8:
		r.node = Primitive(KindU8)
		return r.ReadU8()
	case KeyPartU32:
		r.node = Primitive(KindU32)
		b, err := r.take(4)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.Uint32(b), nil
	case KeyPartArray:
		r.node = &ArrayBytes{Len: p.Size}
		return r.readHex(p.Size)
	}
	r.node = nil
	return nil, r.fail(CodeUnhandledScheme, r.cur.Offset, nil, map[string]any{"part": p.String()})
}

// DecodeEntry decodes one key followed by one value.
func DecodeEntry(buf []byte, ks KeyScheme, vs Scheme, cur *Cursor, opts ...DecodeOpt) (Entry, error) {
	r := newReader(buf, cur, lastOpt(opts))
	start := r.cur.Offset
	e, err := r.decodeEntry(ks, vs)
	if err != nil {
		r.cur.Offset = start
		return Entry{}, err
	}
	return e, nil
}

func (r *Reader) decodeEntry(ks KeyScheme, vs Scheme) (Entry, error) {
	r.path.field("key")
	k, err := r.decodeKey(ks)
	if err != nil {
		return Entry{}, err
	}
	r.path.pop()
	r.path.field("val")
	v, err := r.decode(vs)
	if err != nil {
		return Entry{}, err
	}
	r.path.pop()
	return Entry{Key: k, Value: v}, nil
}

// DecodeSequence decodes values of scheme s back to back from offset 0 until
// the buffer is exhausted. A trailing fragment shorter than a value fails with
// out_of_bounds.
func DecodeSequence(buf []byte, s Scheme, opts ...DecodeOpt) ([]any, error) {
	r := newReader(buf, &Cursor{}, lastOpt(opts))
	out := make([]any, 0)
	for i := 0; r.cur.Offset < len(buf); i++ {
		r.path.index(i)
		before := r.cur.Offset
		v, err := r.decode(s)
		if err != nil {
			return nil, err
		}
		if r.cur.Offset == before {
			return nil, r.zeroWidth(before)
		}
		r.path.pop()
		out = append(out, v)
	}
	return out, nil
}

// DecodeEntrySequence decodes key/value entries back to back from offset 0
// while at least two unread bytes remain. A single trailing byte is ignored,
// matching the producing side's framing; any longer trailing fragment fails
// with out_of_bounds.
func DecodeEntrySequence(buf []byte, ks KeyScheme, vs Scheme, opts ...DecodeOpt) ([]Entry, error) {
	r := newReader(buf, &Cursor{}, lastOpt(opts))
	out := make([]Entry, 0)
	for i := 0; r.cur.Offset < len(buf)-1; i++ {
		r.path.index(i)
		before := r.cur.Offset
		e, err := r.decodeEntry(ks, vs)
		if err != nil {
			return nil, err
		}
		if r.cur.Offset == before {
			return nil, r.zeroWidth(before)
		}
		r.path.pop()
		out = append(out, e)
	}
	return out, nil
}

// zeroWidth reports a sequence item that consumed no bytes; repeating it
// would never exhaust the buffer.
func (r *Reader) zeroWidth(off int) error {
	return r.fail(CodeUnhandledScheme, off, errors.New("sequence item consumed no bytes"), nil)
}
