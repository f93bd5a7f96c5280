package rapira

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/rapira/i18n"
)

func translate(code string, data map[string]string) string { return i18n.T(code, data) }

// Decode reads one value of scheme s from buf starting at cur.Offset. On
// success the cursor has advanced by exactly the bytes the value occupies. On
// failure the cursor is restored to where it started and the error is an
// Issues value holding a single Issue.
//
// 64-bit integers decode to uint64/int64 and keep their full width.
func Decode(buf []byte, s Scheme, cur *Cursor, opts ...DecodeOpt) (any, error) {
	r := newReader(buf, cur, lastOpt(opts))
	start := r.cur.Offset
	v, err := r.decode(s)
	if err != nil {
		r.cur.Offset = start
		return nil, err
	}
	return v, nil
}

// DecodeValue decodes a single value from the start of buf.
func DecodeValue(buf []byte, s Scheme, opts ...DecodeOpt) (any, error) {
	return Decode(buf, s, &Cursor{}, opts...)
}

// Decode decodes a nested scheme with the registry, depth and error path of
// the enclosing call. It is meant for custom handlers. The cursor is left
// wherever the failing read stopped when an error is returned.
func (r *Reader) Decode(s Scheme) (any, error) {
	prev, depth, plen, inJSON := r.node, r.depth, len(r.path), r.inJSON
	v, err := r.decode(s)
	r.node = prev
	if err != nil {
		r.depth, r.path, r.inJSON = depth, r.path[:plen], inJSON
	}
	return v, err
}

func (r *Reader) decode(s Scheme) (any, error) {
	r.node = s
	switch s := s.(type) {
	case Primitive:
		return r.decodePrimitive(s)
	case *ArrayBytes:
		return r.readHex(s.Len)
	case *Array:
		if s.Len < 0 {
			return nil, r.fail(CodeUnhandledScheme, r.cur.Offset, nil, map[string]any{"len": s.Len})
		}
		if err := r.enter(); err != nil {
			return nil, err
		}
		out := make([]any, 0, r.capHint(s.Len))
		for i := 0; i < s.Len; i++ {
			r.path.index(i)
			v, err := r.decode(s.Elem)
			if err != nil {
				return nil, err
			}
			r.path.pop()
			out = append(out, v)
		}
		r.leave()
		return out, nil
	case *Vec:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		if err := r.enter(); err != nil {
			return nil, err
		}
		// A count larger than the unread bytes is only satisfiable by items
		// that consume nothing; refuse to materialize those.
		off, short := r.cur.Offset, n > r.Remaining()
		out := make([]any, 0, r.capHint(n))
		for i := 0; i < n; i++ {
			r.path.index(i)
			v, err := r.decode(s.Elem)
			if err != nil {
				return nil, err
			}
			r.path.pop()
			if short && r.cur.Offset == off {
				r.node = s
				return nil, r.fail(CodeOutOfBounds, off, nil, map[string]any{"need": n, "have": r.Remaining()})
			}
			out = append(out, v)
		}
		r.leave()
		return out, nil
	case *Optional:
		flag, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		if flag == 0 {
			return nil, nil
		}
		if err := r.enter(); err != nil {
			return nil, err
		}
		v, err := r.decode(s.Inner)
		if err != nil {
			return nil, err
		}
		r.leave()
		return v, nil
	case *SimpleEnum:
		off := r.cur.Offset
		idx, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		name, ok := s.Variant(idx)
		if !ok {
			return nil, r.fail(CodeUnknownVariant, off, nil, map[string]any{"index": idx})
		}
		return name, nil
	case *Enum:
		off := r.cur.Offset
		idx, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		variant, ok := s.Variant(idx)
		if !ok {
			return nil, r.fail(CodeUnknownVariant, off, nil, map[string]any{"index": idx})
		}
		if err := r.enter(); err != nil {
			return nil, err
		}
		r.path.field("data")
		v, err := r.decode(variant.Scheme)
		if err != nil {
			return nil, err
		}
		r.path.pop()
		r.leave()
		return EnumValue{Enum: s.Name, Variant: variant.Name, Value: v}, nil
	case *Struct:
		return r.decodeStruct(s)
	case *Custom:
		return r.decodeCustom(s)
	}
	return nil, r.fail(CodeUnhandledScheme, r.cur.Offset, nil, nil)
}

func (r *Reader) decodePrimitive(p Primitive) (any, error) {
	switch Kind(p) {
	case KindBool:
		b, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		return b != 0, nil
	case KindU8:
		return r.ReadU8()
	case KindU16:
		return r.ReadU16()
	case KindU32:
		return r.ReadU32()
	case KindU64:
		return r.ReadU64()
	case KindI32:
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case KindI64:
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return int64(v), nil
	case KindF32:
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil
	case KindF64:
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(v), nil
	case KindStr:
		return r.ReadString()
	case KindVoid:
		return nil, nil
	case KindDatetime:
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		return time.UnixMilli(int64(v)).UTC(), nil
	case KindTimestamp:
		v, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		// values above MaxInt64 milliseconds wrap; no real timestamp gets there
		return time.UnixMilli(int64(v)).UTC(), nil
	case KindFuid, KindLowID:
		return r.readID()
	case KindBytes:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		return r.readHex(n)
	case KindJSON:
		return r.decodeJSON()
	case KindJSONBytes:
		return r.decodeJSONBytes()
	}
	return nil, r.fail(CodeUnhandledScheme, r.cur.Offset, nil, nil)
}

// readID decodes the 8-byte Fuid/LowId layout:
// [5 bytes timestamp][1 byte shard id][2 bytes random].
func (r *Reader) readID() (string, error) {
	b, err := r.take(8)
	if err != nil {
		return "", err
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, 10+1+3+1+4)
	for _, c := range b[:5] {
		out = append(out, hexdigits[c>>4], hexdigits[c&0x0f])
	}
	out = append(out, '-')
	out = strconv.AppendUint(out, uint64(b[5]), 10)
	out = append(out, '-')
	for _, c := range b[6:8] {
		out = append(out, hexdigits[c>>4], hexdigits[c&0x0f])
	}
	return string(out), nil
}

func (r *Reader) decodeStruct(s *Struct) (any, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	switch fields := s.Fields.(type) {
	case NamedFields:
		rec := &Record{Name: s.Name, Fields: make([]Field, 0, len(fields))}
		for _, f := range fields {
			r.path.field(f.Name)
			v, err := r.decode(f.Scheme)
			if err != nil {
				return nil, err
			}
			r.path.pop()
			rec.Fields = append(rec.Fields, Field{Name: f.Name, Value: v})
		}
		r.leave()
		return rec, nil
	case UnnamedFields:
		out := make([]any, 0, len(fields))
		for i, f := range fields {
			r.path.index(i)
			v, err := r.decode(f)
			if err != nil {
				return nil, err
			}
			r.path.pop()
			out = append(out, v)
		}
		r.leave()
		return out, nil
	}
	r.node = s
	return nil, r.fail(CodeUnknownFields, r.cur.Offset, nil, nil)
}

func (r *Reader) decodeCustom(s *Custom) (any, error) {
	off := r.cur.Offset
	d, ok := r.opt.Registry.Lookup(s.Name)
	if !ok {
		return nil, r.fail(CodeMissingCustom, off, nil, nil)
	}
	if err := r.enter(); err != nil {
		return nil, err
	}
	v, err := d.DecodeCustom(r, s.Args)
	if err != nil {
		if _, ok := AsIssues(err); ok {
			return nil, err
		}
		r.node = s
		return nil, r.fail(CodeCustomFailed, off, err, nil)
	}
	r.leave()
	return v, nil
}

// decodeJSON decodes the canonical Json enum tree. With UnwrapJSON only the
// outermost Json node converts, after its whole subtree is decoded.
func (r *Reader) decodeJSON() (any, error) {
	if err := r.enter(); err != nil {
		return nil, err
	}
	outer := !r.inJSON
	r.inJSON = true
	v, err := r.decode(JSONValueScheme)
	if outer {
		r.inJSON = false
	}
	if err != nil {
		return nil, err
	}
	r.leave()
	if outer && r.opt.UnwrapJSON {
		return UnwrapJSON(v)
	}
	return v, nil
}

func (r *Reader) decodeJSONBytes() (any, error) {
	off := r.cur.Offset
	text, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	v, err := parseJSON([]byte(text))
	if err != nil {
		return nil, r.fail(CodeInvalidJSON, off, err, nil)
	}
	return v, nil
}

// parseJSON parses exactly one JSON document, keeping numbers as json.Number.
func parseJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after json value")
	}
	return v, nil
}

// DefaultMaxDepth is the nesting limit used when DecodeOpt.MaxDepth is 0.
const DefaultMaxDepth = 1024

func (r *Reader) enter() error {
	r.depth++
	limit := r.opt.MaxDepth
	if limit == 0 {
		limit = DefaultMaxDepth
	}
	if limit > 0 && r.depth > limit {
		return r.fail(CodeMaxDepth, r.cur.Offset, nil, map[string]any{"max": limit})
	}
	return nil
}

func (r *Reader) leave() { r.depth-- }

// capHint bounds slice preallocation by the unread bytes so a corrupt count
// cannot force a huge allocation before the reads fail.
func (r *Reader) capHint(n int) int {
	if n < 0 {
		return 0
	}
	if rem := r.Remaining(); n > rem {
		return rem
	}
	return n
}
