package rapira

import (
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Cursor is the byte offset shared by every read of one decode call tree.
// A Cursor must not be shared between concurrent decodes.
type Cursor struct {
	Offset int
}

// DecodeOpt controls a decode call.
type DecodeOpt struct {
	// Registry resolves Custom scheme nodes. nil means no custom types.
	Registry *Registry
	// MaxDepth bounds container nesting. 0 means DefaultMaxDepth and a
	// negative value disables the check.
	MaxDepth int
	// UnwrapJSON makes Json nodes decode to plain values (see UnwrapJSON)
	// instead of the canonical enum tree.
	UnwrapJSON bool
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}

// Reader walks one buffer with a shared cursor. The engine creates one per
// decode call; custom handlers receive it to read their own region and to
// decode nested schemes.
type Reader struct {
	buf    []byte
	cur    *Cursor
	opt    DecodeOpt
	depth  int
	inJSON bool
	node   Scheme
	path   pathStack
}

func newReader(buf []byte, cur *Cursor, opt DecodeOpt) *Reader {
	if cur == nil {
		cur = &Cursor{}
	}
	return &Reader{buf: buf, cur: cur, opt: opt}
}

// Buf returns the whole buffer being decoded.
func (r *Reader) Buf() []byte { return r.buf }

// Cursor returns the shared cursor.
func (r *Reader) Cursor() *Cursor { return r.cur }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.cur.Offset >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.cur.Offset
}

// Registry returns the registry of the enclosing decode call.
func (r *Reader) Registry() *Registry { return r.opt.Registry }

// take consumes n bytes and returns them without copying.
func (r *Reader) take(n int) ([]byte, error) {
	off := r.cur.Offset
	if n < 0 || off < 0 || off > len(r.buf) || n > len(r.buf)-off {
		return nil, r.fail(CodeOutOfBounds, off, nil, map[string]any{"need": n, "have": r.Remaining()})
	}
	r.cur.Offset = off + n
	return r.buf[off : off+n], nil
}

// ReadU8 reads one byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadLen reads a u32 little-endian length prefix.
func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadBytes consumes n bytes. The result aliases the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) { return r.take(n) }

// ReadString reads a length-prefixed UTF-8 string. Invalid sequences are
// replaced with U+FFFD.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadLen()
	if err != nil {
		return "", err
	}
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return strings.ToValidUTF8(string(b), "\uFFFD"), nil
	}
	return string(b), nil
}

// readHex consumes n bytes and renders them as lowercase hex.
func (r *Reader) readHex(n int) (string, error) {
	b, err := r.take(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Fail builds a decode error at the current node, path and cursor offset.
// Custom handlers use it to report malformed regions with the same shape as
// engine errors.
func (r *Reader) Fail(code string, cause error) error {
	return r.fail(code, r.cur.Offset, cause, nil)
}

func (r *Reader) fail(code string, off int, cause error, params map[string]any) error {
	data := make(map[string]string, len(params)+1)
	for k, v := range params {
		switch x := v.(type) {
		case string:
			data[k] = x
		case int:
			data[k] = strconv.Itoa(x)
		case uint8:
			data[k] = strconv.Itoa(int(x))
		}
	}
	scheme := ""
	if r.node != nil {
		scheme = Describe(r.node)
	}
	if c, ok := r.node.(*Custom); ok {
		data["name"] = c.Name
	}
	return Issues{{
		Path:    r.path.Pointer(),
		Code:    code,
		Message: translate(code, data),
		Scheme:  scheme,
		Offset:  int64(off),
		Cause:   cause,
		Params:  params,
	}}
}
