// Package wiretest is a reference encoder for the rapira wire format. It
// builds golden buffers for tests, benchmarks and the runnable examples.
package wiretest

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"time"
)

// Buf accumulates encoded bytes. Methods append and return the receiver so
// calls chain.
type Buf struct {
	b []byte
}

// New returns an empty buffer.
func New() *Buf { return &Buf{} }

// Bytes returns the encoded bytes.
func (w *Buf) Bytes() []byte { return w.b }

// Len returns the number of encoded bytes.
func (w *Buf) Len() int { return len(w.b) }

// Raw appends bytes verbatim.
func (w *Buf) Raw(p ...byte) *Buf {
	w.b = append(w.b, p...)
	return w
}

// Hex appends the bytes of a hex string. It panics on malformed input.
func (w *Buf) Hex(s string) *Buf {
	p, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return w.Raw(p...)
}

func (w *Buf) Bool(v bool) *Buf {
	if v {
		return w.Raw(1)
	}
	return w.Raw(0)
}

func (w *Buf) U8(v uint8) *Buf { return w.Raw(v) }

func (w *Buf) U16(v uint16) *Buf {
	w.b = binary.LittleEndian.AppendUint16(w.b, v)
	return w
}

func (w *Buf) U32(v uint32) *Buf {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
	return w
}

func (w *Buf) U64(v uint64) *Buf {
	w.b = binary.LittleEndian.AppendUint64(w.b, v)
	return w
}

func (w *Buf) I32(v int32) *Buf { return w.U32(uint32(v)) }
func (w *Buf) I64(v int64) *Buf { return w.U64(uint64(v)) }

func (w *Buf) F32(v float32) *Buf { return w.U32(math.Float32bits(v)) }
func (w *Buf) F64(v float64) *Buf { return w.U64(math.Float64bits(v)) }

// U32BE appends a big-endian uint32 as used by typed key components.
func (w *Buf) U32BE(v uint32) *Buf {
	w.b = binary.BigEndian.AppendUint32(w.b, v)
	return w
}

// Len32 appends a u32 length prefix.
func (w *Buf) Len32(n int) *Buf { return w.U32(uint32(n)) }

// Str appends a length-prefixed UTF-8 string.
func (w *Buf) Str(s string) *Buf {
	w.Len32(len(s))
	w.b = append(w.b, s...)
	return w
}

// Bytes32 appends a length-prefixed byte string.
func (w *Buf) Bytes32(p []byte) *Buf {
	w.Len32(len(p))
	return w.Raw(p...)
}

// Time appends t as u64 milliseconds since the Unix epoch.
func (w *Buf) Time(t time.Time) *Buf { return w.U64(uint64(t.UnixMilli())) }

// None appends an absent optional.
func (w *Buf) None() *Buf { return w.Raw(0) }

// Some appends a present optional flag; the payload follows.
func (w *Buf) Some() *Buf { return w.Raw(1) }

// Tag appends an enum index.
func (w *Buf) Tag(i uint8) *Buf { return w.Raw(i) }

// ID appends an 8-byte Fuid/LowId: 5-byte timestamp, shard, 2-byte random.
func (w *Buf) ID(ts uint64, shard uint8, rnd uint16) *Buf {
	for i := 4; i >= 0; i-- {
		w.b = append(w.b, byte(ts>>(8*i)))
	}
	w.b = append(w.b, shard)
	w.b = binary.BigEndian.AppendUint16(w.b, rnd)
	return w
}
