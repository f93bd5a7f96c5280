package custom

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"strings"

	rapira "github.com/reoring/rapira"
)

// DecimalName is the registry name of the decimal type.
const DecimalName = "Decimal"

// DecimalWidth is the encoded size of a decimal.
const DecimalWidth = 16

// maxDecimalScale is the largest scale a 96-bit decimal mantissa supports.
const maxDecimalScale = 28

var errDecimalScale = errors.New("decimal scale out of range")

// Decimal decodes a 16-byte decimal: a u32 little-endian flags word (scale in
// bits 16-23, sign in bit 31) followed by the low, middle and high u32 words
// of a 96-bit mantissa. The result is the canonical decimal string, e.g.
// "-12.345", with as many fractional digits as the scale.
var Decimal = rapira.CustomFunc(decodeDecimal)

func decodeDecimal(r *rapira.Reader, _ []rapira.Scheme) (any, error) {
	b, err := r.ReadBytes(DecimalWidth)
	if err != nil {
		return nil, err
	}
	return FormatDecimal(b)
}

// FormatDecimal renders the 16-byte decimal layout read by Decimal.
func FormatDecimal(b []byte) (string, error) {
	if len(b) != DecimalWidth {
		return "", fmt.Errorf("decimal needs %d bytes, got %d", DecimalWidth, len(b))
	}
	flags := binary.LittleEndian.Uint32(b[0:4])
	scale := int((flags >> 16) & 0xff)
	if scale > maxDecimalScale {
		return "", fmt.Errorf("%w: %d", errDecimalScale, scale)
	}
	negative := flags&0x8000_0000 != 0

	lo := binary.LittleEndian.Uint32(b[4:8])
	mid := binary.LittleEndian.Uint32(b[8:12])
	hi := binary.LittleEndian.Uint32(b[12:16])

	m := new(big.Int).SetUint64(uint64(hi))
	m.Lsh(m, 32).Or(m, new(big.Int).SetUint64(uint64(mid)))
	m.Lsh(m, 32).Or(m, new(big.Int).SetUint64(uint64(lo)))

	digits := m.String()
	if scale > 0 {
		if len(digits) <= scale {
			digits = strings.Repeat("0", scale-len(digits)+1) + digits
		}
		cut := len(digits) - scale
		digits = digits[:cut] + "." + digits[cut:]
	}
	if negative && m.Sign() != 0 {
		digits = "-" + digits
	}
	return digits, nil
}
