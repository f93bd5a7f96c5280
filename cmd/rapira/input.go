package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Compression names accepted by --compression.
const (
	compressionAuto = "auto"
	compressionNone = "none"
	compressionZstd = "zstd"
	compressionLZ4  = "lz4"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// zstdDecoder is reused across calls; DecodeAll is safe for concurrent use.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("rapira: zstd decoder initialization failed: " + err.Error())
	}
}

// readInput loads the buffer named by path ("-" for stdin).
func readInput(e env, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// decodeHexInput strips whitespace and decodes hex text to bytes.
func decodeHexInput(data []byte) ([]byte, error) {
	clean := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)
	out := make([]byte, hex.DecodedLen(len(clean)))
	n, err := hex.Decode(out, clean)
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return out[:n], nil
}

// detectCompression resolves "auto" by frame magic.
func detectCompression(data []byte, mode string) string {
	if mode != compressionAuto {
		return mode
	}
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return compressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return compressionLZ4
	}
	return compressionNone
}

func decompress(data []byte, mode string) ([]byte, error) {
	switch mode {
	case compressionNone:
		return data, nil
	case compressionZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		return out, nil
	case compressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return out, nil
	}
	return nil, usageErrorf("unknown --compression %q", mode)
}

// digest is the hex blake3 sum logged for each decoded buffer.
func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
