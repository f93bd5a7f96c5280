package dsl

import (
	rapira "github.com/reoring/rapira"
)

// TypedKey builds a fixed-width composite key from parts in order.
func TypedKey(parts ...rapira.KeyPart) *rapira.TypedKey {
	return &rapira.TypedKey{Parts: append([]rapira.KeyPart(nil), parts...)}
}

// KeyU8 is a one-byte key component.
func KeyU8() rapira.KeyPart { return rapira.KeyPart{Kind: rapira.KeyPartU8} }

// KeyU32 is a big-endian uint32 key component.
func KeyU32() rapira.KeyPart { return rapira.KeyPart{Kind: rapira.KeyPartU32} }

// KeyArray is an n-byte key component decoded as lowercase hex.
func KeyArray(n int) rapira.KeyPart { return rapira.KeyPart{Kind: rapira.KeyPartArray, Size: n} }

// BytesKey is an opaque length-prefixed key.
func BytesKey() rapira.KeyScheme { return rapira.BytesKey{} }
