package rapira

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeOutOfBounds     = "out_of_bounds"
	CodeUnknownVariant  = "unknown_variant"
	CodeUnknownFields   = "unknown_fields"
	CodeInvalidJSON     = "invalid_json"
	CodeMissingCustom   = "missing_custom"
	CodeCustomFailed    = "custom_failed"
	CodeUnhandledScheme = "unhandled_scheme"
	CodeMaxDepth        = "max_depth"
	// Scheme descriptor loading (package schemefile)
	CodeInvalidScheme = "invalid_scheme"
)

// Sentinels matched by errors.Is against any Issues value carrying the
// corresponding code.
var (
	ErrOutOfBounds     = errors.New("rapira: read out of bounds")
	ErrUnknownVariant  = errors.New("rapira: unknown variant")
	ErrUnknownFields   = errors.New("rapira: unknown fields kind")
	ErrInvalidJSON     = errors.New("rapira: invalid embedded json")
	ErrMissingCustom   = errors.New("rapira: missing custom handler")
	ErrCustomFailed    = errors.New("rapira: custom handler failed")
	ErrUnhandledScheme = errors.New("rapira: unhandled scheme")
	ErrMaxDepth        = errors.New("rapira: max depth exceeded")
	ErrInvalidScheme   = errors.New("rapira: invalid scheme descriptor")
)

var sentinelByCode = map[string]error{
	CodeOutOfBounds:     ErrOutOfBounds,
	CodeUnknownVariant:  ErrUnknownVariant,
	CodeUnknownFields:   ErrUnknownFields,
	CodeInvalidJSON:     ErrInvalidJSON,
	CodeMissingCustom:   ErrMissingCustom,
	CodeCustomFailed:    ErrCustomFailed,
	CodeUnhandledScheme: ErrUnhandledScheme,
	CodeMaxDepth:        ErrMaxDepth,
	CodeInvalidScheme:   ErrInvalidScheme,
}

// Issue describes one decode failure.
type Issue struct {
	Path    string // JSON Pointer into the decoded value (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Scheme  string // Describe() of the scheme node being decoded.
	Offset  int64  // Byte offset where the failing read started (-1 when unknown).
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"need":4, "have":1})
	// for i18n and observability.
	Params map[string]any
}

func (it Issue) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	if it.Scheme != "" || it.Offset >= 0 {
		b.WriteString(" (")
		if it.Scheme != "" {
			b.WriteString(it.Scheme)
		}
		if it.Offset >= 0 {
			if it.Scheme != "" {
				b.WriteString(" ")
			}
			fmt.Fprintf(b, "@ offset %d", it.Offset)
		}
		b.WriteString(")")
	}
	if it.Message != "" && it.Message != it.Code {
		b.WriteString(": ")
		b.WriteString(it.Message)
	}
	if it.Cause != nil {
		b.WriteString(": ")
		b.WriteString(it.Cause.Error())
	}
	return b.String()
}

// Issues is a collection of decode errors that implements error. Decoding
// stops at the first failure, so values produced by this package hold exactly
// one Issue; scheme descriptor validation may report several.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the code sentinels and causes so errors.Is/As see through
// Issues.
func (iss Issues) Unwrap() []error {
	out := make([]error, 0, len(iss)*2)
	for _, it := range iss {
		if s, ok := sentinelByCode[it.Code]; ok {
			out = append(out, s)
		}
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// First returns the first issue, or the zero Issue when empty.
func (iss Issues) First() Issue {
	if len(iss) == 0 {
		return Issue{Offset: -1}
	}
	return iss[0]
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
