package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	json "github.com/goccy/go-json"

	rapira "github.com/reoring/rapira"
	"github.com/reoring/rapira/custom"
	"github.com/reoring/rapira/i18n"
	"github.com/reoring/rapira/schemefile"
)

// Decode modes accepted by --mode.
const (
	modeValue   = "value"
	modeSeq     = "seq"
	modeEntries = "entries"
)

func decodeCmd(e env, args []string) error {
	var (
		schemePath  string
		keyPath     string
		mode        string
		inputPath   string
		compression string
		hexInput    bool
		offset      int
		maxDepth    int
		unwrapJSON  bool
		indent      bool
		lang        string
		logLevel    string
	)
	fs := newFlagSet(e, "decode")
	fs.StringVar(&schemePath, "scheme", "", "scheme descriptor file (required)")
	fs.StringVar(&keyPath, "key", "", "key scheme file (defaults to the \"key\" member of --scheme)")
	fs.StringVar(&mode, "mode", modeValue, "value, seq or entries")
	fs.StringVarP(&inputPath, "input", "i", "-", "buffer file, - for stdin")
	fs.StringVar(&compression, "compression", compressionAuto, "auto, none, zstd or lz4")
	fs.BoolVar(&hexInput, "hex", false, "input is hex text")
	fs.IntVar(&offset, "offset", 0, "start offset in the decompressed buffer")
	fs.IntVar(&maxDepth, "max-depth", rapira.DefaultMaxDepth, "container nesting limit, negative disables")
	fs.BoolVar(&unwrapJSON, "unwrap-json", false, "print Json values as plain JSON")
	fs.BoolVar(&indent, "indent", false, "indent output (default: when stdout is a terminal)")
	fs.StringVar(&lang, "lang", "en", "error message language: en or ru")
	fs.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	if stop, err := parseFlags(fs, args); stop || err != nil {
		return err
	}
	if schemePath == "" {
		return usageErrorf("decode: --scheme is required")
	}
	if lang != "en" && lang != "ru" {
		return usageErrorf("decode: unsupported --lang %q", lang)
	}
	if offset < 0 {
		return usageErrorf("decode: --offset must not be negative")
	}
	logger, err := newLogger(e.stderr, logLevel)
	if err != nil {
		return err
	}
	i18n.SetLanguage(lang)

	doc, err := schemefile.ReadFile(schemePath)
	if err != nil {
		return err
	}
	ks := doc.Key
	if keyPath != "" {
		if ks, err = schemefile.ReadKeyFile(keyPath); err != nil {
			return err
		}
	}
	if mode == modeEntries && ks == nil {
		return usageErrorf("decode: --mode entries needs a key scheme (--key or a \"key\" member)")
	}

	data, err := readInput(e, inputPath)
	if err != nil {
		return err
	}
	if hexInput {
		if data, err = decodeHexInput(data); err != nil {
			return err
		}
	}
	comp := detectCompression(data, compression)
	if data, err = decompress(data, comp); err != nil {
		return err
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		logger.Debug("input loaded",
			"input", inputPath,
			"compression", comp,
			"bytes", len(data),
			"blake3", digest(data),
			"scheme", rapira.Describe(doc.Value),
		)
	}
	if offset > len(data) {
		return fmt.Errorf("decode: offset %d beyond buffer of %d bytes", offset, len(data))
	}

	opt := rapira.DecodeOpt{Registry: custom.Defaults(), MaxDepth: maxDepth, UnwrapJSON: unwrapJSON}
	var out any
	switch mode {
	case modeValue:
		cur := &rapira.Cursor{Offset: offset}
		v, derr := rapira.Decode(data, doc.Value, cur, opt)
		if derr == nil && cur.Offset < len(data) {
			logger.Warn("trailing bytes after value", "offset", cur.Offset, "remaining", len(data)-cur.Offset)
		}
		out, err = v, derr
	case modeSeq:
		out, err = rapira.DecodeSequence(data[offset:], doc.Value, opt)
	case modeEntries:
		out, err = rapira.DecodeEntrySequence(data[offset:], ks, doc.Value, opt)
	default:
		return usageErrorf("decode: unknown --mode %q", mode)
	}
	if err != nil {
		logDecodeError(logger, err)
		return fmt.Errorf("decode: %w", err)
	}

	if !fs.Changed("indent") {
		indent = isTerminal(e.stdout)
	}
	return writeJSON(e.stdout, out, indent)
}

func logDecodeError(logger interface {
	Error(msg string, args ...any)
}, err error) {
	iss, ok := rapira.AsIssues(err)
	if !ok {
		return
	}
	for _, it := range iss {
		logger.Error("decode failed",
			"code", it.Code,
			"path", it.Path,
			"offset", it.Offset,
			"scheme", it.Scheme,
		)
	}
}

// writeJSON prints v followed by a newline.
func writeJSON(w io.Writer, v any, indent bool) error {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
