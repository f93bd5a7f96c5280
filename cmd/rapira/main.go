// rapira decodes binary buffers with a scheme descriptor and prints the
// result as JSON.
//
// Usage:
//
//	rapira decode     --scheme FILE [--key FILE] [--mode value|seq|entries] [--input FILE|-] ...
//	rapira jsonschema --scheme FILE [--key FILE] [--mode value|entries]
//	rapira flatten    --scheme FILE
//	rapira convert    --scheme FILE --to json|jsonc|yaml|cbor [--out FILE]
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env carries the process streams so commands can run under tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := env{stdin: stdin, stdout: stdout, stderr: stderr}
	if len(args) == 0 {
		usage(stderr)
		return usageErrorf("missing command")
	}
	switch args[0] {
	case "decode":
		return decodeCmd(e, args[1:])
	case "jsonschema":
		return jsonSchemaCmd(e, args[1:])
	case "flatten":
		return flattenCmd(e, args[1:])
	case "convert":
		return convertCmd(e, args[1:])
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	}
	usage(stderr)
	return usageErrorf("unknown command %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `rapira: schema-driven binary decoding

Usage:
  rapira decode     --scheme FILE [--key FILE] [--mode value|seq|entries] [--input FILE|-]
                    [--compression auto|none|zstd|lz4] [--hex] [--offset N] [--max-depth N]
                    [--unwrap-json] [--indent] [--lang en|ru] [--log-level LEVEL]
  rapira jsonschema --scheme FILE [--key FILE] [--mode value|entries] [--unwrap-json]
  rapira flatten    --scheme FILE
  rapira convert    --scheme FILE --to json|jsonc|yaml|cbor [--out FILE]

Scheme files may be .json, .jsonc, .yaml/.yml or .cbor.`)
}

// usageError marks invalid invocations; they exit with status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
func (e *usageError) ExitCode() int { return 2 }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// newFlagSet returns a flag set that reports parse problems to stderr.
func newFlagSet(e env, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.BoolP("help", "h", false, "show help")
	return fs
}

// parseFlags parses args and reports whether the command should stop
// because help was requested.
func parseFlags(fs *pflag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return true, nil
		}
		return false, usageErrorf("%s: %v", fs.Name(), err)
	}
	if help, _ := fs.GetBool("help"); help {
		fs.PrintDefaults()
		return true, nil
	}
	if fs.NArg() > 0 {
		return false, usageErrorf("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return false, nil
}

// newLogger writes human-readable records when stderr is a terminal and JSON
// records otherwise.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, usageErrorf("invalid --log-level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
