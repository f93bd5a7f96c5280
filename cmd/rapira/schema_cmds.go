package main

import (
	"fmt"
	"os"

	rapira "github.com/reoring/rapira"
	"github.com/reoring/rapira/jsonschema"
	"github.com/reoring/rapira/schemefile"
)

func jsonSchemaCmd(e env, args []string) error {
	var (
		schemePath string
		keyPath    string
		mode       string
		unwrapJSON bool
	)
	fs := newFlagSet(e, "jsonschema")
	fs.StringVar(&schemePath, "scheme", "", "scheme descriptor file (required)")
	fs.StringVar(&keyPath, "key", "", "key scheme file")
	fs.StringVar(&mode, "mode", modeValue, "value or entries")
	fs.BoolVar(&unwrapJSON, "unwrap-json", false, "describe Json values as plain JSON")
	if stop, err := parseFlags(fs, args); stop || err != nil {
		return err
	}
	if schemePath == "" {
		return usageErrorf("jsonschema: --scheme is required")
	}
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

	opt := jsonschema.Options{UnwrapJSON: unwrapJSON}
	var out *jsonschema.Schema
	switch mode {
	case modeValue:
		out, err = jsonschema.FromScheme(doc.Value, opt)
	case modeEntries:
		if ks == nil {
			return usageErrorf("jsonschema: --mode entries needs a key scheme")
		}
		out, err = jsonschema.FromEntry(ks, doc.Value, opt)
	default:
		return usageErrorf("jsonschema: unknown --mode %q", mode)
	}
	if err != nil {
		return fmt.Errorf("jsonschema: %w", err)
	}
	return writeJSON(e.stdout, out, true)
}

// flattenCmd prints one "name<TAB>scheme" line per leaf field.
func flattenCmd(e env, args []string) error {
	var schemePath string
	fs := newFlagSet(e, "flatten")
	fs.StringVar(&schemePath, "scheme", "", "scheme descriptor file (required)")
	if stop, err := parseFlags(fs, args); stop || err != nil {
		return err
	}
	if schemePath == "" {
		return usageErrorf("flatten: --scheme is required")
	}
	doc, err := schemefile.ReadFile(schemePath)
	if err != nil {
		return err
	}
	st, ok := doc.Value.(*rapira.Struct)
	if !ok {
		return fmt.Errorf("flatten: scheme is %s, want a struct with named fields", rapira.Describe(doc.Value))
	}
	if _, named := st.Fields.(rapira.NamedFields); !named {
		return fmt.Errorf("flatten: struct %s has no named fields", st.Name)
	}
	for _, f := range rapira.Flatten(st) {
		if _, err := fmt.Fprintf(e.stdout, "%s\t%s\n", f.Name, rapira.Describe(f.Scheme)); err != nil {
			return err
		}
	}
	return nil
}

func convertCmd(e env, args []string) error {
	var (
		schemePath string
		to         string
		outPath    string
	)
	fs := newFlagSet(e, "convert")
	fs.StringVar(&schemePath, "scheme", "", "scheme descriptor file (required)")
	fs.StringVar(&to, "to", "", "json, jsonc, yaml or cbor (defaults to the --out extension)")
	fs.StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	if stop, err := parseFlags(fs, args); stop || err != nil {
		return err
	}
	if schemePath == "" {
		return usageErrorf("convert: --scheme is required")
	}

	var (
		f   schemefile.Format
		err error
	)
	switch {
	case to != "":
		f, err = schemefile.ParseFormat(to)
	case outPath != "":
		f, err = schemefile.FormatFromPath(outPath)
	default:
		return usageErrorf("convert: --to or --out is required")
	}
	if err != nil {
		return usageErrorf("convert: %v", err)
	}

	doc, err := schemefile.ReadFile(schemePath)
	if err != nil {
		return err
	}
	b, err := schemefile.Marshal(doc, f)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = e.stdout.Write(b)
		return err
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return fmt.Errorf("convert: write %s: %w", outPath, err)
	}
	return nil
}
