package schemefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format selects the serialization of a scheme file.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
	FormatCBOR  Format = "cbor"
)

// ParseFormat maps a format name ("json", "jsonc", "yaml"/"yml", "cbor") to a
// Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, nil
	case "jsonc":
		return FormatJSONC, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	}
	return "", fmt.Errorf("schemefile: unknown format %q", name)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("schemefile: cannot infer format of %q without an extension", path)
	}
	return ParseFormat(ext)
}

// cborEnc writes deterministic CBOR: sorted map keys and smallest integer
// encodings.
var cborEnc cbor.EncMode

// cborDec decodes untyped maps as map[string]any so trees look the same as
// the JSON and YAML ones.
var cborDec cbor.DecMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("schemefile: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("schemefile: CBOR decoder initialization failed: " + err.Error())
	}
}

// decodeTree parses data into a generic tree of map[string]any, []any,
// strings, bools and numbers.
func decodeTree(data []byte, f Format) (any, error) {
	switch f {
	case FormatJSON:
		return decodeJSONTree(data)
	case FormatJSONC:
		return decodeJSONTree(jsonc.ToJSON(data))
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return yamlNormalize(v), nil
	case FormatCBOR:
		var v any
		if err := cborDec.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("schemefile: unknown format %q", f)
}

func decodeJSONTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("schemefile: trailing data after scheme document")
	}
	return v, nil
}

// yamlNormalize turns map[any]any (produced for non-string keys such as
// unquoted variant indices) into map[string]any recursively.
func yamlNormalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = yamlNormalize(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = yamlNormalize(vv)
		}
		return out
	default:
		return v
	}
}

const jsoncHeader = "// rapira scheme descriptor\n"

// encodeTree serializes a tree built by ToTree/KeyToTree.
func encodeTree(tree any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(tree, "", "  ")
	case FormatJSONC:
		b, err := json.MarshalIndent(tree, "", "  ")
		if err != nil {
			return nil, err
		}
		return append([]byte(jsoncHeader), b...), nil
	case FormatYAML:
		return yaml.Marshal(tree)
	case FormatCBOR:
		return cborEnc.Marshal(tree)
	}
	return nil, fmt.Errorf("schemefile: unknown format %q", f)
}
