// Package schemefile loads and saves rapira scheme descriptors.
//
// A descriptor is the tagged tree the producing side serializes for its
// types: {"type": "Vec", "data": {"type": "Str"}} and so on. Files may hold a
// bare value scheme or a document with both a value and a key scheme:
//
//	{"value": {"type": "U32"}, "key": {"type": "Typed", "data": [{"type": "U8"}]}}
//
// JSON, JSON with comments, YAML and CBOR encodings are supported.
package schemefile

import (
	"fmt"
	"os"

	rapira "github.com/reoring/rapira"
)

// Document is a loaded descriptor file. Key is nil when the file only
// describes a value.
type Document struct {
	Value rapira.Scheme
	Key   rapira.KeyScheme
}

// Parse decodes data in format f and builds the schemes it describes.
func Parse(data []byte, f Format) (*Document, error) {
	tree, err := decodeTree(data, f)
	if err != nil {
		return nil, fmt.Errorf("schemefile: decode %s: %w", f, err)
	}
	return FromDocumentTree(tree)
}

// FromDocumentTree builds a Document from either a bare scheme tree or an
// object with "value" and optional "key" members.
func FromDocumentTree(tree any) (*Document, error) {
	obj, ok := tree.(map[string]any)
	if !ok {
		s, err := FromTree(tree)
		if err != nil {
			return nil, err
		}
		return &Document{Value: s}, nil
	}
	if _, isScheme := obj["type"]; isScheme {
		s, err := FromTree(tree)
		if err != nil {
			return nil, err
		}
		return &Document{Value: s}, nil
	}

	l := &loader{}
	doc := &Document{}
	if v, ok := obj["value"]; ok {
		l.push("value")
		doc.Value = l.scheme(v)
		l.pop()
	} else {
		l.failf("document needs a \"value\" scheme")
	}
	if k, ok := obj["key"]; ok && k != nil {
		l.push("key")
		doc.Key = l.key(k)
		l.pop()
	}
	if len(l.issues) > 0 {
		return nil, l.issues
	}
	return doc, nil
}

// Marshal serializes doc in format f. A document without a key is written as
// a bare scheme tree.
func Marshal(doc *Document, f Format) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("schemefile: nil document")
	}
	var tree any = ToTree(doc.Value)
	if doc.Key != nil {
		tree = map[string]any{"value": tree, "key": KeyToTree(doc.Key)}
	}
	b, err := encodeTree(tree, f)
	if err != nil {
		return nil, fmt.Errorf("schemefile: encode %s: %w", f, err)
	}
	return b, nil
}

// ReadFile loads a descriptor file, picking the format from its extension.
func ReadFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemefile: read %s: %w", path, err)
	}
	return Parse(data, f)
}

// WriteFile saves doc to path in the format implied by its extension.
func WriteFile(path string, doc *Document) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	b, err := Marshal(doc, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("schemefile: write %s: %w", path, err)
	}
	return nil
}

// ParseKey decodes a key scheme file: either a bare key tree or a document
// with a "key" member.
func ParseKey(data []byte, f Format) (rapira.KeyScheme, error) {
	tree, err := decodeTree(data, f)
	if err != nil {
		return nil, fmt.Errorf("schemefile: decode %s: %w", f, err)
	}
	if obj, ok := tree.(map[string]any); ok {
		if _, isKey := obj["type"]; !isKey {
			if k, ok := obj["key"]; ok {
				l := &loader{}
				l.push("key")
				ks := l.key(k)
				if len(l.issues) > 0 {
					return nil, l.issues
				}
				return ks, nil
			}
		}
	}
	return KeyFromTree(tree)
}

// ReadKeyFile loads a key scheme file, picking the format from its extension.
func ReadKeyFile(path string) (rapira.KeyScheme, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemefile: read %s: %w", path, err)
	}
	return ParseKey(data, f)
}
