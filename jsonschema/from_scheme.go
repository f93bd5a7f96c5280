package jsonschema

import (
	"fmt"
	"math"
	"strconv"

	json "github.com/goccy/go-json"

	rapira "github.com/reoring/rapira"
)

// JSONDef is the $defs entry describing the canonical Json enum tree.
const JSONDef = "Json"

const (
	hexPattern = "^([0-9a-f]{2})*$"
	idPattern  = "^[0-9a-f]{10}-[0-9]{1,3}-[0-9a-f]{4}$"
)

// Options tunes the projection.
type Options struct {
	// UnwrapJSON describes Json nodes as arbitrary JSON, matching values
	// decoded with rapira.DecodeOpt.UnwrapJSON.
	UnwrapJSON bool
}

// FromScheme describes the JSON rendering of values decoded with s.
func FromScheme(s rapira.Scheme, opts ...Options) (*Schema, error) {
	p := newProjector(opts)
	out, err := p.scheme(s)
	if err != nil {
		return nil, err
	}
	return p.root(out), nil
}

// FromKeyScheme describes the JSON rendering of keys decoded with ks.
func FromKeyScheme(ks rapira.KeyScheme) (*Schema, error) {
	out, err := keySchema(ks)
	if err != nil {
		return nil, err
	}
	out.SchemaURI = Draft
	return out, nil
}

// FromEntry describes one decoded key/value entry: {"key": ..., "val": ...}.
func FromEntry(ks rapira.KeyScheme, vs rapira.Scheme, opts ...Options) (*Schema, error) {
	p := newProjector(opts)
	k, err := keySchema(ks)
	if err != nil {
		return nil, err
	}
	v, err := p.scheme(vs)
	if err != nil {
		return nil, err
	}
	return p.root(&Schema{
		Type:                 "object",
		Properties:           map[string]*Schema{"key": k, "val": v},
		Required:             []string{"key", "val"},
		AdditionalProperties: false,
	}), nil
}

type projector struct {
	opt      Options
	defs     map[string]*Schema
	building bool
}

func newProjector(opts []Options) *projector {
	p := &projector{}
	if len(opts) > 0 {
		p.opt = opts[len(opts)-1]
	}
	return p
}

func (p *projector) root(s *Schema) *Schema {
	s.SchemaURI = Draft
	if len(p.defs) > 0 {
		s.Defs = p.defs
	}
	return s
}

func (p *projector) scheme(s rapira.Scheme) (*Schema, error) {
	switch s := s.(type) {
	case rapira.Primitive:
		return p.primitive(s)
	case *rapira.ArrayBytes:
		return hexString(s.Len), nil
	case *rapira.Array:
		items, err := p.scheme(s.Elem)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items, MinItems: intPtr(s.Len), MaxItems: intPtr(s.Len)}, nil
	case *rapira.Vec:
		items, err := p.scheme(s.Elem)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case *rapira.Optional:
		inner, err := p.scheme(s.Inner)
		if err != nil {
			return nil, err
		}
		return &Schema{OneOf: []*Schema{{Type: "null"}, inner}}, nil
	case *rapira.Custom:
		return &Schema{Title: s.Name, Description: "custom type " + rapira.Describe(s)}, nil
	case *rapira.Struct:
		return p.structure(s)
	case *rapira.SimpleEnum:
		names := make([]any, len(s.Variants))
		for i, v := range s.Variants {
			names[i] = v.Name
		}
		return &Schema{Title: s.Name, Type: "string", Enum: names}, nil
	case *rapira.Enum:
		arms := make([]*Schema, 0, len(s.Variants))
		for _, v := range s.Variants {
			data, err := p.scheme(v.Scheme)
			if err != nil {
				return nil, err
			}
			arms = append(arms, &Schema{
				Type: "object",
				Properties: map[string]*Schema{
					"type": {Const: v.Name},
					"data": data,
				},
				Required:             []string{"type", "data"},
				AdditionalProperties: false,
			})
		}
		return &Schema{Title: s.Name, OneOf: arms}, nil
	}
	return nil, fmt.Errorf("jsonschema: %w: %s", rapira.ErrUnhandledScheme, rapira.Describe(s))
}

func (p *projector) structure(s *rapira.Struct) (*Schema, error) {
	switch fields := s.Fields.(type) {
	case rapira.NamedFields:
		out := &Schema{
			Title:                s.Name,
			Type:                 "object",
			Properties:           make(map[string]*Schema, len(fields)),
			Required:             make([]string, 0, len(fields)),
			AdditionalProperties: false,
		}
		for _, f := range fields {
			fs, err := p.scheme(f.Scheme)
			if err != nil {
				return nil, err
			}
			if _, dup := out.Properties[f.Name]; !dup {
				out.Required = append(out.Required, f.Name)
			}
			out.Properties[f.Name] = fs
		}
		return out, nil
	case rapira.UnnamedFields:
		items := make([]*Schema, 0, len(fields))
		for _, f := range fields {
			fs, err := p.scheme(f)
			if err != nil {
				return nil, err
			}
			items = append(items, fs)
		}
		return &Schema{
			Title:       s.Name,
			Type:        "array",
			PrefixItems: items,
			Items:       false,
			MinItems:    intPtr(len(items)),
			MaxItems:    intPtr(len(items)),
		}, nil
	}
	return nil, fmt.Errorf("jsonschema: %w: struct %s", rapira.ErrUnknownFields, s.Name)
}

func (p *projector) primitive(k rapira.Primitive) (*Schema, error) {
	switch rapira.Kind(k) {
	case rapira.KindBool:
		return &Schema{Type: "boolean"}, nil
	case rapira.KindU8:
		return uintRange(math.MaxUint8), nil
	case rapira.KindU16:
		return uintRange(math.MaxUint16), nil
	case rapira.KindU32:
		return uintRange(math.MaxUint32), nil
	case rapira.KindU64:
		return uintRange(math.MaxUint64), nil
	case rapira.KindI32:
		return intRange(math.MinInt32, math.MaxInt32), nil
	case rapira.KindI64:
		return intRange(math.MinInt64, math.MaxInt64), nil
	case rapira.KindF32, rapira.KindF64:
		return &Schema{Type: "number"}, nil
	case rapira.KindStr:
		return &Schema{Type: "string"}, nil
	case rapira.KindVoid:
		return &Schema{Type: "null"}, nil
	case rapira.KindDatetime, rapira.KindTimestamp:
		return &Schema{Type: "string", Format: "date-time"}, nil
	case rapira.KindFuid, rapira.KindLowID:
		return &Schema{Type: "string", Pattern: idPattern}, nil
	case rapira.KindBytes:
		return &Schema{Type: "string", Pattern: hexPattern}, nil
	case rapira.KindJSONBytes:
		return &Schema{Description: "embedded json"}, nil
	case rapira.KindJSON:
		if p.opt.UnwrapJSON {
			return &Schema{Description: "json"}, nil
		}
		if err := p.defineJSON(); err != nil {
			return nil, err
		}
		return &Schema{Ref: "#/$defs/" + JSONDef}, nil
	}
	return nil, fmt.Errorf("jsonschema: %w: %s", rapira.ErrUnhandledScheme, string(k))
}

// defineJSON adds the canonical Json tree to $defs once. Its self references
// resolve to the $ref returned for the Json primitive.
func (p *projector) defineJSON() error {
	if p.building || p.defs[JSONDef] != nil {
		return nil
	}
	p.building = true
	def, err := p.scheme(rapira.JSONValueScheme)
	p.building = false
	if err != nil {
		return err
	}
	if p.defs == nil {
		p.defs = map[string]*Schema{}
	}
	p.defs[JSONDef] = def
	return nil
}

func keySchema(ks rapira.KeyScheme) (*Schema, error) {
	switch ks := ks.(type) {
	case *rapira.TypedKey:
		items := make([]*Schema, 0, len(ks.Parts))
		for _, part := range ks.Parts {
			switch part.Kind {
			case rapira.KeyPartU8:
				items = append(items, uintRange(math.MaxUint8))
			case rapira.KeyPartU32:
				items = append(items, uintRange(math.MaxUint32))
			case rapira.KeyPartArray:
				items = append(items, hexString(part.Size))
			default:
				return nil, fmt.Errorf("jsonschema: %w: key part %s", rapira.ErrUnhandledScheme, part)
			}
		}
		return &Schema{
			Type:        "array",
			PrefixItems: items,
			Items:       false,
			MinItems:    intPtr(len(items)),
			MaxItems:    intPtr(len(items)),
		}, nil
	case rapira.BytesKey, *rapira.BytesKey:
		return &Schema{Type: "string", Pattern: hexPattern}, nil
	}
	return nil, fmt.Errorf("jsonschema: %w: key scheme %T", rapira.ErrUnhandledScheme, ks)
}

func hexString(n int) *Schema {
	return &Schema{Type: "string", Pattern: hexPattern, MinLength: intPtr(2 * n), MaxLength: intPtr(2 * n)}
}

func uintRange(max uint64) *Schema {
	return &Schema{Type: "integer", Minimum: "0", Maximum: json.Number(strconv.FormatUint(max, 10))}
}

func intRange(min, max int64) *Schema {
	return &Schema{
		Type:    "integer",
		Minimum: json.Number(strconv.FormatInt(min, 10)),
		Maximum: json.Number(strconv.FormatInt(max, 10)),
	}
}

func intPtr(n int) *int { return &n }
