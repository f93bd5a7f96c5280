package schemefile

import (
	"strconv"

	rapira "github.com/reoring/rapira"
)

// ToTree renders s in descriptor form. The result only holds
// map[string]any, []any, string and int values, so every supported format
// can serialize it. A nil scheme renders as nil.
func ToTree(s rapira.Scheme) any {
	switch s := s.(type) {
	case nil:
		return nil
	case rapira.Primitive:
		return map[string]any{"type": string(s)}
	case *rapira.ArrayBytes:
		return typed(s.Kind(), s.Len)
	case *rapira.Array:
		return typed(s.Kind(), []any{s.Len, ToTree(s.Elem)})
	case *rapira.Vec:
		return typed(s.Kind(), ToTree(s.Elem))
	case *rapira.Optional:
		return typed(s.Kind(), ToTree(s.Inner))
	case *rapira.Custom:
		args := make([]any, 0, len(s.Args))
		for _, a := range s.Args {
			args = append(args, ToTree(a))
		}
		return typed(s.Kind(), []any{s.Name, args})
	case *rapira.Struct:
		return typed(s.Kind(), map[string]any{"name": s.Name, "fields": fieldsTree(s.Fields)})
	case *rapira.Enum:
		variants := make(map[string]any, len(s.Variants))
		for _, v := range s.Variants {
			variants[strconv.Itoa(int(v.Index))] = []any{v.Name, ToTree(v.Scheme)}
		}
		return typed(s.Kind(), map[string]any{"name": s.Name, "variants": variants})
	case *rapira.SimpleEnum:
		variants := make(map[string]any, len(s.Variants))
		for _, v := range s.Variants {
			variants[strconv.Itoa(int(v.Index))] = v.Name
		}
		return typed(s.Kind(), map[string]any{"name": s.Name, "variants": variants})
	}
	return map[string]any{"type": string(s.Kind())}
}

func fieldsTree(f rapira.Fields) any {
	switch f := f.(type) {
	case rapira.NamedFields:
		items := make([]any, 0, len(f))
		for _, nf := range f {
			items = append(items, []any{nf.Name, ToTree(nf.Scheme)})
		}
		return map[string]any{"type": string(rapira.FieldsNamed), "data": items}
	case rapira.UnnamedFields:
		items := make([]any, 0, len(f))
		for _, s := range f {
			items = append(items, ToTree(s))
		}
		return map[string]any{"type": string(rapira.FieldsUnnamed), "data": items}
	}
	return nil
}

// KeyToTree renders ks in descriptor form.
func KeyToTree(ks rapira.KeyScheme) any {
	switch ks := ks.(type) {
	case *rapira.TypedKey:
		parts := make([]any, 0, len(ks.Parts))
		for _, p := range ks.Parts {
			if p.Kind == rapira.KeyPartArray {
				parts = append(parts, map[string]any{"type": string(p.Kind), "data": map[string]any{"size": p.Size}})
				continue
			}
			parts = append(parts, map[string]any{"type": string(p.Kind)})
		}
		return map[string]any{"type": string(rapira.KeyTyped), "data": parts}
	case rapira.BytesKey, *rapira.BytesKey:
		return map[string]any{"type": string(rapira.KeyBytes)}
	}
	return nil
}

func typed(k rapira.Kind, data any) map[string]any {
	return map[string]any{"type": string(k), "data": data}
}
