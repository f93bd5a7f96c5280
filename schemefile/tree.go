package schemefile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	rapira "github.com/reoring/rapira"
	"github.com/reoring/rapira/i18n"
)

// FromTree builds a Scheme from a generic descriptor tree such as the one
// produced by decoding a scheme file. Problems are reported as
// rapira.Issues with code invalid_scheme and a JSON Pointer into the
// descriptor; every problem found is reported, not only the first.
func FromTree(tree any) (rapira.Scheme, error) {
	l := &loader{}
	s := l.scheme(tree)
	if len(l.issues) > 0 {
		return nil, l.issues
	}
	return s, nil
}

// KeyFromTree builds a KeyScheme from a generic descriptor tree.
func KeyFromTree(tree any) (rapira.KeyScheme, error) {
	l := &loader{}
	ks := l.key(tree)
	if len(l.issues) > 0 {
		return nil, l.issues
	}
	return ks, nil
}

type loader struct {
	path   []string
	issues rapira.Issues
}

func (l *loader) push(seg string) { l.path = append(l.path, seg) }
func (l *loader) pop()            { l.path = l.path[:len(l.path)-1] }

func (l *loader) pointer() string {
	if len(l.path) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range l.path {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

func (l *loader) failf(format string, args ...any) {
	l.issues = rapira.AppendIssues(l.issues, rapira.Issue{
		Path:    l.pointer(),
		Code:    rapira.CodeInvalidScheme,
		Message: i18n.T(rapira.CodeInvalidScheme, nil),
		Offset:  -1,
		Cause:   fmt.Errorf(format, args...),
	})
}

// node splits a {"type": ..., "data": ...} object. A bare string is accepted
// as shorthand for a payload-less node.
func (l *loader) node(v any) (typ string, data any, hasData bool, ok bool) {
	switch t := v.(type) {
	case string:
		return t, nil, false, true
	case map[string]any:
		typ, isStr := t["type"].(string)
		if !isStr {
			l.failf("missing string \"type\"")
			return "", nil, false, false
		}
		data, hasData = t["data"]
		return typ, data, hasData, true
	}
	l.failf("expected scheme object, got %s", typeName(v))
	return "", nil, false, false
}

func (l *loader) scheme(v any) rapira.Scheme {
	typ, data, hasData, ok := l.node(v)
	if !ok {
		return nil
	}
	kind := rapira.Kind(typ)
	if kind.IsPrimitive() {
		return rapira.Primitive(kind)
	}
	switch kind {
	case rapira.KindArrayBytes, rapira.KindArray, rapira.KindVec, rapira.KindOptional,
		rapira.KindCustom, rapira.KindStruct, rapira.KindEnum, rapira.KindSimpleEnum:
	default:
		l.failf("unknown scheme type %q", typ)
		return nil
	}
	if !hasData {
		l.failf("%s requires \"data\"", typ)
		return nil
	}
	l.push("data")
	defer l.pop()
	switch kind {
	case rapira.KindArrayBytes:
		n, ok := l.size(data)
		if !ok {
			return nil
		}
		return &rapira.ArrayBytes{Len: n}
	case rapira.KindArray:
		pair, ok := l.list(data, 2)
		if !ok {
			return nil
		}
		l.push("0")
		n, okN := l.size(pair[0])
		l.pop()
		l.push("1")
		elem := l.scheme(pair[1])
		l.pop()
		if !okN || elem == nil {
			return nil
		}
		return &rapira.Array{Len: n, Elem: elem}
	case rapira.KindVec:
		if elem := l.scheme(data); elem != nil {
			return &rapira.Vec{Elem: elem}
		}
		return nil
	case rapira.KindOptional:
		if inner := l.scheme(data); inner != nil {
			return &rapira.Optional{Inner: inner}
		}
		return nil
	case rapira.KindCustom:
		return l.custom(data)
	case rapira.KindStruct:
		return l.structure(data)
	case rapira.KindEnum:
		return l.enum(data)
	case rapira.KindSimpleEnum:
		return l.simpleEnum(data)
	}
	return nil
}

func (l *loader) custom(data any) rapira.Scheme {
	items, ok := data.([]any)
	if !ok || len(items) == 0 || len(items) > 2 {
		l.failf("Custom data must be [name, [args...]]")
		return nil
	}
	name, ok := items[0].(string)
	if !ok || name == "" {
		l.push("0")
		l.failf("custom type name must be a non-empty string")
		l.pop()
		return nil
	}
	c := &rapira.Custom{Name: name}
	if len(items) == 1 || items[1] == nil {
		return c
	}
	l.push("1")
	defer l.pop()
	args, ok := items[1].([]any)
	if !ok {
		l.failf("custom type arguments must be a list, got %s", typeName(items[1]))
		return nil
	}
	failed := false
	for i, a := range args {
		l.push(strconv.Itoa(i))
		s := l.scheme(a)
		l.pop()
		if s == nil {
			failed = true
			continue
		}
		c.Args = append(c.Args, s)
	}
	if failed {
		return nil
	}
	return c
}

func (l *loader) structure(data any) rapira.Scheme {
	obj, ok := data.(map[string]any)
	if !ok {
		l.failf("Struct data must be an object, got %s", typeName(data))
		return nil
	}
	name, _ := obj["name"].(string)
	l.push("fields")
	defer l.pop()
	typ, fdata, _, ok := l.node(obj["fields"])
	if !ok {
		return nil
	}
	l.push("data")
	defer l.pop()
	items, ok := fdata.([]any)
	if !ok && fdata != nil {
		l.failf("fields data must be a list, got %s", typeName(fdata))
		return nil
	}
	failed := false
	switch rapira.FieldsKind(typ) {
	case rapira.FieldsNamed:
		fields := make(rapira.NamedFields, 0, len(items))
		for i, it := range items {
			l.push(strconv.Itoa(i))
			pair, ok := l.list(it, 2)
			if !ok {
				l.pop()
				failed = true
				continue
			}
			fname, isStr := pair[0].(string)
			if !isStr {
				l.push("0")
				l.failf("field name must be a string, got %s", typeName(pair[0]))
				l.pop()
			}
			l.push("1")
			fs := l.scheme(pair[1])
			l.pop()
			l.pop()
			if !isStr || fs == nil {
				failed = true
				continue
			}
			fields = append(fields, rapira.NamedField{Name: fname, Scheme: fs})
		}
		if failed {
			return nil
		}
		return &rapira.Struct{Name: name, Fields: fields}
	case rapira.FieldsUnnamed:
		fields := make(rapira.UnnamedFields, 0, len(items))
		for i, it := range items {
			l.push(strconv.Itoa(i))
			fs := l.scheme(it)
			l.pop()
			if fs == nil {
				failed = true
				continue
			}
			fields = append(fields, fs)
		}
		if failed {
			return nil
		}
		return &rapira.Struct{Name: name, Fields: fields}
	}
	l.failf("unknown fields type %q", typ)
	return nil
}

func (l *loader) enum(data any) rapira.Scheme {
	obj, ok := data.(map[string]any)
	if !ok {
		l.failf("Enum data must be an object, got %s", typeName(data))
		return nil
	}
	name, _ := obj["name"].(string)
	l.push("variants")
	defer l.pop()
	variants, ok := obj["variants"].(map[string]any)
	if !ok {
		l.failf("variants must be an object keyed by index")
		return nil
	}
	out := make([]rapira.Variant, 0, len(variants))
	failed := false
	for _, k := range sortedIndexKeys(variants) {
		l.push(k)
		idx, okIdx := l.index(k)
		pair, okPair := l.list(variants[k], 2)
		if !okIdx || !okPair {
			l.pop()
			failed = true
			continue
		}
		vname, isStr := pair[0].(string)
		if !isStr {
			l.push("0")
			l.failf("variant name must be a string, got %s", typeName(pair[0]))
			l.pop()
		}
		l.push("1")
		vs := l.scheme(pair[1])
		l.pop()
		l.pop()
		if !isStr || vs == nil {
			failed = true
			continue
		}
		out = append(out, rapira.Variant{Index: idx, Name: vname, Scheme: vs})
	}
	if failed {
		return nil
	}
	return &rapira.Enum{Name: name, Variants: out}
}

func (l *loader) simpleEnum(data any) rapira.Scheme {
	obj, ok := data.(map[string]any)
	if !ok {
		l.failf("SimpleEnum data must be an object, got %s", typeName(data))
		return nil
	}
	name, _ := obj["name"].(string)
	l.push("variants")
	defer l.pop()
	variants, ok := obj["variants"].(map[string]any)
	if !ok {
		l.failf("variants must be an object keyed by index")
		return nil
	}
	out := make([]rapira.SimpleVariant, 0, len(variants))
	failed := false
	for _, k := range sortedIndexKeys(variants) {
		l.push(k)
		idx, okIdx := l.index(k)
		vname, isStr := variants[k].(string)
		if !isStr {
			l.failf("variant name must be a string, got %s", typeName(variants[k]))
		}
		l.pop()
		if !okIdx || !isStr {
			failed = true
			continue
		}
		out = append(out, rapira.SimpleVariant{Index: idx, Name: vname})
	}
	if failed {
		return nil
	}
	return &rapira.SimpleEnum{Name: name, Variants: out}
}

func (l *loader) key(v any) rapira.KeyScheme {
	typ, data, _, ok := l.node(v)
	if !ok {
		return nil
	}
	switch rapira.KeySchemeKind(typ) {
	case rapira.KeyBytes:
		return rapira.BytesKey{}
	case rapira.KeyTyped:
		l.push("data")
		defer l.pop()
		items, ok := data.([]any)
		if !ok {
			l.failf("Typed key data must be a list of parts, got %s", typeName(data))
			return nil
		}
		parts := make([]rapira.KeyPart, 0, len(items))
		failed := false
		for i, it := range items {
			l.push(strconv.Itoa(i))
			p, ok := l.keyPart(it)
			l.pop()
			if !ok {
				failed = true
				continue
			}
			parts = append(parts, p)
		}
		if failed {
			return nil
		}
		return &rapira.TypedKey{Parts: parts}
	}
	l.failf("unknown key scheme type %q", typ)
	return nil
}

func (l *loader) keyPart(v any) (rapira.KeyPart, bool) {
	typ, data, _, ok := l.node(v)
	if !ok {
		return rapira.KeyPart{}, false
	}
	switch rapira.KeyPartKind(typ) {
	case rapira.KeyPartU8, rapira.KeyPartU32:
		return rapira.KeyPart{Kind: rapira.KeyPartKind(typ)}, true
	case rapira.KeyPartArray:
		l.push("data")
		defer l.pop()
		obj, ok := data.(map[string]any)
		if !ok {
			l.failf("Array key part data must be {\"size\": n}")
			return rapira.KeyPart{}, false
		}
		l.push("size")
		n, ok := l.size(obj["size"])
		l.pop()
		if !ok {
			return rapira.KeyPart{}, false
		}
		return rapira.KeyPart{Kind: rapira.KeyPartArray, Size: n}, true
	}
	l.failf("unknown key part type %q", typ)
	return rapira.KeyPart{}, false
}

func (l *loader) list(v any, n int) ([]any, bool) {
	items, ok := v.([]any)
	if !ok || len(items) != n {
		l.failf("expected a list of %d items, got %s", n, typeName(v))
		return nil, false
	}
	return items, true
}

// size reads a non-negative length that fits a u32 length prefix.
func (l *loader) size(v any) (int, bool) {
	n, ok := toInt(v)
	if !ok || n < 0 || n > math.MaxUint32 {
		l.failf("expected a non-negative integer size, got %v", v)
		return 0, false
	}
	return int(n), true
}

func (l *loader) index(k string) (uint8, bool) {
	n, err := strconv.ParseUint(k, 10, 8)
	if err != nil {
		l.failf("variant index must be an integer in 0..255, got %q", k)
		return 0, false
	}
	return uint8(n), true
}

// sortedIndexKeys orders variant keys numerically; non-numeric keys sort last
// and are reported by index.
func sortedIndexKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// toInt accepts the integer representations produced by the JSON, YAML and
// CBOR decoders.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	}
	if _, ok := toInt(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
