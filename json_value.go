package rapira

import "fmt"

// JSONValueScheme is the canonical scheme behind the Json primitive:
//
//	Json = Null(Void) | Bool(Bool) | Number(U64 | I64 | F64) | String(Str)
//	     | Array(Vec<Json>) | Object(Vec<(Str, Json)>)
//
// Recursion goes through the Json primitive, which the engine resolves back
// to this scheme, so the value itself stays a finite tree.
var JSONValueScheme = &Enum{
	Name: "Json",
	Variants: []Variant{
		{Index: 0, Name: "Null", Scheme: Primitive(KindVoid)},
		{Index: 1, Name: "Bool", Scheme: Primitive(KindBool)},
		{Index: 2, Name: "Number", Scheme: jsonNumberScheme},
		{Index: 3, Name: "String", Scheme: Primitive(KindStr)},
		{Index: 4, Name: "Array", Scheme: &Vec{Elem: Primitive(KindJSON)}},
		{Index: 5, Name: "Object", Scheme: &Vec{Elem: &Struct{
			Fields: UnnamedFields{Primitive(KindStr), Primitive(KindJSON)},
		}}},
	},
}

var jsonNumberScheme = &Enum{
	Name: "Number",
	Variants: []Variant{
		{Index: 0, Name: "U64", Scheme: Primitive(KindU64)},
		{Index: 1, Name: "I64", Scheme: Primitive(KindI64)},
		{Index: 2, Name: "F64", Scheme: Primitive(KindF64)},
	},
}

// UnwrapJSON converts a decoded canonical Json tree into plain values: nil,
// bool, uint64, int64, float64, string, []any and *Record for objects (keys in
// encounter order, duplicates kept).
func UnwrapJSON(v any) (any, error) {
	return unwrapJSON(v, pathStack{})
}

func unwrapJSON(v any, path pathStack) (any, error) {
	ev, ok := v.(EnumValue)
	if !ok {
		return nil, jsonShapeIssue(path, "expected Json enum value, got %T", v)
	}
	switch ev.Variant {
	case "Null":
		return nil, nil
	case "Bool", "String":
		return ev.Value, nil
	case "Number":
		n, ok := ev.Value.(EnumValue)
		if !ok {
			return nil, jsonShapeIssue(path, "expected Number enum value, got %T", ev.Value)
		}
		return n.Value, nil
	case "Array":
		items, ok := ev.Value.([]any)
		if !ok {
			return nil, jsonShapeIssue(path, "expected array items, got %T", ev.Value)
		}
		out := make([]any, len(items))
		for i, it := range items {
			path.index(i)
			u, err := unwrapJSON(it, path)
			if err != nil {
				return nil, err
			}
			path.pop()
			out[i] = u
		}
		return out, nil
	case "Object":
		pairs, ok := ev.Value.([]any)
		if !ok {
			return nil, jsonShapeIssue(path, "expected object members, got %T", ev.Value)
		}
		rec := &Record{Fields: make([]Field, 0, len(pairs))}
		for i, p := range pairs {
			kv, ok := p.([]any)
			if !ok || len(kv) != 2 {
				return nil, jsonShapeIssue(path, "member %d is not a key/value pair", i)
			}
			key, ok := kv[0].(string)
			if !ok {
				return nil, jsonShapeIssue(path, "member %d has a non-string key", i)
			}
			path.field(key)
			u, err := unwrapJSON(kv[1], path)
			if err != nil {
				return nil, err
			}
			path.pop()
			rec.Fields = append(rec.Fields, Field{Name: key, Value: u})
		}
		return rec, nil
	}
	return nil, jsonShapeIssue(path, "unknown Json variant %q", ev.Variant)
}

func jsonShapeIssue(path pathStack, format string, args ...any) error {
	return Issues{{
		Path:    path.Pointer(),
		Code:    CodeInvalidJSON,
		Message: translate(CodeInvalidJSON, nil),
		Scheme:  string(KindJSON),
		Offset:  -1,
		Cause:   fmt.Errorf(format, args...),
	}}
}
