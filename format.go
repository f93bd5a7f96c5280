package rapira

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// Stringify renders a decoded value for display in one line: strings as is,
// numbers in decimal, times as RFC 3339 UTC with milliseconds, raw byte
// slices by length, and anything else as JSON. nil and booleans render as "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil, bool:
		return ""
	case string:
		return x
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case json.Number:
		return x.String()
	case time.Time:
		return x.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	case []byte:
		return "[]byte with len: " + strconv.Itoa(len(x))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Flatten lists the leaf fields of a named struct. Fields that are themselves
// named structs are expanded with dotted names ("address.city"); everything
// else, including tuple structs, is kept as a leaf. A struct without named
// fields yields nil.
func Flatten(s *Struct) []NamedField {
	return flatten(s, "")
}

func flatten(s *Struct, prefix string) []NamedField {
	fields, ok := s.Fields.(NamedFields)
	if !ok {
		return nil
	}
	var out []NamedField
	for _, f := range fields {
		if inner, ok := f.Scheme.(*Struct); ok {
			if _, named := inner.Fields.(NamedFields); named {
				out = append(out, flatten(inner, prefix+f.Name+".")...)
				continue
			}
		}
		out = append(out, NamedField{Name: prefix + f.Name, Scheme: f.Scheme})
	}
	return out
}
