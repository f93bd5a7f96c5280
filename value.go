package rapira

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Field is one decoded struct field.
type Field struct {
	Name  string
	Value any
}

// Record is a decoded named struct (or a decoded Json object). Fields keep
// declaration (or encounter) order; names are not required to be unique.
type Record struct {
	Name   string
	Fields []Field
}

// Get returns the value of the first field called name.
func (r *Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Fields)
}

// Names returns the field names in order.
func (r *Record) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Name
	}
	return out
}

// MarshalJSON renders the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EnumValue is a decoded Enum: the selected variant and its payload.
type EnumValue struct {
	Enum    string // name of the Enum scheme
	Variant string
	Value   any
}

// MarshalJSON renders the value as {"type": variant, "data": payload}.
func (e EnumValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Data any    `json:"data"`
	}{Type: e.Variant, Data: e.Value})
}

// Entry is a decoded key paired with its value.
type Entry struct {
	Key   any `json:"key"`
	Value any `json:"val"`
}
