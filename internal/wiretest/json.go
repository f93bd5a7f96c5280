package wiretest

import "fmt"

// Member is one key/value pair of an Object.
type Member struct {
	Key string
	Val any
}

// Object is an ordered JSON object for JSON.
type Object []Member

// JSON appends v in the canonical Json enum layout. Supported values: nil,
// bool, uint64, int64, float64, string, []any and Object. Other integer types
// are encoded as I64. It panics on anything else.
func (w *Buf) JSON(v any) *Buf {
	switch x := v.(type) {
	case nil:
		return w.Tag(0)
	case bool:
		return w.Tag(1).Bool(x)
	case uint64:
		return w.Tag(2).Tag(0).U64(x)
	case int64:
		return w.Tag(2).Tag(1).I64(x)
	case int:
		return w.Tag(2).Tag(1).I64(int64(x))
	case float64:
		return w.Tag(2).Tag(2).F64(x)
	case string:
		return w.Tag(3).Str(x)
	case []any:
		w.Tag(4).Len32(len(x))
		for _, it := range x {
			w.JSON(it)
		}
		return w
	case Object:
		w.Tag(5).Len32(len(x))
		for _, m := range x {
			w.Str(m.Key).JSON(m.Val)
		}
		return w
	}
	panic(fmt.Sprintf("wiretest: unsupported json value %T", v))
}
