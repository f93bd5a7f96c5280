package rapira

import "sort"

// CustomDecoder decodes the buffer region of a Custom scheme node. It reads
// through r, which shares the cursor of the enclosing decode, and is fully
// responsible for advancing it. args are the type arguments of the node.
type CustomDecoder interface {
	DecodeCustom(r *Reader, args []Scheme) (any, error)
}

// CustomFunc adapts a function to CustomDecoder.
type CustomFunc func(r *Reader, args []Scheme) (any, error)

func (f CustomFunc) DecodeCustom(r *Reader, args []Scheme) (any, error) { return f(r, args) }

// Registry maps custom type names to decoders. A Registry never changes after
// construction; With returns a modified copy. A nil *Registry is empty.
type Registry struct {
	handlers map[string]CustomDecoder
}

// NewRegistry copies entries into a new Registry.
func NewRegistry(entries map[string]CustomDecoder) *Registry {
	r := &Registry{handlers: make(map[string]CustomDecoder, len(entries))}
	for name, d := range entries {
		if d != nil {
			r.handlers[name] = d
		}
	}
	return r
}

// With returns a copy of r with name bound to d. A nil d removes the binding.
func (r *Registry) With(name string, d CustomDecoder) *Registry {
	out := r.clone()
	if d == nil {
		delete(out.handlers, name)
	} else {
		out.handlers[name] = d
	}
	return out
}

// Merge returns a copy of r extended with other; other wins on conflicts.
func (r *Registry) Merge(other *Registry) *Registry {
	out := r.clone()
	if other != nil {
		for k, v := range other.handlers {
			out.handlers[k] = v
		}
	}
	return out
}

func (r *Registry) clone() *Registry {
	var n int
	if r != nil {
		n = len(r.handlers)
	}
	out := &Registry{handlers: make(map[string]CustomDecoder, n+1)}
	if r != nil {
		for k, v := range r.handlers {
			out.handlers[k] = v
		}
	}
	return out
}

// Lookup returns the decoder registered under name.
func (r *Registry) Lookup(name string) (CustomDecoder, bool) {
	if r == nil {
		return nil, false
	}
	d, ok := r.handlers[name]
	return d, ok
}

// Names lists the registered names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
