package rapira

import (
	"strconv"
	"strings"
)

// pathSeg is one step of the JSON Pointer into the value being decoded.
// Segments are kept unrendered so the hot path does not format indices.
type pathSeg struct {
	name    string
	index   int
	isIndex bool
}

type pathStack []pathSeg

func (p *pathStack) field(name string) { *p = append(*p, pathSeg{name: name}) }
func (p *pathStack) index(i int)       { *p = append(*p, pathSeg{index: i, isIndex: true}) }
func (p *pathStack) pop()              { *p = (*p)[:len(*p)-1] }

// Pointer renders the stack as an RFC 6901 JSON Pointer ("/" for the root).
func (p pathStack) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.name, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
