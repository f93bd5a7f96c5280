// Package custom provides decoders for custom types that show up in most
// rapira schemes: decimals, UUIDs and the standard set and map collections.
//
// Register them explicitly with Defaults() or pick single decoders:
//
//	reg := custom.Defaults().With("Money", myMoneyDecoder)
//	v, err := rapira.DecodeValue(buf, scheme, rapira.DecodeOpt{Registry: reg})
package custom

import (
	"fmt"

	"github.com/google/uuid"

	rapira "github.com/reoring/rapira"
)

// Registry names of the built-in collection and identifier types.
const (
	UUIDName     = "Uuid"
	HashSetName  = "HashSet"
	BTreeSetName = "BTreeSet"
	HashMapName  = "HashMap"
	BTreeMapName = "BTreeMap"
)

// UUID decodes 16 raw bytes as a canonical lowercase UUID string.
var UUID = rapira.CustomFunc(func(r *rapira.Reader, _ []rapira.Scheme) (any, error) {
	b, err := r.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromBytes(b)
	if err != nil {
		return nil, err
	}
	return id.String(), nil
})

// Set decodes a u32 count followed by that many elements of args[0]. Elements
// keep wire order; duplicates are not removed.
var Set = rapira.CustomFunc(func(r *rapira.Reader, args []rapira.Scheme) (any, error) {
	if err := wantArgs(args, 1); err != nil {
		return nil, err
	}
	return readCollection(r, args[0])
})

// Map decodes a u32 count followed by that many args[0] keys each followed by
// an args[1] value. Entries are [key, value] pairs in wire order.
var Map = rapira.CustomFunc(func(r *rapira.Reader, args []rapira.Scheme) (any, error) {
	if err := wantArgs(args, 2); err != nil {
		return nil, err
	}
	return readCollection(r, &rapira.Struct{Fields: rapira.UnnamedFields{args[0], args[1]}})
})

func readCollection(r *rapira.Reader, elem rapira.Scheme) (any, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}
	// each element occupies at least one byte in any real encoding
	if n > r.Remaining() {
		return nil, r.Fail(rapira.CodeOutOfBounds, fmt.Errorf("collection of %d elements in %d bytes", n, r.Remaining()))
	}
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := r.Decode(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func wantArgs(args []rapira.Scheme, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d type argument(s), got %d", n, len(args))
	}
	return nil
}

// Defaults returns a registry with every built-in decoder.
func Defaults() *rapira.Registry {
	return rapira.NewRegistry(map[string]rapira.CustomDecoder{
		DecimalName:  Decimal,
		UUIDName:     UUID,
		HashSetName:  Set,
		BTreeSetName: Set,
		HashMapName:  Map,
		BTreeMapName: Map,
	})
}
