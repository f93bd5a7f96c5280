package rapira_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	rapira "github.com/reoring/rapira"
	g "github.com/reoring/rapira/dsl"
	"github.com/reoring/rapira/internal/wiretest"
)

// pairDecoder reads two values of args[0] through the shared reader.
var pairDecoder = rapira.CustomFunc(func(r *rapira.Reader, args []rapira.Scheme) (any, error) {
	a, err := r.Decode(args[0])
	if err != nil {
		return nil, err
	}
	b, err := r.Decode(args[0])
	if err != nil {
		return nil, err
	}
	return [2]any{a, b}, nil
})

func TestRegistry_CustomHandlerSharesCursor(t *testing.T) {
	reg := rapira.NewRegistry(map[string]rapira.CustomDecoder{"Pair": pairDecoder})
	s := g.Tuple(g.Custom("Pair", g.U16()), g.U8())
	buf := wiretest.New().U16(1).U16(2).U8(3).Bytes()

	cur := &rapira.Cursor{}
	got, err := rapira.Decode(buf, s, cur, rapira.DecodeOpt{Registry: reg})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []any{[2]any{uint16(1), uint16(2)}, uint8(3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if cur.Offset != 5 {
		t.Fatalf("offset %d", cur.Offset)
	}
}

func TestRegistry_NestedErrorKeepsPath(t *testing.T) {
	reg := rapira.NewRegistry(map[string]rapira.CustomDecoder{"Pair": pairDecoder})
	s := g.Named("T", g.Field("p", g.Custom("Pair", g.U32())))
	buf := wiretest.New().U32(1).U8(0).Bytes()

	_, err := rapira.DecodeValue(buf, s, rapira.DecodeOpt{Registry: reg})
	if !errors.Is(err, rapira.ErrOutOfBounds) {
		t.Fatalf("expected out_of_bounds, got %v", err)
	}
	iss, _ := rapira.AsIssues(err)
	if iss.First().Path != "/p" || iss.First().Offset != 4 {
		t.Fatalf("unexpected issue %+v", iss.First())
	}
}

func TestRegistry_PlainErrorBecomesCustomFailed(t *testing.T) {
	boom := errors.New("boom")
	reg := rapira.NewRegistry(map[string]rapira.CustomDecoder{
		"Bad": rapira.CustomFunc(func(r *rapira.Reader, _ []rapira.Scheme) (any, error) {
			if _, err := r.ReadU8(); err != nil {
				return nil, err
			}
			return nil, boom
		}),
	})
	cur := &rapira.Cursor{}
	_, err := rapira.Decode([]byte{0x01, 0x02}, g.Custom("Bad"), cur, rapira.DecodeOpt{Registry: reg})
	if !errors.Is(err, rapira.ErrCustomFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected custom_failed wrapping boom, got %v", err)
	}
	iss, _ := rapira.AsIssues(err)
	if iss.First().Offset != 0 || iss.First().Message != "custom type Bad failed" {
		t.Fatalf("unexpected issue %+v", iss.First())
	}
	if cur.Offset != 0 {
		t.Fatalf("cursor not restored: %d", cur.Offset)
	}
}

func TestRegistry_MissingHandlerNamesType(t *testing.T) {
	_, err := rapira.DecodeValue([]byte{0x00}, g.Decimal(), rapira.DecodeOpt{Registry: rapira.NewRegistry(nil)})
	iss, ok := rapira.AsIssues(err)
	if !ok || iss.First().Code != rapira.CodeMissingCustom {
		t.Fatalf("expected missing_custom, got %v", err)
	}
	if iss.First().Message != "no handler registered for custom type Decimal" {
		t.Fatalf("unexpected message %q", iss.First().Message)
	}
}

func TestRegistry_CopyOnWrite(t *testing.T) {
	base := rapira.NewRegistry(map[string]rapira.CustomDecoder{"A": pairDecoder, "skip": nil})
	ext := base.With("B", pairDecoder)
	if diff := cmp.Diff([]string{"A"}, base.Names()); diff != "" {
		t.Fatalf("base changed:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "B"}, ext.Names()); diff != "" {
		t.Fatalf("ext names:\n%s", diff)
	}
	removed := ext.With("A", nil)
	if _, ok := removed.Lookup("A"); ok {
		t.Fatalf("A should be removed")
	}
	if _, ok := ext.Lookup("A"); !ok {
		t.Fatalf("ext should keep A")
	}
	merged := base.Merge(removed)
	if diff := cmp.Diff([]string{"A", "B"}, merged.Names()); diff != "" {
		t.Fatalf("merged names:\n%s", diff)
	}

	var nilReg *rapira.Registry
	if _, ok := nilReg.Lookup("A"); ok || nilReg.Names() != nil {
		t.Fatalf("nil registry must be empty")
	}
}
