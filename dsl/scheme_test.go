package dsl_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	rapira "github.com/reoring/rapira"
	g "github.com/reoring/rapira/dsl"
)

func TestEnum_IndicesByPosition(t *testing.T) {
	e := g.Enum("Shape",
		g.KeyedCase(9, "Circle", g.F64()),
		g.Case("Square", g.F64()),
		g.Case("Empty", g.Void()),
	)
	want := []rapira.Variant{
		{Index: 0, Name: "Circle", Scheme: g.F64()},
		{Index: 1, Name: "Square", Scheme: g.F64()},
		{Index: 2, Name: "Empty", Scheme: g.Void()},
	}
	if diff := cmp.Diff(want, e.Variants); diff != "" {
		t.Fatalf("variants (-want +got):\n%s", diff)
	}
	if v, ok := e.Variant(2); !ok || v.Name != "Empty" {
		t.Fatalf("Variant(2) = %+v, %v", v, ok)
	}
}

func TestEnumWithKey_KeepsIndices(t *testing.T) {
	e := g.EnumWithKey("Event", g.KeyedCase(4, "A", g.U8()), g.KeyedCase(1, "B", g.U8()))
	if e.Variants[0].Index != 4 || e.Variants[1].Index != 1 {
		t.Fatalf("indices rewritten: %+v", e.Variants)
	}
	if _, ok := e.Variant(0); ok {
		t.Fatalf("index 0 must be unknown")
	}
}

func TestSimpleEnumWithKey_SortedByIndex(t *testing.T) {
	s := g.SimpleEnumWithKey("Level", map[uint8]string{200: "High", 3: "Low", 255: "Max"})
	want := []rapira.SimpleVariant{{Index: 3, Name: "Low"}, {Index: 200, Name: "High"}, {Index: 255, Name: "Max"}}
	if diff := cmp.Diff(want, s.Variants); diff != "" {
		t.Fatalf("variants (-want +got):\n%s", diff)
	}
}

func TestBuilders_CopyArguments(t *testing.T) {
	fields := []rapira.NamedField{g.Field("a", g.U8())}
	st := g.Named("S", fields...)
	fields[0].Name = "mutated"
	if st.Fields.(rapira.NamedFields)[0].Name != "a" {
		t.Fatalf("Named must copy its fields")
	}

	args := []rapira.Scheme{g.Str()}
	c := g.Custom("HashSet", args...).(*rapira.Custom)
	args[0] = g.U8()
	if c.Args[0] != g.Str() {
		t.Fatalf("Custom must copy its args")
	}
}

func TestMap_IsVecOfTuples(t *testing.T) {
	got := g.Map(g.Str(), g.U32())
	want := &rapira.Vec{Elem: &rapira.Struct{Fields: rapira.UnnamedFields{g.Str(), g.U32()}}}
	if diff := cmp.Diff(rapira.Scheme(want), got); diff != "" {
		t.Fatalf("Map (-want +got):\n%s", diff)
	}
}

func TestKeys(t *testing.T) {
	k := g.TypedKey(g.KeyU8(), g.KeyU32(), g.KeyArray(8))
	if diff := cmp.Diff([]rapira.KeyPart{
		{Kind: rapira.KeyPartU8},
		{Kind: rapira.KeyPartU32},
		{Kind: rapira.KeyPartArray, Size: 8},
	}, k.Parts); diff != "" {
		t.Fatalf("parts (-want +got):\n%s", diff)
	}
	if g.BytesKey() != rapira.KeyScheme(rapira.BytesKey{}) {
		t.Fatalf("BytesKey mismatch")
	}
}

func TestJSONValue_IsShared(t *testing.T) {
	if g.JSONValue() != rapira.JSONValueScheme {
		t.Fatalf("JSONValue must return the canonical scheme")
	}
	if g.JSON().Kind() != rapira.KindJSON {
		t.Fatalf("JSON kind = %s", g.JSON().Kind())
	}
}
