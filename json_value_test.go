package rapira_test

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	rapira "github.com/reoring/rapira"
	g "github.com/reoring/rapira/dsl"
	"github.com/reoring/rapira/internal/wiretest"
)

func jsonNum(variant string, v any) rapira.EnumValue {
	return rapira.EnumValue{Enum: "Json", Variant: "Number", Value: rapira.EnumValue{Enum: "Number", Variant: variant, Value: v}}
}

func TestJSON_CanonicalTree(t *testing.T) {
	buf := wiretest.New().JSON(wiretest.Object{
		{Key: "a", Val: int64(-1)},
		{Key: "b", Val: []any{nil, true, "s"}},
	}).Bytes()

	got, err := rapira.DecodeValue(buf, g.JSON())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := rapira.EnumValue{Enum: "Json", Variant: "Object", Value: []any{
		[]any{"a", jsonNum("I64", int64(-1))},
		[]any{"b", rapira.EnumValue{Enum: "Json", Variant: "Array", Value: []any{
			rapira.EnumValue{Enum: "Json", Variant: "Null", Value: nil},
			rapira.EnumValue{Enum: "Json", Variant: "Bool", Value: true},
			rapira.EnumValue{Enum: "Json", Variant: "String", Value: "s"},
		}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_SchemeMatchesDSL(t *testing.T) {
	buf := wiretest.New().JSON(uint64(5)).Bytes()
	a, err := rapira.DecodeValue(buf, g.JSON())
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	b, err := rapira.DecodeValue(buf, g.JSONValue())
	if err != nil {
		t.Fatalf("decode json value: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("Json primitive and JSONValue() disagree:\n%s", diff)
	}
	if diff := cmp.Diff(jsonNum("U64", uint64(5)), a); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}
}

func TestJSON_Unwrap(t *testing.T) {
	s := g.Named("Doc", g.Field("meta", g.JSON()), g.Field("n", g.U8()))
	buf := wiretest.New().JSON(wiretest.Object{
		{Key: "x", Val: 1.5},
		{Key: "y", Val: []any{uint64(2), wiretest.Object{{Key: "z", Val: nil}}}},
		{Key: "x", Val: "dup"},
	}).U8(9).Bytes()

	got, err := rapira.DecodeValue(buf, s, rapira.DecodeOpt{UnwrapJSON: true})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &rapira.Record{Name: "Doc", Fields: []rapira.Field{
		{Name: "meta", Value: &rapira.Record{Fields: []rapira.Field{
			{Name: "x", Value: 1.5},
			{Name: "y", Value: []any{uint64(2), &rapira.Record{Fields: []rapira.Field{{Name: "z", Value: nil}}}}},
			{Name: "x", Value: "dup"},
		}}},
		{Name: "n", Value: uint8(9)},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"meta":{"x":1.5,"y":[2,{"z":null}],"x":"dup"},"n":9}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestJSON_UnknownVariant(t *testing.T) {
	buf := wiretest.New().Tag(4).Len32(1).Tag(6).Bytes()
	_, err := rapira.DecodeValue(buf, g.JSON())
	if !errors.Is(err, rapira.ErrUnknownVariant) {
		t.Fatalf("expected unknown_variant, got %v", err)
	}
	if iss, _ := rapira.AsIssues(err); iss.First().Path != "/data/0" || iss.First().Offset != 5 {
		t.Fatalf("unexpected issue %+v", iss.First())
	}
}

func TestUnwrapJSON_RejectsForeignShapes(t *testing.T) {
	_, err := rapira.UnwrapJSON("plain")
	if !errors.Is(err, rapira.ErrInvalidJSON) {
		t.Fatalf("expected invalid_json, got %v", err)
	}
	_, err = rapira.UnwrapJSON(rapira.EnumValue{Enum: "Json", Variant: "Array", Value: []any{"x"}})
	iss, ok := rapira.AsIssues(err)
	if !ok || iss.First().Path != "/0" {
		t.Fatalf("expected issue at /0, got %v", err)
	}
}
