package schemefile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	rapira "github.com/reoring/rapira"
	g "github.com/reoring/rapira/dsl"
	"github.com/reoring/rapira/schemefile"
)

func sampleScheme() rapira.Scheme {
	return g.Named("Order",
		g.Field("id", g.Fuid()),
		g.Field("owner", g.LowID()),
		g.Field("hash", g.ArrayBytes(32)),
		g.Field("grid", g.Array(2, g.Array(2, g.F32()))),
		g.Field("items", g.Vec(g.Tuple(g.Str(), g.U32()))),
		g.Field("note", g.Optional(g.Str())),
		g.Field("price", g.Decimal()),
		g.Field("tags", g.Custom("HashSet", g.Str())),
		g.Field("status", g.SimpleEnum("Status", "Open", "Closed")),
		g.Field("event", g.EnumWithKey("Event",
			g.KeyedCase(0, "Created", g.Datetime()),
			g.KeyedCase(12, "Moved", g.Unnamed("Move", g.I64(), g.Timestamp())),
		)),
		g.Field("meta", g.JSON()),
		g.Field("raw", g.JSONBytes()),
		g.Field("blob", g.Bytes()),
		g.Field("misc", g.Tuple(g.Bool(), g.U8(), g.U16(), g.U64(), g.I32(), g.F64(), g.Void())),
	)
}

func sampleKey() rapira.KeyScheme {
	return g.TypedKey(g.KeyU8(), g.KeyU32(), g.KeyArray(16))
}

func TestRoundTrip_AllFormats(t *testing.T) {
	doc := &schemefile.Document{Value: sampleScheme(), Key: sampleKey()}
	for _, f := range []schemefile.Format{schemefile.FormatJSON, schemefile.FormatJSONC, schemefile.FormatYAML, schemefile.FormatCBOR} {
		t.Run(string(f), func(t *testing.T) {
			b, err := schemefile.Marshal(doc, f)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			got, err := schemefile.Parse(b, f)
			if err != nil {
				t.Fatalf("parse: %v\n%s", err, b)
			}
			if diff := cmp.Diff(doc, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_BareSchemeJSON(t *testing.T) {
	src := []byte(`{"type":"Struct","data":{"name":"User","fields":{"type":"Named","data":[
		["id",{"type":"U32"}],
		["name",{"type":"Str"}],
		["kind",{"type":"Enum","data":{"name":"Kind","variants":{"1":["B",{"type":"Void"}],"0":["A",{"type":"U8"}]}}}]
	]}}}`)
	doc, err := schemefile.Parse(src, schemefile.FormatJSON)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Key != nil {
		t.Fatalf("bare scheme must not carry a key")
	}
	want := g.Named("User",
		g.Field("id", g.U32()),
		g.Field("name", g.Str()),
		g.Field("kind", g.Enum("Kind", g.Case("A", g.U8()), g.Case("B", g.Void()))),
	)
	if diff := cmp.Diff(rapira.Scheme(want), doc.Value); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_JSONCComments(t *testing.T) {
	src := []byte(`{
		// value stored under each key
		"value": {"type": "Vec", "data": "Str"}, /* shorthand primitive */
		"key": {"type": "Bytes"},
	}`)
	doc, err := schemefile.Parse(src, schemefile.FormatJSONC)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(&schemefile.Document{Value: g.Vec(g.Str()), Key: g.BytesKey()}, doc); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}
}

func TestParse_YAMLUnquotedIndices(t *testing.T) {
	src := []byte(`
type: SimpleEnum
data:
  name: Level
  variants:
    0: Low
    2: High
`)
	doc, err := schemefile.Parse(src, schemefile.FormatYAML)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := g.SimpleEnumWithKey("Level", map[uint8]string{0: "Low", 2: "High"})
	if diff := cmp.Diff(rapira.Scheme(want), doc.Value); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}
}

func TestFromTree_ReportsEveryProblem(t *testing.T) {
	tree := map[string]any{
		"type": "Struct",
		"data": map[string]any{
			"name": "Bad",
			"fields": map[string]any{
				"type": "Named",
				"data": []any{
					[]any{"a", map[string]any{"type": "U128"}},
					[]any{"b", map[string]any{"type": "Vec"}},
					[]any{"c", map[string]any{"type": "ArrayBytes", "data": -1}},
				},
			},
		},
	}
	_, err := schemefile.FromTree(tree)
	if !errors.Is(err, rapira.ErrInvalidScheme) {
		t.Fatalf("expected invalid_scheme, got %v", err)
	}
	iss, _ := rapira.AsIssues(err)
	var paths []string
	for _, it := range iss {
		paths = append(paths, it.Path)
	}
	want := []string{
		"/data/fields/data/0/1",
		"/data/fields/data/1/1",
		"/data/fields/data/2/1/data",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyFromTree_Errors(t *testing.T) {
	_, err := schemefile.KeyFromTree(map[string]any{"type": "Typed", "data": []any{
		map[string]any{"type": "U16"},
		map[string]any{"type": "Array", "data": map[string]any{"size": "x"}},
	}})
	iss, ok := rapira.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two issues, got %v", err)
	}
	if iss[0].Path != "/data/0" || iss[1].Path != "/data/1/data/size" {
		t.Fatalf("unexpected paths %q %q", iss[0].Path, iss[1].Path)
	}
}

func TestFromDocumentTree_MissingValue(t *testing.T) {
	_, err := schemefile.FromDocumentTree(map[string]any{"key": map[string]any{"type": "Bytes"}})
	if !errors.Is(err, rapira.ErrInvalidScheme) {
		t.Fatalf("expected invalid_scheme, got %v", err)
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	doc := &schemefile.Document{Value: sampleScheme(), Key: g.BytesKey()}
	for _, name := range []string{"s.json", "s.jsonc", "s.yaml", "s.yml", "s.cbor"} {
		path := filepath.Join(dir, name)
		if err := schemefile.WriteFile(path, doc); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		got, err := schemefile.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if diff := cmp.Diff(doc, got); diff != "" {
			t.Fatalf("%s mismatch:\n%s", name, diff)
		}
	}

	bad := filepath.Join(dir, "s.txt")
	if err := os.WriteFile(bad, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := schemefile.ReadFile(bad); err == nil {
		t.Fatalf("expected unknown extension error")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]schemefile.Format{
		"json": schemefile.FormatJSON, ".JSONC": schemefile.FormatJSONC,
		"yml": schemefile.FormatYAML, "cbor": schemefile.FormatCBOR,
	} {
		got, err := schemefile.ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := schemefile.ParseFormat("toml"); err == nil {
		t.Fatalf("expected error for toml")
	}
}

func TestParseKey(t *testing.T) {
	bare := []byte(`{"type":"Typed","data":[{"type":"U32"},{"type":"Array","data":{"size":4}}]}`)
	ks, err := schemefile.ParseKey(bare, schemefile.FormatJSON)
	if err != nil {
		t.Fatalf("parse bare key: %v", err)
	}
	if diff := cmp.Diff(rapira.KeyScheme(g.TypedKey(g.KeyU32(), g.KeyArray(4))), ks); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}

	doc := []byte("value:\n  type: U8\nkey:\n  type: Bytes\n")
	ks, err = schemefile.ParseKey(doc, schemefile.FormatYAML)
	if err != nil || ks != g.BytesKey() {
		t.Fatalf("parse document key: %v %v", ks, err)
	}

	_, err = schemefile.ParseKey([]byte(`{"key":{"type":"Nope"}}`), schemefile.FormatJSON)
	iss, ok := rapira.AsIssues(err)
	if !ok || iss.First().Path != "/key" {
		t.Fatalf("expected issue at /key, got %v", err)
	}
}
