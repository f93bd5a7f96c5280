package custom_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	rapira "github.com/reoring/rapira"
	"github.com/reoring/rapira/custom"
	g "github.com/reoring/rapira/dsl"
	"github.com/reoring/rapira/internal/wiretest"
)

func decimalBytes(flags, lo, mid, hi uint32) []byte {
	return wiretest.New().U32(flags).U32(lo).U32(mid).U32(hi).Bytes()
}

func TestDecimal(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want string
	}{
		{"negative with scale", decimalBytes(0x8003_0000, 12345, 0, 0), "-12.345"},
		{"leading zeros", decimalBytes(0x0005_0000, 7, 0, 0), "0.00007"},
		{"zero keeps scale", decimalBytes(0x0002_0000, 0, 0, 0), "0.00"},
		{"negative zero", decimalBytes(0x8000_0000, 0, 0, 0), "0"},
		{"high word", decimalBytes(0, 0, 0, 1), "18446744073709551616"},
		{"max mantissa", decimalBytes(0x001c_0000, 0xffffffff, 0xffffffff, 0xffffffff), "7.9228162514264337593543950335"},
	}
	opt := rapira.DecodeOpt{Registry: custom.Defaults()}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cur := &rapira.Cursor{}
			v, err := rapira.Decode(tc.buf, g.Decimal(), cur, opt)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if v != tc.want {
				t.Fatalf("got %v want %s", v, tc.want)
			}
			if cur.Offset != custom.DecimalWidth {
				t.Fatalf("offset %d", cur.Offset)
			}
		})
	}
}

func TestDecimal_BadScale(t *testing.T) {
	_, err := rapira.DecodeValue(decimalBytes(0x001d_0000, 1, 0, 0), g.Decimal(), rapira.DecodeOpt{Registry: custom.Defaults()})
	if !errors.Is(err, rapira.ErrCustomFailed) {
		t.Fatalf("expected custom_failed, got %v", err)
	}
}

func TestDecimal_Short(t *testing.T) {
	_, err := rapira.DecodeValue(make([]byte, 10), g.Decimal(), rapira.DecodeOpt{Registry: custom.Defaults()})
	if !errors.Is(err, rapira.ErrOutOfBounds) {
		t.Fatalf("expected out_of_bounds, got %v", err)
	}
	if _, err := custom.FormatDecimal(make([]byte, 4)); err == nil {
		t.Fatalf("expected length error")
	}
}

func TestUUID(t *testing.T) {
	buf := wiretest.New().Hex("00112233445566778899aabbccddeeff").Bytes()
	v, err := rapira.DecodeValue(buf, g.Custom(custom.UUIDName), rapira.DecodeOpt{Registry: custom.Defaults()})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != "00112233-4455-6677-8899-aabbccddeeff" {
		t.Fatalf("got %v", v)
	}
}

func TestSetAndMap(t *testing.T) {
	s := g.Named("Doc",
		g.Field("tags", g.Custom(custom.HashSetName, g.Str())),
		g.Field("ids", g.Custom(custom.BTreeMapName, g.U8(), g.Str())),
	)
	buf := wiretest.New().
		Len32(2).Str("a").Str("b").
		Len32(1).U8(4).Str("four").
		Bytes()

	v, err := rapira.DecodeValue(buf, s, rapira.DecodeOpt{Registry: custom.Defaults()})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &rapira.Record{Name: "Doc", Fields: []rapira.Field{
		{Name: "tags", Value: []any{"a", "b"}},
		{Name: "ids", Value: []any{[]any{uint8(4), "four"}}},
	}}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_Errors(t *testing.T) {
	opt := rapira.DecodeOpt{Registry: custom.Defaults()}

	_, err := rapira.DecodeValue(wiretest.New().Len32(0).Bytes(), g.Custom(custom.HashSetName), opt)
	if !errors.Is(err, rapira.ErrCustomFailed) {
		t.Fatalf("missing type argument: got %v", err)
	}

	_, err = rapira.DecodeValue(wiretest.New().Len32(1000).U8(1).Bytes(), g.Custom(custom.BTreeSetName, g.U8()), opt)
	if !errors.Is(err, rapira.ErrOutOfBounds) {
		t.Fatalf("oversized count: got %v", err)
	}
}

func TestDefaults_Names(t *testing.T) {
	want := []string{"BTreeMap", "BTreeSet", "Decimal", "HashMap", "HashSet", "Uuid"}
	if diff := cmp.Diff(want, custom.Defaults().Names()); diff != "" {
		t.Fatalf("mismatch:\n%s", diff)
	}
}
