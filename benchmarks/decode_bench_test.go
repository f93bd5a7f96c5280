package rapira_test

import (
	"testing"

	rapira "github.com/reoring/rapira"
	"github.com/reoring/rapira/custom"
	g "github.com/reoring/rapira/dsl"
	"github.com/reoring/rapira/internal/wiretest"
)

// --- Fixtures ---

func userScheme() rapira.Scheme {
	return g.Named("User",
		g.Field("id", g.Fuid()),
		g.Field("name", g.Str()),
		g.Field("age", g.Optional(g.U8())),
		g.Field("scores", g.Vec(g.F64())),
		g.Field("role", g.SimpleEnum("Role", "Admin", "Member", "Guest")),
	)
}

func userRecord(w *wiretest.Buf, i int) *wiretest.Buf {
	w.ID(1_700_000_000_000+uint64(i), 1, uint16(i)).
		Str("user-name").
		Some().U8(30).
		Len32(4).F64(1).F64(2).F64(3).F64(4).
		U8(uint8(i % 3))
	return w
}

func usersBuffer(n int) []byte {
	w := wiretest.New()
	for i := 0; i < n; i++ {
		userRecord(w, i)
	}
	return w.Bytes()
}

func jsonTreeBuffer() []byte {
	return wiretest.New().JSON(wiretest.Object{
		{Key: "id", Val: uint64(42)},
		{Key: "tags", Val: []any{"a", "b", "c"}},
		{Key: "nested", Val: wiretest.Object{
			{Key: "ratio", Val: 0.5},
			{Key: "ok", Val: true},
			{Key: "none", Val: nil},
		}},
	}).Bytes()
}

// --- Single value ---

func Benchmark_Decode_User(b *testing.B) {
	s := userScheme()
	data := usersBuffer(1)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rapira.DecodeValue(data, s); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Sequences ---

func Benchmark_DecodeSequence_Users_1k(b *testing.B) {
	s := userScheme()
	data := usersBuffer(1000)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		vs, err := rapira.DecodeSequence(data, s)
		if err != nil {
			b.Fatal(err)
		}
		if len(vs) != 1000 {
			b.Fatalf("decoded %d values", len(vs))
		}
	}
}

func Benchmark_DecodeEntrySequence_1k(b *testing.B) {
	ks := g.TypedKey(g.KeyU8(), g.KeyU32())
	vs := userScheme()
	w := wiretest.New()
	for i := 0; i < 1000; i++ {
		w.U8(7).U32BE(uint32(i))
		userRecord(w, i)
	}
	data := w.Bytes()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rapira.DecodeEntrySequence(data, ks, vs); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Json: canonical tree vs unwrapped ---

func Benchmark_Decode_JSON_Tree(b *testing.B) {
	data := jsonTreeBuffer()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rapira.DecodeValue(data, g.JSON()); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Decode_JSON_Unwrapped(b *testing.B) {
	data := jsonTreeBuffer()
	opt := rapira.DecodeOpt{UnwrapJSON: true}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rapira.DecodeValue(data, g.JSON(), opt); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Custom handlers ---

func Benchmark_Decode_Decimal(b *testing.B) {
	data := wiretest.New().Raw(0, 0, 4, 0x80).U32(123456789).U32(1).U32(0).Bytes()
	opt := rapira.DecodeOpt{Registry: custom.Defaults()}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rapira.DecodeValue(data, g.Decimal(), opt); err != nil {
			b.Fatal(err)
		}
	}
}
