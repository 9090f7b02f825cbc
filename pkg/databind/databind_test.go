package databind

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/kestrelforge/enginecore/pkg/reflect"
	"github.com/kestrelforge/enginecore/pkg/wire"
)

func roundTrip(t *testing.T, c Codec, v any) any {
	t.Helper()
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, binary.LittleEndian, wire.ASCII)
	if err := c.Write(w, v); err != nil {
		t.Fatalf("Write: %v", err)
	}
	r := wire.NewReader(&buf, binary.LittleEndian, wire.ASCII)
	got, err := c.Read(r)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return got
}

func TestScalarCodecRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		val   any
	}{
		{"U8", scalarCodec[uint8]{name: "U8", read: (*wire.Reader).ReadU8, write: (*wire.Writer).WriteU8}, uint8(200)},
		{"I32", scalarCodec[int32]{name: "I32", read: (*wire.Reader).ReadI32, write: (*wire.Writer).WriteI32}, int32(-42)},
		{"U64", scalarCodec[uint64]{name: "U64", read: (*wire.Reader).ReadU64, write: (*wire.Writer).WriteU64}, uint64(123456789)},
		{"F64", scalarCodec[float64]{name: "F64", read: (*wire.Reader).ReadF64, write: (*wire.Writer).WriteF64}, float64(6.02214076e23)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := roundTrip(t, tc.codec, tc.val)
			if got != tc.val {
				t.Fatalf("round trip = %v, want %v", got, tc.val)
			}
		})
	}
}

func TestScalarCodecWriteTypeMismatch(t *testing.T) {
	c := scalarCodec[uint32]{name: "U32", read: (*wire.Reader).ReadU32, write: (*wire.Writer).WriteU32}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, binary.LittleEndian, wire.ASCII)
	if err := c.Write(w, "not a uint32"); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestStringCodec(t *testing.T) {
	c := stringCodec{}
	if !c.IsEmpty("") {
		t.Fatal("IsEmpty(\"\") should be true")
	}
	if c.IsEmpty("x") {
		t.Fatal("IsEmpty(\"x\") should be false")
	}
	got := roundTrip(t, c, "hello archive")
	if got != "hello archive" {
		t.Fatalf("round trip = %v", got)
	}
}

func TestBoolCodec(t *testing.T) {
	c := boolCodec{}
	if got := roundTrip(t, c, true); got != true {
		t.Fatalf("round trip true = %v", got)
	}
	if got := roundTrip(t, c, false); got != false {
		t.Fatalf("round trip false = %v", got)
	}
	if !c.IsEmpty(false) || c.IsEmpty(true) {
		t.Fatal("IsEmpty should treat false as the codec's empty value")
	}
}

func TestGUIDCodec(t *testing.T) {
	c := guidCodec{}
	var g GUID
	for i := range g {
		g[i] = byte(i)
	}
	got := roundTrip(t, c, g)
	gotGUID, ok := got.(GUID)
	if !ok || gotGUID != g {
		t.Fatalf("round trip = %v, want %v", got, g)
	}
	if !c.IsEmpty(GUID{}) {
		t.Fatal("zero GUID should be empty")
	}
}

func TestVectorNCodecRoundTrip(t *testing.T) {
	c := vectorNCodec{name: "Vector3", n: 3}
	v := []float32{1, 2, 3}
	got := roundTrip(t, c, v)
	fs, ok := got.([]float32)
	if !ok || len(fs) != 3 || fs[0] != 1 || fs[1] != 2 || fs[2] != 3 {
		t.Fatalf("round trip = %v, want %v", got, v)
	}
}

func TestVectorNCodecWrongLength(t *testing.T) {
	c := vectorNCodec{name: "Vector3", n: 3}
	var buf bytes.Buffer
	w := wire.NewWriter(&buf, binary.LittleEndian, wire.ASCII)
	if err := c.Write(w, []float32{1, 2}); err == nil {
		t.Fatal("expected error writing a mismatched-length vector")
	}
}

func TestVectorCodecRoundTrip(t *testing.T) {
	elem := scalarCodec[uint32]{name: "U32", read: (*wire.Reader).ReadU32, write: (*wire.Writer).WriteU32}
	c := NewVectorCodec("U32StlVector", elem)

	if !c.IsEmpty([]any{}) {
		t.Fatal("empty slice should be IsEmpty")
	}
	if c.IsEmpty([]any{uint32(1)}) {
		t.Fatal("non-empty slice should not be IsEmpty")
	}

	in := []any{uint32(1), uint32(2), uint32(3)}
	got := roundTrip(t, c, in)
	items, ok := got.([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("round trip = %v, want 3 items", got)
	}
	for i, want := range in {
		if items[i] != want {
			t.Fatalf("item %d = %v, want %v", i, items[i], want)
		}
	}
}

func TestSetCodecSharesVectorWireFormat(t *testing.T) {
	elem := stringCodec{}
	vec := NewVectorCodec("StringStlVector", elem)
	set := NewSetCodec("StringStlSet", elem)

	var buf bytes.Buffer
	w := wire.NewWriter(&buf, binary.LittleEndian, wire.ASCII)
	if err := set.Write(w, []any{"a", "b"}); err != nil {
		t.Fatal(err)
	}

	r := wire.NewReader(&buf, binary.LittleEndian, wire.ASCII)
	got, err := vec.Read(r)
	if err != nil {
		t.Fatal(err)
	}
	items := got.([]any)
	if len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Fatalf("vector codec could not decode set-written bytes: %v", got)
	}
}

func TestMapCodecRoundTrip(t *testing.T) {
	c := newMapCodec("StrStrStlMap", stringCodec{}, stringCodec{})

	if !c.IsEmpty([]mapEntry{}) {
		t.Fatal("empty entries should be IsEmpty")
	}

	entries := []mapEntry{
		{Key: "name", Value: "sprocket"},
		{Key: "kind", Value: "widget"},
	}
	got := roundTrip(t, c, entries)
	gotEntries, ok := got.([]mapEntry)
	if !ok || len(gotEntries) != 2 {
		t.Fatalf("round trip = %v, want 2 entries", got)
	}
	for i, want := range entries {
		if gotEntries[i] != want {
			t.Fatalf("entry %d = %v, want %v", i, gotEntries[i], want)
		}
	}
}

func TestSeedBindsBuiltinCodecs(t *testing.T) {
	reg := reflect.NewRegistry()
	codecs := NewRegistry()
	if err := Seed(reg, codecs); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	for _, name := range []string{"String", "Bool", "U32", "I64", "F32", "GUID", "TUID", "Vector3", "Matrix4", "StrStrStlMap"} {
		class, ok := reg.ClassByName(name)
		if !ok {
			t.Fatalf("class %q not registered by Seed", name)
		}
		codec, ok := codecs.Lookup(class.Hash())
		if !ok {
			t.Fatalf("codec for %q not bound by Seed", name)
		}
		if codec.ClassName() != name {
			t.Fatalf("codec for %q reports ClassName() = %q", name, codec.ClassName())
		}
	}
}

func TestSeedTwiceFailsWithoutDisturbingExistingClasses(t *testing.T) {
	reg := reflect.NewRegistry()
	codecs := NewRegistry()
	if err := Seed(reg, codecs); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	before, _ := reg.ClassByName("U32")
	if err := Seed(reg, codecs); err == nil {
		t.Fatal("expected second Seed to fail on duplicate class registration")
	}
	after, _ := reg.ClassByName("U32")
	if before != after {
		t.Fatal("failed re-Seed should not have disturbed the existing class")
	}
}

func TestEnsureCodecBindsOnce(t *testing.T) {
	reg := reflect.NewRegistry()
	codecs := NewRegistry()
	if err := Seed(reg, codecs); err != nil {
		t.Fatal(err)
	}
	stringClass, _ := reg.ClassByName("String")

	vecClass, err := reflect.EnsureVectorClass(reg, stringClass)
	if err != nil {
		t.Fatalf("EnsureVectorClass: %v", err)
	}

	calls := 0
	build := func() (Codec, error) {
		calls++
		elemCodec, _ := codecs.Lookup(stringClass.Hash())
		return NewVectorCodec(vecClass.Name(), elemCodec), nil
	}

	c1, err := EnsureCodec(reg, codecs, vecClass, build)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := EnsureCodec(reg, codecs, vecClass, build)
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Fatal("EnsureCodec should return the same codec on the second call")
	}
	if calls != 1 {
		t.Fatalf("build func called %d times, want 1", calls)
	}
}

func TestCastSameClassPassesThrough(t *testing.T) {
	c := scalarCodec[uint32]{name: "U32", read: (*wire.Reader).ReadU32, write: (*wire.Writer).WriteU32}
	got, err := Cast(c, c, uint32(7), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != uint32(7) {
		t.Fatalf("Cast same-class = %v, want 7", got)
	}
}

func TestCastWidensNumeric(t *testing.T) {
	i32 := scalarCodec[int32]{name: "I32", read: (*wire.Reader).ReadI32, write: (*wire.Writer).WriteI32}
	i64 := scalarCodec[int64]{name: "I64", read: (*wire.Reader).ReadI64, write: (*wire.Writer).WriteI64}
	got, err := Cast(i64, i32, int32(42), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(42) {
		t.Fatalf("Cast widen = %v (%T), want int64(42)", got, got)
	}
}

func TestCastStringToNumericFails(t *testing.T) {
	str := stringCodec{}
	i32 := scalarCodec[int32]{name: "I32", read: (*wire.Reader).ReadI32, write: (*wire.Writer).WriteI32}
	if _, err := Cast(i32, str, "not a number", false); err == nil {
		t.Fatal("expected Cast from string to numeric to fail")
	}
}

func TestCastShallowRejectsCrossKind(t *testing.T) {
	str := stringCodec{}
	b := boolCodec{}
	if _, err := Cast(b, str, "true", true); err == nil {
		t.Fatal("expected shallow Cast from string to bool to fail")
	}
}

func TestCastShallowRejectsNumericKindCrossing(t *testing.T) {
	i32 := scalarCodec[int32]{name: "I32", read: (*wire.Reader).ReadI32, write: (*wire.Writer).WriteI32}
	f64 := scalarCodec[float64]{name: "F64", read: (*wire.Reader).ReadF64, write: (*wire.Writer).WriteF64}
	if _, err := Cast(f64, i32, int32(42), true); err == nil {
		t.Fatal("expected shallow Cast from I32 to F64 to fail")
	}
}

func TestCastNonShallowAllowsNumericKindCrossing(t *testing.T) {
	i32 := scalarCodec[int32]{name: "I32", read: (*wire.Reader).ReadI32, write: (*wire.Writer).WriteI32}
	f64 := scalarCodec[float64]{name: "F64", read: (*wire.Reader).ReadF64, write: (*wire.Writer).WriteF64}
	got, err := Cast(f64, i32, int32(42), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != float64(42) {
		t.Fatalf("Cast I32->F64 = %v (%T), want float64(42)", got, got)
	}
}
