package wire

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestScalarRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian, ASCII)

	if err := w.WriteU8(0xAB); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteI16(-1234); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteU32(0xDEADBEEF); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteI64(-9876543210); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteF32(3.14); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteF64(2.71828); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(false); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf, binary.LittleEndian, ASCII)

	if v, err := r.ReadU8(); err != nil || v != 0xAB {
		t.Fatalf("ReadU8() = %v, %v", v, err)
	}
	if v, err := r.ReadI16(); err != nil || v != -1234 {
		t.Fatalf("ReadI16() = %v, %v", v, err)
	}
	if v, err := r.ReadU32(); err != nil || v != 0xDEADBEEF {
		t.Fatalf("ReadU32() = %v, %v", v, err)
	}
	if v, err := r.ReadI64(); err != nil || v != -9876543210 {
		t.Fatalf("ReadI64() = %v, %v", v, err)
	}
	if v, err := r.ReadF32(); err != nil || v != 3.14 {
		t.Fatalf("ReadF32() = %v, %v", v, err)
	}
	if v, err := r.ReadF64(); err != nil || v != 2.71828 {
		t.Fatalf("ReadF64() = %v, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v != true {
		t.Fatalf("ReadBool() = %v, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v != false {
		t.Fatalf("ReadBool() = %v, %v", v, err)
	}
}

func TestStringRoundTripASCII(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian, ASCII)
	if err := w.WriteString("hello, world"); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf, binary.LittleEndian, ASCII)
	got, err := r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello, world" {
		t.Fatalf("ReadString() = %q, want %q", got, "hello, world")
	}
}

func TestStringRoundTripUTF16(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian, UTF16)
	want := "café \U0001F600"
	if err := w.WriteString(want); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf, binary.LittleEndian, UTF16)
	got, err := r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("ReadString() = %q, want %q", got, want)
	}
}

func TestEmptyString(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.BigEndian, ASCII)
	if err := w.WriteString(""); err != nil {
		t.Fatal(err)
	}
	r := NewReader(&buf, binary.BigEndian, ASCII)
	got, err := r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("ReadString() = %q, want empty", got)
	}
}

func TestOffsetTracking(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian, ASCII)
	if w.Offset() != 0 {
		t.Fatalf("initial Offset() = %d, want 0", w.Offset())
	}
	_ = w.WriteU32(1)
	if w.Offset() != 4 {
		t.Fatalf("Offset() after WriteU32 = %d, want 4", w.Offset())
	}
	_ = w.WriteString("abc")
	if w.Offset() != 4+4+3 {
		t.Fatalf("Offset() after WriteString = %d, want %d", w.Offset(), 4+4+3)
	}
}

func TestSeekRequiresSeekableUnderlying(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian, ASCII)
	if _, err := w.Seek(0, 0); err == nil {
		t.Fatal("expected Seek over a non-seekable io.Writer to fail")
	}
}

func TestEncodingString(t *testing.T) {
	if ASCII.String() != "ascii" {
		t.Fatalf("ASCII.String() = %q", ASCII.String())
	}
	if UTF16.String() != "utf16" {
		t.Fatalf("UTF16.String() = %q", UTF16.String())
	}
}

func TestSkip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, binary.LittleEndian, ASCII)
	_ = w.WriteBytes([]byte{1, 2, 3, 4, 5})
	_ = w.WriteU8(0xFF)

	r := NewReader(&buf, binary.LittleEndian, ASCII)
	if err := r.Skip(5); err != nil {
		t.Fatal(err)
	}
	v, err := r.ReadU8()
	if err != nil || v != 0xFF {
		t.Fatalf("ReadU8() after Skip = %v, %v", v, err)
	}
	if r.Offset() != 6 {
		t.Fatalf("Offset() = %d, want 6", r.Offset())
	}
}
