package databind

import (
	"fmt"

	"github.com/kestrelforge/enginecore/pkg/wire"
)

// scalarCodec adapts a matched pair of wire.Reader/wire.Writer methods
// for a fixed-width numeric type T into a Codec. Every integer and
// float builtin is one of these; only the method pair differs.
type scalarCodec[T any] struct {
	name  string
	read  func(*wire.Reader) (T, error)
	write func(*wire.Writer, T) error
}

func (c scalarCodec[T]) ClassName() string { return c.name }

func (c scalarCodec[T]) Write(w *wire.Writer, v any) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("databind: %s: expected %T, got %T", c.name, t, v)
	}
	return c.write(w, t)
}

func (c scalarCodec[T]) Read(r *wire.Reader) (any, error) {
	v, err := c.read(r)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c scalarCodec[T]) IsEmpty(any) bool { return false }

func (c scalarCodec[T]) Zero() any {
	var zero T
	return zero
}

// stringCodec binds "String" to the archive's declared string encoding.
type stringCodec struct{}

func (stringCodec) ClassName() string { return "String" }

func (stringCodec) Write(w *wire.Writer, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("databind: String: expected string, got %T", v)
	}
	return w.WriteString(s)
}

func (stringCodec) Read(r *wire.Reader) (any, error) { return r.ReadString() }

func (stringCodec) IsEmpty(v any) bool {
	s, _ := v.(string)
	return s == ""
}

func (stringCodec) Zero() any { return "" }

// boolCodec binds "Bool" to a single byte, 0 or 1.
type boolCodec struct{}

func (boolCodec) ClassName() string { return "Bool" }

func (boolCodec) Write(w *wire.Writer, v any) error {
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("databind: Bool: expected bool, got %T", v)
	}
	return w.WriteBool(b)
}

func (boolCodec) Read(r *wire.Reader) (any, error) { return r.ReadBool() }

func (boolCodec) IsEmpty(v any) bool {
	b, _ := v.(bool)
	return !b
}

func (boolCodec) Zero() any { return false }

// GUID is a 128-bit globally unique identifier, written and read as 16
// raw bytes with no length prefix.
type GUID [16]byte

type guidCodec struct{}

func (guidCodec) ClassName() string { return "GUID" }

func (guidCodec) Write(w *wire.Writer, v any) error {
	g, ok := v.(GUID)
	if !ok {
		return fmt.Errorf("databind: GUID: expected databind.GUID, got %T", v)
	}
	return w.WriteBytes(g[:])
}

func (guidCodec) Read(r *wire.Reader) (any, error) {
	b, err := r.ReadBytes(16)
	if err != nil {
		return nil, err
	}
	var g GUID
	copy(g[:], b)
	return g, nil
}

func (guidCodec) IsEmpty(v any) bool {
	g, _ := v.(GUID)
	return g == GUID{}
}

func (guidCodec) Zero() any { return GUID{} }

// vectorNCodec handles every fixed-length float32 aggregate — Vector2/
// 3/4, Matrix3/4, Color3/4, HDRColor3/4 — which differ only in their
// declared element count. All are represented as []float32 of exactly
// that length; the archive engine never sees the distinction between,
// say, a Color3 and a Vector3, matching the source engine's own
// same-layout treatment of these types.
type vectorNCodec struct {
	name string
	n    int
}

func (c vectorNCodec) ClassName() string { return c.name }

func (c vectorNCodec) Write(w *wire.Writer, v any) error {
	fs, ok := v.([]float32)
	if !ok || len(fs) != c.n {
		return fmt.Errorf("databind: %s: expected []float32 of length %d, got %T", c.name, c.n, v)
	}
	for _, f := range fs {
		if err := w.WriteF32(f); err != nil {
			return err
		}
	}
	return nil
}

func (c vectorNCodec) Read(r *wire.Reader) (any, error) {
	fs := make([]float32, c.n)
	for i := range fs {
		f, err := r.ReadF32()
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func (c vectorNCodec) IsEmpty(any) bool { return false }

func (c vectorNCodec) Zero() any { return make([]float32, c.n) }
