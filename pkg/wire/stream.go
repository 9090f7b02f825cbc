// Package wire implements the low-level, endianness- and encoding-aware
// primitives shared by the archive engine and its data bindings: fixed
// width integer and float encoding, length-prefixed strings, and the byte
// order abstraction the rest of the reflection engine binds against.
//
// Nothing in this package knows about records, classes or hashes; it is
// the leaf of the reflection/serialization dependency chain.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf16"
)

// Encoding selects the element width used for length-prefixed strings.
type Encoding uint8

const (
	ASCII Encoding = 0
	UTF16 Encoding = 1
)

// ErrUnknownEncoding is returned when a stream's encoding byte is neither
// ASCII nor UTF16.
var ErrUnknownEncoding = errors.New("wire: unknown encoding")

// ErrUnknownByteOrder is returned when a stream's byte-order mark is
// neither the forward nor the reversed 0xFEFF pattern.
var ErrUnknownByteOrder = errors.New("wire: unknown byte order")

func (e Encoding) String() string {
	if e == UTF16 {
		return "utf16"
	}
	return "ascii"
}

// Writer serializes fixed-width values to an underlying io.Writer in a
// fixed byte order and string encoding, tracking the number of bytes
// written so callers can back-patch length fields.
type Writer struct {
	w        io.Writer
	order    binary.ByteOrder
	encoding Encoding
	offset   int64
	scratch  [8]byte
}

// NewWriter wraps w with the given byte order and string encoding.
func NewWriter(w io.Writer, order binary.ByteOrder, encoding Encoding) *Writer {
	return &Writer{w: w, order: order, encoding: encoding}
}

// Offset returns the number of bytes written so far through this Writer.
func (w *Writer) Offset() int64 { return w.offset }

// Seek repositions the underlying writer, for callers that need to
// back-patch a previously reserved field (a record length, a field
// count, the archive's CRC slot). It fails if the underlying io.Writer
// does not also implement io.Seeker.
func (w *Writer) Seek(offset int64, whence int) (int64, error) {
	s, ok := w.w.(io.Seeker)
	if !ok {
		return 0, errors.New("wire: underlying writer does not support seeking")
	}
	pos, err := s.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	w.offset = pos
	return pos, nil
}

// Order returns the byte order this Writer encodes with.
func (w *Writer) Order() binary.ByteOrder { return w.order }

// Encoding returns the string encoding this Writer emits.
func (w *Writer) Encoding() Encoding { return w.encoding }

func (w *Writer) write(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	return err
}

// WriteBytes writes raw bytes with no length prefix.
func (w *Writer) WriteBytes(p []byte) error { return w.write(p) }

func (w *Writer) WriteU8(v uint8) error {
	w.scratch[0] = v
	return w.write(w.scratch[:1])
}

func (w *Writer) WriteI8(v int8) error { return w.WriteU8(uint8(v)) }

func (w *Writer) WriteU16(v uint16) error {
	w.order.PutUint16(w.scratch[:2], v)
	return w.write(w.scratch[:2])
}

func (w *Writer) WriteI16(v int16) error { return w.WriteU16(uint16(v)) }

func (w *Writer) WriteU32(v uint32) error {
	w.order.PutUint32(w.scratch[:4], v)
	return w.write(w.scratch[:4])
}

func (w *Writer) WriteI32(v int32) error { return w.WriteU32(uint32(v)) }

func (w *Writer) WriteU64(v uint64) error {
	w.order.PutUint64(w.scratch[:8], v)
	return w.write(w.scratch[:8])
}

func (w *Writer) WriteI64(v int64) error { return w.WriteU64(uint64(v)) }

func (w *Writer) WriteF32(v float32) error { return w.WriteU32(math.Float32bits(v)) }

func (w *Writer) WriteF64(v float64) error { return w.WriteU64(math.Float64bits(v)) }

func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteU8(1)
	}
	return w.WriteU8(0)
}

// WriteString emits a length-prefixed string. The prefix is always a
// uint32 element count; the element width (one byte per byte of the Go
// string for ASCII, two bytes per UTF-16 code unit for UTF16) follows the
// Writer's declared encoding.
func (w *Writer) WriteString(s string) error {
	switch w.encoding {
	case UTF16:
		units := utf16.Encode([]rune(s))
		if err := w.WriteU32(uint32(len(units))); err != nil {
			return err
		}
		for _, u := range units {
			if err := w.WriteU16(u); err != nil {
				return err
			}
		}
		return nil
	default:
		b := []byte(s)
		if err := w.WriteU32(uint32(len(b))); err != nil {
			return err
		}
		return w.write(b)
	}
}

// Reader deserializes fixed-width values from an underlying io.Reader in a
// fixed byte order and string encoding, tracking bytes consumed.
type Reader struct {
	r        io.Reader
	order    binary.ByteOrder
	encoding Encoding
	offset   int64
	scratch  [8]byte
}

// NewReader wraps r with the given byte order and string encoding.
func NewReader(r io.Reader, order binary.ByteOrder, encoding Encoding) *Reader {
	return &Reader{r: r, order: order, encoding: encoding}
}

// Offset returns the number of bytes consumed so far through this Reader.
func (r *Reader) Offset() int64 { return r.offset }

// Seek repositions the underlying reader, for callers that re-read a
// region already consumed once (the CRC validation pass rewinds to just
// after the header before deserializing the payload it just checksummed).
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	s, ok := r.r.(io.Seeker)
	if !ok {
		return 0, errors.New("wire: underlying reader does not support seeking")
	}
	pos, err := s.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	r.offset = pos
	return pos, nil
}

// Order returns the byte order this Reader decodes with.
func (r *Reader) Order() binary.ByteOrder { return r.order }

// Encoding returns the string encoding this Reader expects.
func (r *Reader) Encoding() Encoding { return r.encoding }

func (r *Reader) readFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.offset += int64(n)
	return err
}

// ReadBytes reads exactly n raw bytes with no length prefix.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := r.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Skip discards n bytes without buffering them, updating the offset.
func (r *Reader) Skip(n int64) error {
	written, err := io.CopyN(io.Discard, r.r, n)
	r.offset += written
	return err
}

func (r *Reader) ReadU8() (uint8, error) {
	if err := r.readFull(r.scratch[:1]); err != nil {
		return 0, err
	}
	return r.scratch[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	if err := r.readFull(r.scratch[:2]); err != nil {
		return 0, err
	}
	return r.order.Uint16(r.scratch[:2]), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	if err := r.readFull(r.scratch[:4]); err != nil {
		return 0, err
	}
	return r.order.Uint32(r.scratch[:4]), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	if err := r.readFull(r.scratch[:8]); err != nil {
		return 0, err
	}
	return r.order.Uint64(r.scratch[:8]), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

// ReadString reads a length-prefixed string using the Reader's declared
// encoding.
func (r *Reader) ReadString() (string, error) {
	count, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	switch r.encoding {
	case UTF16:
		units := make([]uint16, count)
		for i := range units {
			u, err := r.ReadU16()
			if err != nil {
				return "", err
			}
			units[i] = u
		}
		return string(utf16.Decode(units)), nil
	default:
		b, err := r.ReadBytes(int(count))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
