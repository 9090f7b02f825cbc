package archive

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kestrelforge/enginecore/pkg/databind"
	"github.com/kestrelforge/enginecore/pkg/reflect"
	"github.com/kestrelforge/enginecore/pkg/wire"
)

// Engine binds a type registry and a codec registry into a working
// archive reader/writer. A host application constructs one after
// seeding both registries (typically via databind.Seed plus whatever
// application-specific classes it registers) and reuses it for every
// spool it writes or reads.
type Engine struct {
	Registry *reflect.Registry
	Codecs   *databind.Registry

	// SkipChecksumOverride mirrors the spec's process-wide CRC-override
	// flag: when true, a ChecksumFailure that would otherwise be fatal
	// on Read is instead ignored. It does not affect Write, which
	// always computes and stores a real CRC unless the caller passes
	// WithSkipChecksum for that call specifically.
	SkipChecksumOverride bool
}

// NewEngine constructs an Engine over an already-seeded registry and
// codec set.
func NewEngine(reg *reflect.Registry, codecs *databind.Registry) *Engine {
	return &Engine{Registry: reg, Codecs: codecs}
}

// writeOptions configures a single Write call.
type writeOptions struct {
	order        binary.ByteOrder
	encoding     wire.Encoding
	skipChecksum bool
	sink         ProgressSink
}

// WriteOption configures Engine.Write.
type WriteOption func(*writeOptions)

// WithByteOrder selects the endianness the archive is written in.
// binary.LittleEndian is the default.
func WithByteOrder(order binary.ByteOrder) WriteOption {
	return func(o *writeOptions) { o.order = order }
}

// WithStringEncoding selects the archive's declared string encoding.
// wire.ASCII is the default.
func WithStringEncoding(enc wire.Encoding) WriteOption {
	return func(o *writeOptions) { o.encoding = enc }
}

// WithSkipChecksum requests the writer's "skip CRC check" sentinel
// instead of a real checksum, for callers that can't tolerate the
// re-read pass (e.g. writing to a non-seekable pipe under time
// pressure would already fail earlier — this is really for
// intentionally unchecked archives).
func WithSkipChecksum() WriteOption {
	return func(o *writeOptions) { o.skipChecksum = true }
}

// WithWriteProgress attaches a ProgressSink to a Write call.
func WithWriteProgress(sink ProgressSink) WriteOption {
	return func(o *writeOptions) { o.sink = sink }
}

// readConfig configures a single Read call.
type readConfig struct {
	searchClass *reflect.Class
	sparse      bool
	sink        ProgressSink
}

// ReadOption configures Engine.Read.
type ReadOption func(*readConfig)

// WithSearchClass restricts Read to fully decoding only records whose
// class HasType(class); the rest are skipped by length.
func WithSearchClass(class *reflect.Class) ReadOption {
	return func(c *readConfig) { c.searchClass = class }
}

// WithSparse retains nil placeholders at positions skipped by
// WithSearchClass, preserving index correspondence with the written
// spool. Without it, skipped positions are simply absent from the
// result.
func WithSparse() ReadOption {
	return func(c *readConfig) { c.sparse = true }
}

// WithReadProgress attaches a ProgressSink to a Read call.
func WithReadProgress(sink ProgressSink) ReadOption {
	return func(c *readConfig) { c.sink = sink }
}

// Write serializes spool to dst as a complete archive: header, CRC,
// element-array payload. dst must support both reading and seeking in
// addition to writing: the writer re-reads the payload it just wrote to
// compute its CRC, and seeks back to back-patch every record and field
// length reserved along the way.
func (e *Engine) Write(dst io.ReadWriteSeeker, spool []reflect.Record, opts ...WriteOption) error {
	cfg := writeOptions{order: binary.LittleEndian, encoding: wire.ASCII}
	for _, opt := range opts {
		opt(&cfg)
	}
	sink := cfg.sink
	if sink == nil {
		sink = NopProgressSink{}
	}

	w := wire.NewWriter(dst, cfg.order, cfg.encoding)
	if err := w.WriteU16(bomForward); err != nil {
		return streamErr("write BOM", err)
	}
	if err := w.WriteU8(uint8(cfg.encoding)); err != nil {
		return streamErr("write encoding", err)
	}
	if err := w.WriteU32(CurrentVersion); err != nil {
		return streamErr("write version", err)
	}

	if cfg.skipChecksum {
		if err := w.WriteU32(crcSkip); err != nil {
			return streamErr("write CRC sentinel", err)
		}
	} else {
		crcOffset := w.Offset()
		if err := w.WriteU32(crcInvalid); err != nil {
			return streamErr("write CRC placeholder", err)
		}
		payloadStart := w.Offset()

		if err := e.writeElementArray(w, spool, sink); err != nil {
			return err
		}
		payloadEnd := w.Offset()

		if _, err := w.Seek(payloadStart, io.SeekStart); err != nil {
			return streamErr("seek to payload start for CRC pass", err)
		}
		limited := io.LimitReader(dst, payloadEnd-payloadStart)
		crc, err := crc32Stream(limited)
		if err != nil {
			return streamErr("compute CRC", err)
		}
		if crc == crcInvalid {
			crc = crcSkip
		}
		if _, err := w.Seek(crcOffset, io.SeekStart); err != nil {
			return streamErr("seek to CRC slot", err)
		}
		if err := w.WriteU32(crc); err != nil {
			return streamErr("write CRC", err)
		}
		if _, err := w.Seek(payloadEnd, io.SeekStart); err != nil {
			return streamErr("seek past payload", err)
		}
		return nil
	}

	return e.writeElementArray(w, spool, sink)
}

// Read deserializes a complete archive from src into a spool of
// records. src must support seeking so the reader can rewind after the
// CRC validation pass.
func (e *Engine) Read(src io.ReadSeeker, opts ...ReadOption) ([]reflect.Record, error) {
	cfg := readConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	sink := cfg.sink
	if sink == nil {
		sink = NopProgressSink{}
	}

	r := wire.NewReader(src, binary.LittleEndian, wire.ASCII)
	bom, err := r.ReadU16()
	if err != nil {
		return nil, streamErr("read BOM", err)
	}
	switch bom {
	case bomForward:
		// already little-endian
	case bomReverse:
		// order swap only affects subsequent multi-byte reads; a fresh
		// Reader over src picks up from the same stream position.
	default:
		return nil, fmt.Errorf("archive: %w", wire.ErrUnknownByteOrder)
	}

	encByte, err := r.ReadU8()
	if err != nil {
		return nil, streamErr("read encoding", err)
	}
	var enc wire.Encoding
	switch encByte {
	case uint8(wire.ASCII):
		enc = wire.ASCII
	case uint8(wire.UTF16):
		enc = wire.UTF16
	default:
		return nil, fmt.Errorf("archive: %w", wire.ErrUnknownEncoding)
	}
	if bom == bomReverse {
		r = wire.NewReader(src, binary.BigEndian, enc)
	} else {
		r = wire.NewReader(src, binary.LittleEndian, enc)
	}

	version, err := r.ReadU32()
	if err != nil {
		return nil, streamErr("read version", err)
	}
	if version > CurrentVersion {
		return nil, &UnsupportedVersionError{Version: version}
	}

	storedCRC, err := r.ReadU32()
	if err != nil {
		return nil, streamErr("read CRC", err)
	}
	// payloadStart is read from src directly rather than r.Offset():
	// the byte-order switch above replaced r with a fresh wire.Reader
	// whose own offset counter restarted at 0, so only the underlying
	// stream's real position reflects the header bytes consumed before
	// that swap.
	payloadStart, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, streamErr("locate payload start", err)
	}

	if storedCRC != crcSkip && !e.SkipChecksumOverride {
		if storedCRC == crcInvalid {
			return nil, &ChecksumFailure{Reason: ErrIncompleteWrite}
		}
		computed, err := crc32Stream(src)
		if err != nil {
			return nil, streamErr("compute CRC for validation", err)
		}
		if computed != storedCRC {
			return nil, &ChecksumFailure{Reason: ErrChecksumMismatch}
		}
	}

	if _, err := r.Seek(payloadStart, io.SeekStart); err != nil {
		return nil, streamErr("seek to payload after CRC check", err)
	}

	return e.readElementArray(r, readOptions{searchClass: cfg.searchClass, sparse: cfg.sparse}, sink)
}

func (e *Engine) writeElementArray(w *wire.Writer, spool []reflect.Record, sink ProgressSink) error {
	sink.OnStart(len(spool))
	if err := w.WriteI32(int32(len(spool))); err != nil {
		return streamErr("write spool count", err)
	}

	refs := newRefGraph()
	total := len(spool)
	if total == 0 {
		total = 1
	}
	for i, rec := range spool {
		if err := e.writeRecordBody(w, rec, refs); err != nil {
			return err
		}
		if !sink.OnProgress(float64(i+1) / float64(total) * 100) {
			return errAborted
		}
	}
	if err := w.WriteI32(recordTerminator); err != nil {
		return streamErr("write spool terminator", err)
	}
	sink.OnComplete()
	return nil
}

func (e *Engine) readElementArray(r *wire.Reader, opts readOptions, sink ProgressSink) ([]reflect.Record, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, streamErr("read spool count", err)
	}
	if count < 0 {
		return nil, &DataFormatError{Reason: "negative spool count"}
	}
	sink.OnStart(int(count))

	spool := make([]reflect.Record, 0, count)
	total := int(count)
	if total == 0 {
		total = 1
	}
	for i := 0; i < int(count); i++ {
		rec, err := e.readRecordBody(r, opts)
		if err != nil {
			return nil, err
		}
		if rec != nil || opts.sparse {
			spool = append(spool, rec)
		}
		if !sink.OnProgress(float64(i+1) / float64(total) * 100) {
			// A listener may abort between records; the reader hands
			// back what it has decoded so far rather than failing the
			// whole spool.
			return spool, nil
		}
	}
	term, err := r.ReadI32()
	if err != nil {
		return nil, streamErr("read spool terminator", err)
	}
	if term != recordTerminator {
		return nil, &DataFormatError{Reason: "missing spool terminator"}
	}
	sink.OnComplete()
	return spool, nil
}
