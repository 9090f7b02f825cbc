package archive

import (
	"errors"
	"fmt"

	"github.com/kestrelforge/enginecore/pkg/typeid"
)

// StreamError wraps an underlying I/O failure encountered while reading
// or writing an archive: a short read, a seek past the end of the
// stream, or an empty input where a header was expected.
type StreamError struct {
	Op  string
	Err error
}

func (e *StreamError) Error() string { return fmt.Sprintf("archive: %s: %v", e.Op, e.Err) }
func (e *StreamError) Unwrap() error { return e.Err }

func streamErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StreamError{Op: op, Err: err}
}

// ErrUnsupportedVersion is the sentinel behind UnsupportedVersionError,
// usable with errors.Is.
var ErrUnsupportedVersion = errors.New("archive: unsupported version")

// UnsupportedVersionError is returned when a stream's version field
// exceeds CurrentVersion.
type UnsupportedVersionError struct {
	Version uint32
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("archive: version %d exceeds supported version %d", e.Version, CurrentVersion)
}
func (e *UnsupportedVersionError) Unwrap() error { return ErrUnsupportedVersion }

// ErrChecksumMismatch and ErrIncompleteWrite are the two sentinels a
// ChecksumFailure carries, per the spec's ChecksumFailure{Mismatch,
// IncompleteWrite} variants.
var (
	ErrChecksumMismatch  = errors.New("archive: checksum mismatch")
	ErrIncompleteWrite   = errors.New("archive: incomplete write")
)

// ChecksumFailure reports that a stream's stored CRC did not validate.
type ChecksumFailure struct {
	Reason error
}

func (e *ChecksumFailure) Error() string { return fmt.Sprintf("archive: %v", e.Reason) }
func (e *ChecksumFailure) Unwrap() error { return e.Reason }

// DataFormatError reports a structurally malformed payload: a missing
// terminator, a negative record length, or a container whose declared
// size exceeds the bytes remaining in the stream.
type DataFormatError struct {
	Reason string
}

func (e *DataFormatError) Error() string { return "archive: data format error: " + e.Reason }

// TypeInformationError reports that a stream referenced a class-name
// hash no longer present in the registry, and no fallback handler
// consumed it.
type TypeInformationError struct {
	Hash typeid.Hash
}

func (e *TypeInformationError) Error() string {
	return fmt.Sprintf("archive: unknown type hash %s", e.Hash)
}

// LogicError reports programmer misuse: writing to a stream that was
// never opened, reusing an Engine across incompatible registries, and
// similar invariant violations that no input data could trigger.
type LogicError struct {
	Reason string
}

func (e *LogicError) Error() string { return "archive: logic error: " + e.Reason }

// AliasingError reports that a record was reached twice during the same
// serialize walk, which the spool's single-owner-per-record model
// forbids.
type AliasingError struct {
	Hash typeid.Hash
}

func (e *AliasingError) Error() string {
	return fmt.Sprintf("archive: record of type %s aliased during serialize", e.Hash)
}
