package assetstore

import (
	"errors"
	"io"
)

// seekBuffer adapts an in-memory byte buffer to io.ReadWriteSeeker so the
// ArchiveEngine's CRC re-read and length-backpatch passes can operate on it
// directly, without ever touching a temp file for a single asset write.
type seekBuffer struct {
	buf []byte
	pos int64
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	copy(s.buf[s.pos:end], p)
	s.pos = end
	return len(p), nil
}

func (s *seekBuffer) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = int64(len(s.buf)) + offset
	default:
		return 0, errors.New("assetstore: invalid seek whence")
	}
	if abs < 0 {
		return 0, errors.New("assetstore: negative seek position")
	}
	s.pos = abs
	return abs, nil
}

func (s *seekBuffer) Bytes() []byte { return s.buf }
