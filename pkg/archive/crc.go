package archive

import (
	"hash/crc32"
	"io"
)

// crc32Stream consumes r to EOF in fixed 4 KiB blocks, matching the
// spec's block size for CRC computation, and returns the resulting
// IEEE CRC-32 (the same polynomial pkg/typeid uses for name hashing).
func crc32Stream(r io.Reader) (uint32, error) {
	h := crc32.NewIEEE()
	buf := make([]byte, blockSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			return h.Sum32(), nil
		}
		if err != nil {
			return 0, err
		}
	}
}
