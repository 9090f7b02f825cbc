package engineapi

import "sync/atomic"

// Stats accumulates counters surfaced by GET /stats. All fields are
// updated with atomic ops since the HTTP server may serve requests from
// multiple goroutines concurrently even though each one owns its own
// ArchiveEngine call.
type Stats struct {
	recordsWritten   uint64
	recordsRead      uint64
	checksumFailures uint64
}

func (s *Stats) addWritten(n int)  { atomic.AddUint64(&s.recordsWritten, uint64(n)) }
func (s *Stats) addRead(n int)     { atomic.AddUint64(&s.recordsRead, uint64(n)) }
func (s *Stats) addChecksumFail()  { atomic.AddUint64(&s.checksumFailures, 1) }

func (s *Stats) snapshot(cachedSchedule int) StatsResponse {
	return StatsResponse{
		RecordsWritten:   atomic.LoadUint64(&s.recordsWritten),
		RecordsRead:      atomic.LoadUint64(&s.recordsRead),
		ChecksumFailures: atomic.LoadUint64(&s.checksumFailures),
		CachedScheduleSz: cachedSchedule,
	}
}
