// Package engineapi exposes the archive engine, type registry, task
// scheduler and asset store over a chi-routed administrative HTTP surface.
package engineapi

import (
	"github.com/kestrelforge/enginecore/pkg/archive"
	"github.com/kestrelforge/enginecore/pkg/assetstore"
	"github.com/kestrelforge/enginecore/pkg/reflect"
	"github.com/kestrelforge/enginecore/pkg/scheduler"
)

// APIResponse is the envelope every handler responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the administrative HTTP server.
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}

// TypeInfo is one entry in the GET /types dump.
type TypeInfo struct {
	Name string `json:"name"`
	Hash uint32 `json:"hash"`
	Kind string `json:"kind"`
}

// ScheduleRequest is the body of POST /schedule and /schedule/execute.
type ScheduleRequest struct {
	PhaseMask uint32 `json:"phase_mask"`
}

// ScheduleResponse reports the resolved task order.
type ScheduleResponse struct {
	Tasks []string `json:"tasks"`
}

// AssetPutResponse reports the id assigned to a newly stored spool.
type AssetPutResponse struct {
	ID string `json:"id"`
}

// StatsResponse reports archive and scheduler diagnostics.
type StatsResponse struct {
	RecordsWritten   uint64 `json:"records_written"`
	RecordsRead      uint64 `json:"records_read"`
	ChecksumFailures uint64 `json:"checksum_failures"`
	CachedScheduleSz int    `json:"cached_schedule_size"`
}

// Deps bundles the runtime services the server routes against.
type Deps struct {
	Registry  *reflect.Registry
	Engine    *archive.Engine
	Store     *assetstore.Store
	Scheduler *scheduler.Scheduler
	Stats     *Stats
}
