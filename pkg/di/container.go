// Package di provides a small dependency injection container wiring the
// type registry, archive engine, task scheduler and asset store together
// from a loaded Config.
package di

import (
	"fmt"

	"github.com/kestrelforge/enginecore/pkg/archive"
	"github.com/kestrelforge/enginecore/pkg/assetstore"
	"github.com/kestrelforge/enginecore/pkg/config"
	"github.com/kestrelforge/enginecore/pkg/databind"
	"github.com/kestrelforge/enginecore/pkg/engineapi"
	"github.com/kestrelforge/enginecore/pkg/reflect"
	"github.com/kestrelforge/enginecore/pkg/scheduler"
)

// Container holds every long-lived service a running enginecore process
// needs, built once from configuration at startup.
type Container struct {
	Config    *config.Config
	Registry  *reflect.Registry
	Codecs    *databind.Registry
	Engine    *archive.Engine
	Store     *assetstore.Store
	Scheduler *scheduler.Scheduler
	Stats     *engineapi.Stats
}

// NewContainer builds a Container from cfg: seeds a fresh type registry
// with the builtin catalogue and databind codecs, constructs an
// ArchiveEngine over them, opens the asset store's pebble database under
// cfg.DataDir, and constructs a Scheduler with the standard phase backbone
// registered.
func NewContainer(cfg *config.Config) (*Container, error) {
	registry := reflect.NewRegistry()
	codecs := databind.NewRegistry()
	if err := databind.Seed(registry, codecs); err != nil {
		return nil, fmt.Errorf("di: seed registry: %w", err)
	}

	engine := archive.NewEngine(registry, codecs)
	engine.SkipChecksumOverride = cfg.Archive.SkipChecksum

	store, err := assetstore.Open(cfg.DataDir, engine)
	if err != nil {
		return nil, fmt.Errorf("di: open asset store: %w", err)
	}

	sched := scheduler.NewScheduler()
	scheduler.RegisterStandardPhases(sched)

	return &Container{
		Config:    cfg,
		Registry:  registry,
		Codecs:    codecs,
		Engine:    engine,
		Store:     store,
		Scheduler: sched,
		Stats:     &engineapi.Stats{},
	}, nil
}

// Close releases resources owned by the container (currently just the
// asset store's database handle).
func (c *Container) Close() error {
	return c.Store.Close()
}

// APIDeps adapts the container into the Deps bundle engineapi's router
// needs.
func (c *Container) APIDeps() engineapi.Deps {
	return engineapi.Deps{
		Registry:  c.Registry,
		Engine:    c.Engine,
		Store:     c.Store,
		Scheduler: c.Scheduler,
		Stats:     c.Stats,
	}
}
