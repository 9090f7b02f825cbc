package di

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelforge/enginecore/pkg/config"
	"github.com/kestrelforge/enginecore/pkg/reflect"
)

func TestNewContainerWiresRegistryAndStore(t *testing.T) {
	dir, err := os.MkdirTemp("", "enginecore_di_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg := config.DefaultConfig()
	cfg.DataDir = dir

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Registry.ClassByName("Vector3")
	assert.True(t, ok)

	names := c.Scheduler.Schedule()
	assert.Empty(t, names, "schedule is empty until CalculateSchedule runs")

	deps := c.APIDeps()
	assert.Same(t, c.Registry, deps.Registry)
	assert.Same(t, c.Store, deps.Store)
}

func TestNewContainerAppliesSkipChecksumOverride(t *testing.T) {
	dir, err := os.MkdirTemp("", "enginecore_di_test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Archive.SkipChecksum = true

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, c.Engine.SkipChecksumOverride)
	assert.IsType(t, &reflect.Registry{}, c.Registry)
}
