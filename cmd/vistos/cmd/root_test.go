package cmd

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/z3c0/vistos-legacy/internal/components/chrono"
	"github.com/z3c0/vistos-legacy/internal/components/httpcache"
)

func withDbPath(t *testing.T, path string) {
	t.Helper()
	previous := dbPath
	dbPath = path
	t.Cleanup(func() { dbPath = previous })
}

func TestNewApplication(t *testing.T) {
	dir := t.TempDir()
	withDbPath(t, filepath.Join(dir, "vistos.db"))

	a, err := newApplication(context.Background(), Config{
		Cache: CacheConfig{Dir: filepath.Join(dir, "cache"), TtlMinutes: 60},
	})
	require.NoError(t, err)
	require.NotNil(t, a.service)
	require.NotNil(t, a.store)
	require.NoError(t, a.Close())
}

func TestNewApplicationReleasesCacheOnError(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	// the database directory does not exist, so opening the store fails after the cache is open
	withDbPath(t, filepath.Join(dir, "missing", "vistos.db"))

	a, err := newApplication(context.Background(), Config{
		Cache: CacheConfig{Dir: cacheDir, TtlMinutes: 60},
	})
	require.Error(t, err)
	require.Nil(t, a)

	// badger locks its directory, a second open only works once the first was closed
	disk, err := httpcache.OpenDisk(cacheDir, time.Hour, chrono.NewStandardTime())
	require.NoError(t, err)
	require.NoError(t, disk.Close())
}
