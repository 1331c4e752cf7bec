package testsupport

import (
	"context"
	"testing"

	"mediaprobe/internal/config"
	"mediaprobe/internal/logging"
	"mediaprobe/internal/probecache"
)

// MustOpenCache opens the probe cache configured in cfg and closes it when the test ends.
func MustOpenCache(t testing.TB, cfg *config.Config) *probecache.Store {
	t.Helper()

	store, err := probecache.Open(context.Background(), cfg.Cache.Path, logging.NewNop())
	if err != nil {
		t.Fatalf("probecache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
