package testsupport

import (
	"testing"

	"emojipick/internal/catalogcache"
	"emojipick/internal/config"
	"emojipick/internal/logging"
)

// MustOpenStore opens the cache store the config selects.
func MustOpenStore(t testing.TB, cfg *config.Config) catalogcache.Store {
	t.Helper()

	store, err := catalogcache.Open(cfg.Cache.Backend, cfg.CachePath(), logging.NewNop())
	if err != nil {
		t.Fatalf("catalogcache.Open: %v", err)
	}
	return store
}
