package catalogcache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"emojipick/internal/catalog"
)

// Backend names accepted by Open.
const (
	BackendBinary = "binary"
	BackendSQLite = "sqlite"
)

// ErrCacheUnreadable reports a cache that exists but cannot be decoded. The
// accompanying catalog is empty and safe to use.
var ErrCacheUnreadable = errors.New("cache unreadable")

// Store loads and saves catalog snapshots.
type Store interface {
	// Load returns the persisted catalog, or an empty one when nothing is stored.
	Load(ctx context.Context) (*catalog.Catalog, error)
	// Save replaces the persisted snapshot with cat.
	Save(ctx context.Context, cat *catalog.Catalog) error
	// Remove deletes the persisted snapshot. A missing snapshot is not an error.
	Remove() error
	// Path returns the location of the snapshot on disk.
	Path() string
	// Backend returns the backend name.
	Backend() string
}

// Open returns the store for backend at path.
func Open(backend, path string, logger *slog.Logger) (Store, error) {
	if path == "" {
		return nil, errors.New("cache path is empty")
	}
	switch backend {
	case "", BackendBinary:
		return NewFileStore(path, logger), nil
	case BackendSQLite:
		return NewSQLiteStore(path, logger), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", backend)
	}
}

// snapshot is the persisted shape of a catalog.
type snapshot struct {
	Version int
	Records []catalog.Record
	Paths   map[string]string
}

const snapshotVersion = 1

func newSnapshot(cat *catalog.Catalog) snapshot {
	return snapshot{
		Version: snapshotVersion,
		Records: cat.Records(),
		Paths:   cat.Paths(),
	}
}

func (s snapshot) catalog() *catalog.Catalog {
	return catalog.Restore(s.Records, s.Paths)
}
