package catalogcache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"emojipick/internal/catalog"
	"emojipick/internal/fileutil"
	"emojipick/internal/logging"
)

// fileMagic prefixes every binary snapshot so foreign files are rejected
// before gob decoding.
var fileMagic = []byte("EMJC")

const lockRetryDelay = 25 * time.Millisecond

// FileStore persists the catalog as a single binary file.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewFileStore creates a store for path. Nothing touches the disk until Load
// or Save is called.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "catalogcache"),
	}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string { return s.path }

// Backend returns "binary".
func (s *FileStore) Backend() string { return BackendBinary }

// Load reads the snapshot from disk.
func (s *FileStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	data, err := s.read(ctx)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no catalog cache on disk", logging.String("path", s.path))
			return catalog.New(), nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return catalog.New(), fmt.Errorf("%w: read %s: %v", ErrCacheUnreadable, s.path, err)
	}
	if len(data) == 0 {
		return catalog.New(), nil
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return catalog.New(), fmt.Errorf("%w: %s: %v", ErrCacheUnreadable, s.path, err)
	}

	cat := snap.catalog()
	s.logger.Debug("loaded catalog cache",
		logging.Int("record_count", cat.Len()),
		logging.String("path", s.path))
	return cat, nil
}

// Save encodes cat and replaces the snapshot file.
func (s *FileStore) Save(ctx context.Context, cat *catalog.Catalog) error {
	if cat == nil {
		return errors.New("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeSnapshot(newSnapshot(cat))
	if err != nil {
		return fmt.Errorf("encode catalog cache: %w", err)
	}
	if err := fileutil.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock catalog cache: %w", err)
	}
	if !locked {
		return errors.New("lock catalog cache: not acquired")
	}
	defer s.lock.Unlock()

	if err := fileutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog cache: %w", err)
	}
	s.logger.Debug("saved catalog cache",
		logging.Int("record_count", cat.Len()),
		logging.Int("bytes", len(data)))
	return nil
}

// Remove deletes the snapshot file and its lock file.
func (s *FileStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove catalog cache: %w", err)
	}
	if err := os.Remove(s.lock.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove catalog cache lock: %w", err)
	}
	return nil
}

func (s *FileStore) read(ctx context.Context) ([]byte, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, err
	}
	locked, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Read-only cache directories cannot hold the lock file.
		s.logger.Debug("reading catalog cache without lock", logging.Error(err))
	}
	if locked {
		defer s.lock.Unlock()
	}
	return os.ReadFile(s.path)
}

func encodeSnapshot(snap snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(fileMagic)
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (snapshot, error) {
	if !bytes.HasPrefix(data, fileMagic) {
		return snapshot{}, errors.New("unrecognized file header")
	}
	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(data[len(fileMagic):])).Decode(&snap); err != nil {
		return snapshot{}, fmt.Errorf("decode: %w", err)
	}
	if snap.Version != snapshotVersion {
		return snapshot{}, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}
