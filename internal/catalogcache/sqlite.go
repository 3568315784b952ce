package catalogcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"emojipick/internal/catalog"
	"emojipick/internal/logging"
)

const sqliteSchemaVersion = 1

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		position INTEGER PRIMARY KEY,
		text     TEXT NOT NULL UNIQUE,
		origin   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS image_paths (
		tag  TEXT PRIMARY KEY,
		path TEXT NOT NULL
	)`,
}

// SQLiteStore persists the catalog in a SQLite database file.
type SQLiteStore struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a store for the database at path. The database is
// opened per call, matching the single-shot lifetime of the CLI.
func NewSQLiteStore(path string, logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{
		path:   path,
		logger: logging.NewComponentLogger(logger, "catalogcache"),
	}
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

// Backend returns "sqlite".
func (s *SQLiteStore) Backend() string { return BackendSQLite }

// Load reads records ordered by position plus the image path table.
func (s *SQLiteStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("no catalog database on disk", logging.String("path", s.path))
			return catalog.New(), nil
		}
		return catalog.New(), fmt.Errorf("%w: stat %s: %v", ErrCacheUnreadable, s.path, err)
	}

	db, err := s.open(ctx)
	if err != nil {
		return s.unreadable(ctx, err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return s.unreadable(ctx, err)
	}
	if version != sqliteSchemaVersion {
		return s.unreadable(ctx, fmt.Errorf("unsupported schema version %d", version))
	}

	records, err := s.loadRecords(ctx, db)
	if err != nil {
		return s.unreadable(ctx, err)
	}
	paths, err := s.loadPaths(ctx, db)
	if err != nil {
		return s.unreadable(ctx, err)
	}

	cat := catalog.Restore(records, paths)
	s.logger.Debug("loaded catalog database",
		logging.Int("record_count", cat.Len()),
		logging.String("path", s.path))
	return cat, nil
}

// Save replaces all rows with the contents of cat inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, cat *catalog.Catalog) error {
	if cat == nil {
		return errors.New("catalog is nil")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	db, err := s.prepare(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.WarnWithContext(s.logger, "recreating catalog database", "cache_db_recreated",
			logging.String("path", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "previous cache contents discarded"))
		if rmErr := s.Remove(); rmErr != nil {
			return rmErr
		}
		if db, err = s.prepare(ctx); err != nil {
			return err
		}
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM image_paths"); err != nil {
		return fmt.Errorf("clear image paths: %w", err)
	}

	recordStmt, err := tx.PrepareContext(ctx, "INSERT INTO records (position, text, origin) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer recordStmt.Close()
	for i, rec := range cat.Records() {
		if _, err := recordStmt.ExecContext(ctx, i, rec.Text, rec.Origin); err != nil {
			return fmt.Errorf("insert record %q: %w", rec.Text, err)
		}
	}

	pathStmt, err := tx.PrepareContext(ctx, "INSERT INTO image_paths (tag, path) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare image path insert: %w", err)
	}
	defer pathStmt.Close()
	for tag, path := range cat.Paths() {
		if _, err := pathStmt.ExecContext(ctx, tag, path); err != nil {
			return fmt.Errorf("insert image path %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	s.logger.Debug("saved catalog database", logging.Int("record_count", cat.Len()))
	return nil
}

// Remove deletes the database file along with any WAL side files.
func (s *SQLiteStore) Remove() error {
	for _, path := range []string{s.path, s.path + "-wal", s.path + "-shm"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove catalog database: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	return db, nil
}

// prepare opens the database and makes sure it carries the current schema.
// A file that is not a database, or one written with another schema, is
// reported as errIncompatibleDatabase so Save can start over.
func (s *SQLiteStore) prepare(ctx context.Context) (*sql.DB, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkCompatible(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

var errIncompatibleDatabase = errors.New("incompatible catalog database")

func checkCompatible(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch version {
	case sqliteSchemaVersion:
		return nil
	case 0:
		var tables int
		if err := db.QueryRowContext(ctx, "SELECT count(*) FROM sqlite_master WHERE type = 'table'").Scan(&tables); err != nil {
			return fmt.Errorf("inspect schema: %w", err)
		}
		if tables > 0 {
			return fmt.Errorf("%w: unversioned schema with %d tables", errIncompatibleDatabase, tables)
		}
		return nil
	default:
		return fmt.Errorf("%w: schema version %d", errIncompatibleDatabase, version)
	}
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", sqliteSchemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadRecords(ctx context.Context, db *sql.DB) ([]catalog.Record, error) {
	rows, err := db.QueryContext(ctx, "SELECT text, origin FROM records ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []catalog.Record
	for rows.Next() {
		var rec catalog.Record
		if err := rows.Scan(&rec.Text, &rec.Origin); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) loadPaths(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT tag, path FROM image_paths")
	if err != nil {
		return nil, fmt.Errorf("query image paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var tag, path string
		if err := rows.Scan(&tag, &path); err != nil {
			return nil, fmt.Errorf("scan image path: %w", err)
		}
		paths[tag] = path
	}
	return paths, rows.Err()
}

func (s *SQLiteStore) unreadable(ctx context.Context, err error) (*catalog.Catalog, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return catalog.New(), fmt.Errorf("%w: %s: %v", ErrCacheUnreadable, s.path, err)
}
