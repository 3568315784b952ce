// Package catalogcache persists the emoji catalog between invocations.
//
// Two backends share the Store interface:
//
//   - FileStore writes a gob-encoded snapshot to a single file (default
//     ~/.cache/emojipick/cache.bin). Every save rewrites the whole file via a
//     temp file and rename, so a crash never leaves a half-written cache.
//   - SQLiteStore keeps the same snapshot in a SQLite database, rewritten in
//     one transaction.
//
// The on-disk format is private and not versioned for compatibility: a
// missing cache loads as an empty catalog, and an unreadable one returns an
// empty catalog together with ErrCacheUnreadable so the caller can rebuild it
// from the source files.
//
// Select a backend in config.toml:
//
//	[cache]
//	backend = "binary" # or "sqlite"
package catalogcache
