// Package app ties the scanner, catalog cache, picker, and clipboard into the
// operations the CLI exposes: load (bootstrapping an empty catalog), rescan,
// rebuild, clean, filter, and select-and-promote.
//
// A Service holds one in-memory catalog for the life of a single CLI
// invocation. Every mutating operation persists the catalog before it
// returns, so a second process always sees the latest order.
package app
