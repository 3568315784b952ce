// Package config loads, normalizes, and validates emojipick configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours XDG base directories plus the
// EMOJIPICK_SOURCE_DIR override. The CLI loads a Config once and hands the
// resolved values to the catalog service; inner packages never read the
// environment themselves.
package config
