package preflight

import (
	"context"

	"emojipick/internal/catalogcache"
	"emojipick/internal/config"
	"emojipick/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, store catalogcache.Store) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckSourceDir(cfg.Paths.SourceDir))
	results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	if store != nil {
		results = append(results, CheckCache(ctx, store))
	}
	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, FromStatus(status))
	}
	return results
}

// FromStatus converts a dependency status into a check result. Missing
// optional programs pass with a note.
func FromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available}
	switch {
	case status.Available:
		result.Detail = status.Command
	case status.Optional:
		result.Passed = true
		result.Detail = status.Detail + " (optional)"
	default:
		result.Detail = status.Detail
	}
	return result
}
