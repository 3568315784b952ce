package app

import (
	"context"
	"errors"

	"emojipick/internal/scanner"
)

// SourceSummary describes one source file and how many catalog records
// carry its origin.
type SourceSummary struct {
	Path    string `json:"path"`
	Origin  string `json:"origin"`
	Records int    `json:"records"`
}

// Stats summarizes the in-memory catalog and its cache.
type Stats struct {
	Records    int    `json:"records"`
	Images     int    `json:"images"`
	Origins    int    `json:"origins"`
	Backend    string `json:"backend"`
	CachePath  string `json:"cache_path"`
	CacheBytes int64  `json:"cache_bytes"`
}

// Sources lists the source files with their record counts. Files sharing a
// base name share an origin and report the same count. A source directory
// that does not exist yet lists as empty.
func (s *Service) Sources(ctx context.Context) ([]SourceSummary, error) {
	sources, err := s.scanner.ListSources(ctx)
	if errors.Is(err, scanner.ErrSourceDirMissing) {
		return []SourceSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, oc := range s.catalog.Origins() {
		counts[oc.Origin] = oc.Count
	}
	out := make([]SourceSummary, 0, len(sources))
	for _, src := range sources {
		out = append(out, summarize(src, counts))
	}
	return out, nil
}

func summarize(src scanner.Source, counts map[string]int) SourceSummary {
	return SourceSummary{Path: src.Path, Origin: src.Origin, Records: counts[src.Origin]}
}

// Stats reports catalog counts and the cache file size.
func (s *Service) Stats() Stats {
	images := 0
	for _, rec := range s.catalog.Records() {
		if rec.IsImage() {
			images++
		}
	}
	return Stats{
		Records:    s.catalog.Len(),
		Images:     images,
		Origins:    len(s.catalog.Origins()),
		Backend:    s.store.Backend(),
		CachePath:  s.store.Path(),
		CacheBytes: fileSize(s.store.Path()),
	}
}
