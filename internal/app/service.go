package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"emojipick/internal/catalog"
	"emojipick/internal/catalogcache"
	"emojipick/internal/clipboard"
	"emojipick/internal/logging"
	"emojipick/internal/picker"
	"emojipick/internal/scanner"
)

// ErrUnknownImageTag reports an image selection whose tag has no stored path.
var ErrUnknownImageTag = errors.New("unknown image tag")

// ErrNoCandidates reports an empty candidate list, either because the catalog
// is empty or because no origin matched the filter.
var ErrNoCandidates = errors.New("no entries to pick from")

// Options wires a Service to its collaborators.
type Options struct {
	SourceDir string
	Store     catalogcache.Store
	Picker    picker.Picker
	Clipboard clipboard.Copier
	Logger    *slog.Logger
	// Lines is the picker's visible line hint.
	Lines int
}

// Service owns the catalog for one invocation.
type Service struct {
	sourceDir string
	store     catalogcache.Store
	picker    picker.Picker
	clipboard clipboard.Copier
	scanner   *scanner.Scanner
	logger    *slog.Logger
	lines     int
	catalog   *catalog.Catalog
}

// New validates opts and returns a Service holding an empty catalog. Picker
// and Clipboard may be nil for commands that never select.
func New(opts Options) (*Service, error) {
	if strings.TrimSpace(opts.SourceDir) == "" {
		return nil, errors.New("source directory is required")
	}
	if opts.Store == nil {
		return nil, errors.New("cache store is required")
	}
	logger := logging.NewComponentLogger(opts.Logger, "app")
	return &Service{
		sourceDir: opts.SourceDir,
		store:     opts.Store,
		picker:    opts.Picker,
		clipboard: opts.Clipboard,
		scanner:   scanner.New(opts.SourceDir, opts.Logger),
		logger:    logger,
		lines:     opts.Lines,
		catalog:   catalog.New(),
	}, nil
}

// Catalog returns the in-memory catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// SourceDir returns the configured source directory.
func (s *Service) SourceDir() string { return s.sourceDir }

// Load replaces the in-memory catalog with the persisted one. An unreadable
// cache is logged and leaves the catalog empty.
func (s *Service) Load(ctx context.Context) error {
	cat, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, catalogcache.ErrCacheUnreadable) {
			return fmt.Errorf("load cache: %w", err)
		}
		logging.WarnWithContext(s.logger, "catalog cache unreadable; rebuilding from sources", "cache_unreadable",
			logging.String("path", s.store.Path()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run with --rebuild to discard the cache explicitly"),
			logging.String(logging.FieldImpact, "recent selections are forgotten"),
		)
	}
	s.catalog = cat
	return nil
}

// LoadOrBootstrap loads the persisted catalog and scans the sources once if
// it is empty.
func (s *Service) LoadOrBootstrap(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	if s.catalog.Len() > 0 {
		return nil
	}
	s.logger.Debug("catalog empty; scanning sources", logging.String("source_dir", s.sourceDir))
	_, err := s.Rescan(ctx)
	return err
}

// Rescan merges new source lines into the catalog and persists it. Existing
// records keep their position. A missing source directory is seeded with an
// example file first.
func (s *Service) Rescan(ctx context.Context) (scanner.Report, error) {
	report, err := s.scanner.Scan(ctx, s.catalog)
	if errors.Is(err, scanner.ErrSourceDirMissing) {
		path, seedErr := scanner.Bootstrap(s.sourceDir)
		if seedErr != nil {
			return report, fmt.Errorf("bootstrap source directory: %w", seedErr)
		}
		s.logger.Info("created source directory with example entries", logging.String("path", path))
		report, err = s.scanner.Scan(ctx, s.catalog)
	}
	if err != nil {
		return report, fmt.Errorf("scan %s: %w", s.sourceDir, err)
	}
	if err := s.persist(ctx); err != nil {
		return report, err
	}
	s.logger.Info("scan complete",
		logging.Int("files", report.Files),
		logging.Int("added", report.Added),
		logging.Int("total", s.catalog.Len()))
	return report, nil
}

// Rebuild discards the persisted cache, including recency order, and scans
// the sources from scratch.
func (s *Service) Rebuild(ctx context.Context) (scanner.Report, error) {
	if err := s.store.Remove(); err != nil {
		return scanner.Report{}, err
	}
	s.catalog = catalog.New()
	return s.Rescan(ctx)
}

// Clean drops records whose source line no longer exists and persists the
// result. It returns the number of records removed.
func (s *Service) Clean(ctx context.Context) (int, error) {
	surviving, err := s.scanner.Collect(ctx)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", s.sourceDir, err)
	}
	removed := s.catalog.RetainOnly(surviving)
	if err := s.persist(ctx); err != nil {
		return removed, err
	}
	s.logger.Info("clean complete",
		logging.Int("removed", removed),
		logging.Int("total", s.catalog.Len()))
	return removed, nil
}

// Candidates returns the texts to offer the picker: records whose origin
// contains any keyword, or every record when no keywords are given.
func (s *Service) Candidates(keywords []string) []string {
	if len(nonEmpty(keywords)) == 0 {
		return s.catalog.All()
	}
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, origin := range s.catalog.Origins() {
			if matchesAny(origin.Origin, keywords) {
				s.logger.Debug("source selected by filter", logging.String("origin", origin.Origin))
			}
		}
	}
	return s.catalog.FilterByOrigin(keywords)
}

// Select copies chosen to the clipboard, moves it to the front of the
// catalog, and persists. Image entries copy the referenced file instead of
// the text.
func (s *Service) Select(ctx context.Context, chosen string) error {
	if s.clipboard == nil {
		return errors.New("no clipboard configured")
	}
	if tag, ok := catalog.ImageTag(chosen); ok {
		rel, found := s.catalog.LookupPath(tag)
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownImageTag, tag)
		}
		path := s.resolveImagePath(rel)
		if err := s.clipboard.CopyImage(ctx, path); err != nil {
			return err
		}
		s.logger.Debug("copied image entry", logging.String("tag", tag), logging.String("path", path))
	} else if err := s.clipboard.CopyText(ctx, chosen); err != nil {
		return err
	}

	if !s.catalog.Promote(chosen) {
		s.logger.Debug("selection not in catalog; order unchanged", logging.String("text", chosen))
		return nil
	}
	return s.persist(ctx)
}

// Run offers the filtered candidates in the picker and selects the choice.
// It returns the chosen text. Dismissing the picker yields picker.ErrCancelled.
func (s *Service) Run(ctx context.Context, keywords []string) (string, error) {
	if s.picker == nil {
		return "", errors.New("no picker configured")
	}
	candidates := s.Candidates(keywords)
	if len(candidates) == 0 {
		if len(nonEmpty(keywords)) > 0 {
			return "", fmt.Errorf("%w: no source matches %s", ErrNoCandidates, strings.Join(keywords, ", "))
		}
		return "", ErrNoCandidates
	}
	chosen, err := s.picker.Pick(ctx, candidates, s.lines)
	if err != nil {
		return "", err
	}
	if err := s.Select(ctx, chosen); err != nil {
		return chosen, err
	}
	return chosen, nil
}

func (s *Service) resolveImagePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.sourceDir, path)
}

func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.catalog); err != nil {
		return fmt.Errorf("save cache %s: %w", s.store.Path(), err)
	}
	return nil
}

func nonEmpty(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func matchesAny(origin string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(origin, kw) {
			return true
		}
	}
	return false
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
