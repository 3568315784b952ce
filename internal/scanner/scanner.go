package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"emojipick/internal/catalog"
	"emojipick/internal/logging"
	"emojipick/internal/textutil"
)

// SourceExt is the extension of files picked up from the source directory.
const SourceExt = ".csv"

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

// Scanner reads source files under a root directory.
type Scanner struct {
	root   string
	logger *slog.Logger
}

// Source is one discovered source file.
type Source struct {
	// Path is relative to the source directory.
	Path string
	// Origin is the tag recorded on every record from this file.
	Origin string
}

// Report summarizes a scan.
type Report struct {
	Files   int
	Lines   int
	Added   int
	Skipped int
}

// New creates a scanner rooted at dir.
func New(dir string, logger *slog.Logger) *Scanner {
	return &Scanner{
		root:   dir,
		logger: logging.NewComponentLogger(logger, "scanner"),
	}
}

// Root returns the source directory.
func (s *Scanner) Root() string { return s.root }

// Scan appends every new record found in the source files to cat. Records
// already present are left where they are.
func (s *Scanner) Scan(ctx context.Context, cat *catalog.Catalog) (Report, error) {
	var report Report
	if cat == nil {
		return report, errors.New("catalog is nil")
	}
	err := s.eachLine(ctx, func(src Source, parsed catalog.ParsedLine) {
		report.Lines++
		if cat.Append(parsed.Record, parsed.Image) {
			report.Added++
		} else {
			report.Skipped++
		}
	}, func(Source) { report.Files++ })
	if err != nil {
		return report, err
	}
	s.logger.Debug("scan complete",
		logging.Int("files", report.Files),
		logging.Int("lines", report.Lines),
		logging.Int("added", report.Added))
	return report, nil
}

// Collect returns the display text of every record currently present in
// the source files.
func (s *Scanner) Collect(ctx context.Context) (map[string]struct{}, error) {
	texts := make(map[string]struct{})
	err := s.eachLine(ctx, func(_ Source, parsed catalog.ParsedLine) {
		texts[parsed.Record.Text] = struct{}{}
	}, nil)
	if err != nil {
		return nil, err
	}
	return texts, nil
}

// ListSources returns the source files in scan order.
func (s *Scanner) ListSources(ctx context.Context) ([]Source, error) {
	var sources []Source
	err := s.walk(ctx, func(path string) error {
		sources = append(sources, s.source(path))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *Scanner) eachLine(ctx context.Context, visit func(Source, catalog.ParsedLine), onFile func(Source)) error {
	return s.walk(ctx, func(path string) error {
		src := s.source(path)
		if onFile != nil {
			onFile(src)
		}
		return s.readFile(ctx, path, src, visit)
	})
}

func (s *Scanner) walk(ctx context.Context, fn func(path string) error) error {
	info, err := os.Stat(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceDirMissing, s.root)
		}
		return fmt.Errorf("%w: %s: %v", ErrSourceDirUnreadable, s.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrSourceDirUnreadable, s.root)
	}

	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == s.root {
				return fmt.Errorf("%w: %s: %v", ErrSourceDirUnreadable, s.root, err)
			}
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), SourceExt) {
			return nil
		}
		if !isRegularFile(path, d) {
			s.logger.Debug("skipping non-regular source entry", logging.String("path", path))
			return nil
		}
		return fn(path)
	})
}

func (s *Scanner) source(path string) Source {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	return Source{Path: rel, Origin: filepath.Base(path)}
}

func (s *Scanner) readFile(ctx context.Context, path string, src Source, visit func(Source, catalog.ParsedLine)) error {
	file, err := os.Open(path)
	if err != nil {
		return &LineReadError{Path: path, Err: err}
	}
	defer file.Close()

	sc := bufio.NewScanner(file)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%512 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		raw := sc.Bytes()
		if !utf8.Valid(raw) {
			return &LineReadError{Path: path, Line: lineNo, Err: errInvalidUTF8}
		}
		line := strings.TrimSuffix(string(raw), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parsed, err := catalog.ParseLine(textutil.StripDiacritics(line), src.Origin)
		if err != nil {
			var parseErr *catalog.ParseError
			if errors.As(err, &parseErr) {
				parseErr.Line = lineNo
				parseErr.Origin = src.Path
			}
			return err
		}
		visit(src, parsed)
	}
	if err := sc.Err(); err != nil {
		return &LineReadError{Path: path, Line: lineNo + 1, Err: err}
	}
	return nil
}

// isRegularFile accepts regular files and symlinks that resolve to one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
