package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"emojipick/internal/app"
	"emojipick/internal/catalog"
	"emojipick/internal/catalogcache"
	"emojipick/internal/config"
	"emojipick/internal/logging"
	"emojipick/internal/picker"
	"emojipick/internal/scanner"
	"emojipick/internal/testsupport"
)

type harness struct {
	cfg       *config.Config
	store     catalogcache.Store
	clipboard *testsupport.Clipboard
	picker    *testsupport.Picker
}

func newHarness(t *testing.T, opts ...testsupport.ConfigOption) *harness {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	return &harness{
		cfg:       cfg,
		store:     testsupport.MustOpenStore(t, cfg),
		clipboard: &testsupport.Clipboard{},
		picker:    &testsupport.Picker{},
	}
}

// service builds a fresh Service, as a new process would.
func (h *harness) service(t *testing.T) *app.Service {
	t.Helper()
	svc, err := app.New(app.Options{
		SourceDir: h.cfg.Paths.SourceDir,
		Store:     h.store,
		Picker:    h.picker,
		Clipboard: h.clipboard,
		Logger:    logging.NewNop(),
		Lines:     h.cfg.Picker.Lines,
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return svc
}

func TestNewValidatesOptions(t *testing.T) {
	if _, err := app.New(app.Options{Store: catalogcache.NewFileStore("x", nil)}); err == nil {
		t.Fatal("expected error without source dir")
	}
	if _, err := app.New(app.Options{SourceDir: t.TempDir()}); err == nil {
		t.Fatal("expected error without store")
	}
}

func TestEndToEndSelectPersistsRecency(t *testing.T) {
	for _, backend := range []string{config.BackendBinary, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, testsupport.WithBackend(backend))
			testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "🎉 party", "👋 wave", "")

			first := h.service(t)
			if err := first.LoadOrBootstrap(context.Background()); err != nil {
				t.Fatalf("LoadOrBootstrap: %v", err)
			}
			records := first.Catalog().Records()
			if len(records) != 2 || records[1].Text != "👋 wave" || records[1].Origin != "a.csv" {
				t.Fatalf("records = %+v", records)
			}

			if err := first.Select(context.Background(), "👋 wave"); err != nil {
				t.Fatalf("Select: %v", err)
			}
			if !slices.Equal(h.clipboard.Texts, []string{"👋 wave"}) {
				t.Fatalf("clipboard texts = %v", h.clipboard.Texts)
			}

			second := h.service(t)
			if err := second.LoadOrBootstrap(context.Background()); err != nil {
				t.Fatalf("second LoadOrBootstrap: %v", err)
			}
			if got := second.Catalog().All(); len(got) != 2 || got[0] != "👋 wave" {
				t.Fatalf("second process order = %v", got)
			}
		})
	}
}

func TestLoadOrBootstrapSeedsMissingSourceDir(t *testing.T) {
	h := newHarness(t, testsupport.WithoutSourceDir())
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatalf("LoadOrBootstrap: %v", err)
	}
	if svc.Catalog().Len() == 0 {
		t.Fatal("expected seeded records")
	}
	if _, err := os.Stat(filepath.Join(h.cfg.Paths.SourceDir, scanner.ExampleFileName)); err != nil {
		t.Fatalf("example source not written: %v", err)
	}
	if _, err := os.Stat(h.store.Path()); err != nil {
		t.Fatalf("cache not persisted: %v", err)
	}
}

func TestLoadOrBootstrapSkipsScanWhenCached(t *testing.T) {
	h := newHarness(t)
	cached := catalog.New()
	cached.Append(catalog.Record{Text: "🗃 cached", Origin: "old.csv"}, nil)
	if err := h.store.Save(context.Background(), cached); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "new.csv", "🆕 new")

	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatalf("LoadOrBootstrap: %v", err)
	}
	if got := svc.Catalog().All(); !slices.Equal(got, []string{"🗃 cached"}) {
		t.Fatalf("All() = %v, want cached only", got)
	}
}

func TestLoadOrBootstrapRecoversFromCorruptCache(t *testing.T) {
	for _, backend := range []string{config.BackendBinary, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			h := newHarness(t, testsupport.WithBackend(backend))
			testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "😀 grin")
			testsupport.WriteFile(t, h.store.Path(), 128)

			svc := h.service(t)
			if err := svc.LoadOrBootstrap(context.Background()); err != nil {
				t.Fatalf("LoadOrBootstrap: %v", err)
			}
			if !svc.Catalog().Contains("😀 grin") {
				t.Fatalf("expected rescan after corrupt cache, got %v", svc.Catalog().All())
			}
			cat, err := h.store.Load(context.Background())
			if err != nil {
				t.Fatalf("cache still unreadable after rescan: %v", err)
			}
			if !cat.Contains("😀 grin") {
				t.Fatalf("rescanned catalog not persisted, got %v", cat.All())
			}
		})
	}
}

func TestRescanMergesWithoutReordering(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "1️⃣ one", "2️⃣ two")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Select(context.Background(), "2️⃣ two"); err != nil {
		t.Fatal(err)
	}

	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "b.csv", "3️⃣ three")
	report, err := svc.Rescan(context.Background())
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if report.Added != 1 {
		t.Fatalf("Added = %d, want 1", report.Added)
	}
	want := []string{"2️⃣ two", "1️⃣ one", "3️⃣ three"}
	if got := svc.Catalog().All(); !slices.Equal(got, want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
}

func TestRescanMalformedSourceKeepsCache(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "😀 grin")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "b.csv", "IMG broken.png")

	_, err := svc.Rescan(context.Background())
	var parseErr *catalog.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	persisted, loadErr := h.store.Load(context.Background())
	if loadErr != nil {
		t.Fatal(loadErr)
	}
	if !slices.Equal(persisted.All(), []string{"😀 grin"}) {
		t.Fatalf("persisted = %v", persisted.All())
	}
}

func TestRebuildDiscardsRecency(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "🅰️ a", "🅱️ b")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Select(context.Background(), "🅱️ b"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if got := svc.Catalog().All(); !slices.Equal(got, []string{"🅰️ a", "🅱️ b"}) {
		t.Fatalf("All() = %v, want source order", got)
	}
}

func TestCleanRemovesDeletedLines(t *testing.T) {
	h := newHarness(t)
	src := testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "🐈 cat", "🐕 dog", "IMG pics/cat.png catpic")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, filepath.Base(src), "🐈 cat", "IMG pics/cat.png catpic")

	removed, err := svc.Clean(context.Background())
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if got := svc.Catalog().All(); !slices.Equal(got, []string{"🐈 cat", "IMG catpic"}) {
		t.Fatalf("All() = %v", got)
	}

	reloaded := h.service(t)
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if reloaded.Catalog().Contains("🐕 dog") {
		t.Fatal("cleaned record survived in cache")
	}
}

func TestCandidatesFilterByOrigin(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "animals.csv", "🐈 cat")
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "food.csv", "🍕 pizza")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		keywords []string
		want     []string
	}{
		{name: "no keywords", keywords: nil, want: []string{"🐈 cat", "🍕 pizza"}},
		{name: "blank keyword", keywords: []string{""}, want: []string{"🐈 cat", "🍕 pizza"}},
		{name: "animals", keywords: []string{"animals"}, want: []string{"🐈 cat"}},
		{name: "either", keywords: []string{"food", "animals"}, want: []string{"🐈 cat", "🍕 pizza"}},
		{name: "case sensitive", keywords: []string{"Animals"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Candidates(tt.keywords)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Candidates(%v) = %v, want %v", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestSelectImageCopiesResolvedPath(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "memes.csv", "😀 grin", "IMG pics/party.png party")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := svc.Select(context.Background(), "IMG party"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	want := filepath.Join(h.cfg.Paths.SourceDir, "pics", "party.png")
	if !slices.Equal(h.clipboard.Images, []string{want}) {
		t.Fatalf("images = %v, want %v", h.clipboard.Images, want)
	}
	if len(h.clipboard.Texts) != 0 {
		t.Fatalf("image selection copied text: %v", h.clipboard.Texts)
	}
	if svc.Catalog().All()[0] != "IMG party" {
		t.Fatalf("image record not promoted: %v", svc.Catalog().All())
	}
}

func TestSelectUnknownImageTag(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "😀 grin", "IMG unknown tag")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := svc.Select(context.Background(), "IMG ghost")
	if !errors.Is(err, app.ErrUnknownImageTag) {
		t.Fatalf("expected ErrUnknownImageTag, got %v", err)
	}
	if svc.Catalog().All()[0] != "😀 grin" {
		t.Fatalf("order changed after failed select: %v", svc.Catalog().All())
	}
}

func TestSelectClipboardFailureDoesNotPromote(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "😀 grin", "👋 wave")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	h.clipboard.Err = errors.New("clipboard offline")

	if err := svc.Select(context.Background(), "👋 wave"); err == nil {
		t.Fatal("expected clipboard error")
	}
	if svc.Catalog().All()[0] != "😀 grin" {
		t.Fatalf("order changed: %v", svc.Catalog().All())
	}
}

func TestRunPicksAndSelects(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "animals.csv", "🐈 cat", "🐕 dog")
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "food.csv", "🍕 pizza")
	h.picker.Choice = "🐕 dog"
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	chosen, err := svc.Run(context.Background(), []string{"animals"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if chosen != "🐕 dog" {
		t.Fatalf("chosen = %q", chosen)
	}
	if !slices.Equal(h.picker.Offered, []string{"🐈 cat", "🐕 dog"}) {
		t.Fatalf("offered = %v", h.picker.Offered)
	}
	if h.picker.Lines != h.cfg.Picker.Lines {
		t.Fatalf("lines hint = %d, want %d", h.picker.Lines, h.cfg.Picker.Lines)
	}
	if svc.Catalog().All()[0] != "🐕 dog" {
		t.Fatalf("not promoted: %v", svc.Catalog().All())
	}
}

func TestRunCancelled(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "😀 grin")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Run(context.Background(), nil); !errors.Is(err, picker.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if len(h.clipboard.Texts) != 0 {
		t.Fatal("cancelled run touched the clipboard")
	}
}

func TestRunNoMatchingSource(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "a.csv", "😀 grin")
	h.picker.Choice = "😀 grin"
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Run(context.Background(), []string{"nothing"}); !errors.Is(err, app.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSourcesWithMissingSourceDir(t *testing.T) {
	h := newHarness(t, testsupport.WithoutSourceDir())
	svc := h.service(t)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sources, err := svc.Sources(context.Background())
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if sources == nil || len(sources) != 0 {
		t.Fatalf("Sources = %#v, want empty list", sources)
	}
}

func TestSourcesAndStats(t *testing.T) {
	h := newHarness(t)
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "animals.csv", "🐈 cat", "🐕 dog")
	testsupport.WriteSource(t, h.cfg.Paths.SourceDir, "more/memes.csv", "IMG a.png a")
	svc := h.service(t)
	if err := svc.LoadOrBootstrap(context.Background()); err != nil {
		t.Fatal(err)
	}

	sources, err := svc.Sources(context.Background())
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	want := []app.SourceSummary{
		{Path: "animals.csv", Origin: "animals.csv", Records: 2},
		{Path: filepath.Join("more", "memes.csv"), Origin: "memes.csv", Records: 1},
	}
	if !slices.Equal(sources, want) {
		t.Fatalf("Sources = %+v, want %+v", sources, want)
	}

	stats := svc.Stats()
	if stats.Records != 3 || stats.Images != 1 || stats.Origins != 2 {
		t.Fatalf("Stats = %+v", stats)
	}
	if stats.CacheBytes <= 0 || stats.CachePath != h.store.Path() {
		t.Fatalf("cache stats = %+v", stats)
	}
}
