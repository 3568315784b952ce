package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emojipick/internal/clipboard"
	"emojipick/internal/config"
	"emojipick/internal/picker"
	"emojipick/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	clipboard  *testsupport.Clipboard
	picker     *testsupport.Picker
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("EMOJIPICK_SOURCE_DIR", "")

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(base, "config.toml"),
		clipboard:  &testsupport.Clipboard{},
		picker:     &testsupport.Picker{},
	}
	writeTestConfig(t, env.configPath, cfg)

	originalPicker, originalClipboard := newPicker, newClipboard
	newPicker = func(*config.Config, *slog.Logger) picker.Picker { return env.picker }
	newClipboard = func(*config.Config, *slog.Logger) clipboard.Copier { return env.clipboard }
	t.Cleanup(func() {
		newPicker, newClipboard = originalPicker, originalClipboard
	})
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, args, e.configPath)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nsource_dir = %q\ncache_dir = %q\n\n[cache]\nbackend = %q\n\n[picker]\nlines = %d\n\n[logging]\nlevel = %q\n",
		cfg.Paths.SourceDir,
		cfg.Paths.CacheDir,
		cfg.Cache.Backend,
		cfg.Picker.Lines,
		"warn",
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}
