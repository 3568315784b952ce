package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"emojipick/internal/catalogcache"
	"emojipick/internal/config"
	"emojipick/internal/deps"
	"emojipick/internal/picker"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSourceDir verifies the source directory can be enumerated. A missing
// directory passes because the first run seeds it.
func CheckSourceDir(path string) Result {
	const name = "Source directory"

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (missing, seeded on first run)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckCache loads the persisted catalog and reports its size. An unreadable
// cache fails the check; it is rebuilt on the next run.
func CheckCache(ctx context.Context, store catalogcache.Store) Result {
	name := fmt.Sprintf("Cache (%s)", store.Backend())
	cat, err := store.Load(ctx)
	switch {
	case errors.Is(err, catalogcache.ErrCacheUnreadable):
		return Result{Name: name, Detail: fmt.Sprintf("%s (unreadable, rebuilt on next run)", store.Path())}
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", store.Path(), err)}
	case cat.Len() == 0:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (empty)", store.Path())}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", store.Path(), cat.Len())}
	}
}

// CheckSystemDeps evaluates the external programs the configured commands
// need.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "Picker",
			Command:     commandBinary(cfg.Picker.Command),
			Description: "Presents the candidate menu",
		},
		{
			Name:        "Text clipboard",
			Command:     "wl-copy",
			Fallbacks:   []string{"xclip", "xsel"},
			Description: "Copies selected text",
		},
		{
			Name:        "Image clipboard",
			Command:     commandBinary(cfg.Clipboard.ImageCommand),
			Description: "Copies image entries",
			Optional:    true,
		},
	}
	return deps.CheckBinaries(requirements)
}

func commandBinary(commandLine string) string {
	argv, err := picker.SplitCommand(commandLine)
	if err != nil {
		return ""
	}
	return argv[0]
}
