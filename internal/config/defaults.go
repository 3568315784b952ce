package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	BackendBinary = "binary"
	BackendSQLite = "sqlite"
)

const (
	defaultCacheBackend      = BackendBinary
	defaultBinaryCacheName   = "cache.bin"
	defaultSQLiteCacheName   = "cache.db"
	defaultPickerCommand     = "rofi -dmenu -i -p emoji -l {lines}"
	defaultPickerLines       = 10
	defaultImageCopyCommand  = "wl-copy --type image/png"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	sourceDirEnv             = "EMOJIPICK_SOURCE_DIR"
	appDirName               = "emojipick"
	defaultSourceDirFallback = "~/.local/share/emojipick/data"
	defaultCacheDirFallback  = "~/.cache/emojipick"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir(),
			CacheDir:  defaultCacheDir(),
		},
		Cache: Cache{
			Backend: defaultCacheBackend,
		},
		Picker: Picker{
			Command: defaultPickerCommand,
			Lines:   defaultPickerLines,
		},
		Clipboard: Clipboard{
			ImageCommand: defaultImageCopyCommand,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultSourceDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, appDirName, "data")
	}
	return defaultSourceDirFallback
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, appDirName)
	}
	return defaultCacheDirFallback
}

func defaultCacheFileName(backend string) string {
	if backend == BackendSQLite {
		return defaultSQLiteCacheName
	}
	return defaultBinaryCacheName
}
