package scanner

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"emojipick/internal/fileutil"
)

// ExampleFileName is the source file seeded into an empty source directory.
const ExampleFileName = "example.csv"

//go:embed assets/example.csv
var exampleSource []byte

// Bootstrap creates dir and seeds it with an example source file. An
// existing example file is left untouched. It returns the path of the
// example file.
func Bootstrap(dir string) (string, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create source directory: %w", err)
	}
	path := filepath.Join(dir, ExampleFileName)
	exists, err := fileutil.Exists(path)
	if err != nil {
		return "", err
	}
	if exists {
		return path, nil
	}
	if err := fileutil.WriteFileAtomic(path, exampleSource, 0o644); err != nil {
		return "", fmt.Errorf("write example source: %w", err)
	}
	return path, nil
}
