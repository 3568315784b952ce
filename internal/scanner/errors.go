package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceDirMissing reports a source directory that does not exist.
	ErrSourceDirMissing = errors.New("source directory missing")
	// ErrSourceDirUnreadable reports a source directory that exists but cannot
	// be enumerated.
	ErrSourceDirUnreadable = errors.New("source directory unreadable")
)

// LineReadError describes a line that could not be read or decoded.
type LineReadError struct {
	Path string
	Line int
	Err  error
}

func (e *LineReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *LineReadError) Unwrap() error { return e.Err }

var errInvalidUTF8 = errors.New("invalid UTF-8")
