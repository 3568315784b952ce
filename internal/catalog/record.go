package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ImagePrefix marks a source line that references an image file.
const ImagePrefix = "IMG"

// ErrMalformedLine reports a line that lacks a required space separator.
var ErrMalformedLine = errors.New("malformed line")

// Record is one selectable catalog entry.
type Record struct {
	// Text is shown in the picker and is unique within a catalog.
	Text string
	// Origin is the base name of the source file the record came from.
	Origin string
}

// IsImage reports whether the record refers to an image entry.
func (r Record) IsImage() bool {
	_, ok := ImageTag(r.Text)
	return ok
}

// ImagePathEntry maps the tag of an image record to its relative file path.
type ImagePathEntry struct {
	Tag  string
	Path string
}

// ParsedLine is the result of parsing one normalized source line.
type ParsedLine struct {
	Record Record
	Image  *ImagePathEntry
}

// ParseError describes a source line that could not be parsed.
type ParseError struct {
	Origin string
	Line   int
	Text   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v: %q", e.Origin, e.Line, e.Err, e.Text)
	}
	return fmt.Sprintf("%s: %v: %q", e.Origin, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseLine converts a normalized source line into a record.
//
// Lines starting with the IMG token must carry "<path> <tag>" after it. Every
// other line becomes a record whose text is the trimmed line. Blank lines are
// malformed; the scanner drops them before calling ParseLine.
func ParseLine(line, origin string) (ParsedLine, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ParsedLine{}, &ParseError{Origin: origin, Text: line, Err: ErrMalformedLine}
	}

	lead, rest, _ := strings.Cut(trimmed, " ")

	if lead != ImagePrefix {
		return ParsedLine{Record: Record{Text: trimmed, Origin: origin}}, nil
	}

	path, tag, ok := strings.Cut(strings.TrimSpace(rest), " ")
	path = strings.TrimSpace(path)
	tag = strings.TrimSpace(tag)
	if !ok || path == "" || tag == "" {
		return ParsedLine{}, &ParseError{Origin: origin, Text: line, Err: ErrMalformedLine}
	}

	return ParsedLine{
		Record: Record{Text: ImagePrefix + " " + tag, Origin: origin},
		Image:  &ImagePathEntry{Tag: tag, Path: path},
	}, nil
}

// ImageTag extracts the tag from display text of the form "IMG <tag>".
func ImageTag(text string) (string, bool) {
	lead, tag, ok := strings.Cut(strings.TrimSpace(text), " ")
	if !ok || lead != ImagePrefix {
		return "", false
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	return tag, true
}
