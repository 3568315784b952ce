package catalog

import (
	"maps"
	"sort"
	"strings"
)

// Catalog is the ordered, deduplicated set of records plus the image path map.
type Catalog struct {
	records []Record
	paths   map[string]string
}

// OriginCount summarizes how many records a source file contributed.
type OriginCount struct {
	Origin string
	Count  int
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{paths: make(map[string]string)}
}

// Restore rebuilds a catalog from persisted records and paths. Records keep
// their order; later duplicates and empty texts are dropped.
func Restore(records []Record, paths map[string]string) *Catalog {
	c := New()
	for _, rec := range records {
		c.Append(rec, nil)
	}
	for tag, path := range paths {
		c.paths[tag] = path
	}
	return c
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Contains reports whether a record with the exact display text exists.
func (c *Catalog) Contains(text string) bool {
	return c.indexOf(text) >= 0
}

// Append adds the record unless its text is empty or already present. The
// image entry, when given, is always stored and replaces an earlier path for
// the same tag. It reports whether the record was inserted.
func (c *Catalog) Append(rec Record, image *ImagePathEntry) bool {
	if image != nil && image.Tag != "" {
		c.paths[image.Tag] = image.Path
	}
	if rec.Text == "" || c.Contains(rec.Text) {
		return false
	}
	c.records = append(c.records, rec)
	return true
}

// All returns every display text in catalog order.
func (c *Catalog) All() []string {
	out := make([]string, 0, len(c.records))
	for _, rec := range c.records {
		out = append(out, rec.Text)
	}
	return out
}

// FilterByOrigin returns the display texts of records whose origin contains
// any of the keywords. Matching is case-sensitive; empty keywords are ignored.
func (c *Catalog) FilterByOrigin(keywords []string) []string {
	out := make([]string, 0)
	for _, rec := range c.records {
		for _, keyword := range keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(rec.Origin, keyword) {
				out = append(out, rec.Text)
				break
			}
		}
	}
	return out
}

// Promote moves the record with the given text to the front. It reports
// whether the record was found.
func (c *Catalog) Promote(text string) bool {
	idx := c.indexOf(text)
	if idx < 0 {
		return false
	}
	if idx == 0 {
		return true
	}
	rec := c.records[idx]
	copy(c.records[1:idx+1], c.records[:idx])
	c.records[0] = rec
	return true
}

// RetainOnly drops every record whose text is not in surviving and returns
// the number of records removed. Relative order of kept records is unchanged.
func (c *Catalog) RetainOnly(surviving map[string]struct{}) int {
	kept := c.records[:0]
	for _, rec := range c.records {
		if _, ok := surviving[rec.Text]; ok {
			kept = append(kept, rec)
		}
	}
	removed := len(c.records) - len(kept)
	clear(c.records[len(kept):])
	c.records = kept
	return removed
}

// LookupPath returns the image path stored for tag.
func (c *Catalog) LookupPath(tag string) (string, bool) {
	path, ok := c.paths[tag]
	return path, ok
}

// Records returns a copy of the records in catalog order.
func (c *Catalog) Records() []Record {
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Paths returns a copy of the image path map.
func (c *Catalog) Paths() map[string]string {
	return maps.Clone(c.paths)
}

// Origins returns per-origin record counts sorted by origin name.
func (c *Catalog) Origins() []OriginCount {
	counts := make(map[string]int)
	for _, rec := range c.records {
		counts[rec.Origin]++
	}
	out := make([]OriginCount, 0, len(counts))
	for origin, count := range counts {
		out = append(out, OriginCount{Origin: origin, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Origin < out[j].Origin
	})
	return out
}

// Equal reports whether both catalogs hold the same records in the same
// order and the same image paths.
func (c *Catalog) Equal(other *Catalog) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.records) != len(other.records) {
		return false
	}
	for i := range c.records {
		if c.records[i] != other.records[i] {
			return false
		}
	}
	return maps.Equal(c.paths, other.paths)
}

func (c *Catalog) indexOf(text string) int {
	for i, rec := range c.records {
		if rec.Text == text {
			return i
		}
	}
	return -1
}
