package testsupport

import (
	"context"
	"sync"

	"emojipick/internal/picker"
)

// Clipboard records copies instead of touching the system clipboard.
type Clipboard struct {
	mu     sync.Mutex
	Texts  []string
	Images []string
	Err    error
}

// CopyText records text.
func (c *Clipboard) CopyText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Texts = append(c.Texts, text)
	return nil
}

// CopyImage records path.
func (c *Clipboard) CopyImage(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Images = append(c.Images, path)
	return nil
}

// Picker returns Choice and records what it was offered. An empty Choice
// behaves like a dismissed menu.
type Picker struct {
	Choice  string
	Offered []string
	Lines   int
}

// Pick implements picker.Picker.
func (p *Picker) Pick(_ context.Context, candidates []string, lines int) (string, error) {
	p.Offered = append([]string(nil), candidates...)
	p.Lines = lines
	if p.Choice == "" {
		return "", picker.ErrCancelled
	}
	return p.Choice, nil
}
