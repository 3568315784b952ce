// Package clipboard places picked entries on the system clipboard.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	atotto "github.com/atotto/clipboard"

	"emojipick/internal/logging"
	"emojipick/internal/picker"
)

var (
	commandContext = exec.CommandContext
	writeText      = atotto.WriteAll
)

// Copier copies text or image files to the clipboard.
type Copier interface {
	CopyText(ctx context.Context, text string) error
	CopyImage(ctx context.Context, path string) error
}

// System uses the platform clipboard for text and an external command for
// images.
type System struct {
	imageCommand string
	logger       *slog.Logger
}

// NewSystem creates a copier. imageCommand receives the image bytes on stdin.
func NewSystem(imageCommand string, logger *slog.Logger) *System {
	return &System{
		imageCommand: imageCommand,
		logger:       logging.NewComponentLogger(logger, "clipboard"),
	}
}

// CopyText writes text to the clipboard.
func (s *System) CopyText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeText(text); err != nil {
		return fmt.Errorf("copy text: %w", err)
	}
	s.logger.Debug("copied text", logging.Int("bytes", len(text)))
	return nil
}

// CopyImage streams the file at path into the image clipboard command.
func (s *System) CopyImage(ctx context.Context, path string) error {
	if strings.TrimSpace(s.imageCommand) == "" {
		return errors.New("no image clipboard command configured")
	}
	argv, err := picker.SplitCommand(s.imageCommand)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var stderr bytes.Buffer
	cmd := commandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Stdin = file
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("copy image with %s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("copy image with %s: %w", argv[0], err)
	}
	s.logger.Debug("copied image", logging.String("path", path))
	return nil
}
