// Package picker hands catalog candidates to an external menu program and
// reads back the chosen line.
package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"emojipick/internal/logging"
)

var commandContext = exec.CommandContext

// ErrCancelled reports that the user dismissed the picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

// LinesPlaceholder in a command line is replaced by the line-count hint.
const LinesPlaceholder = "{lines}"

// Picker presents candidates and returns the chosen one.
type Picker interface {
	Pick(ctx context.Context, candidates []string, lines int) (string, error)
}

// Command runs a dmenu-style program: candidates on stdin, one per line,
// and the selection on stdout.
type Command struct {
	commandLine string
	logger      *slog.Logger
}

// NewCommand creates a picker for the given command line. The line is split
// with shell quoting rules when Pick runs.
func NewCommand(commandLine string, logger *slog.Logger) *Command {
	return &Command{
		commandLine: commandLine,
		logger:      logging.NewComponentLogger(logger, "picker"),
	}
}

// Args returns the argv the picker would run for the given line hint.
func (c *Command) Args(lines int) ([]string, error) {
	return SplitCommand(strings.ReplaceAll(c.commandLine, LinesPlaceholder, strconv.Itoa(lines)))
}

// Pick runs the picker command. Exit status 1 or 130, or an empty selection,
// yields ErrCancelled.
func (c *Command) Pick(ctx context.Context, candidates []string, lines int) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("no candidates to pick from")
	}
	argv, err := c.Args(lines)
	if err != nil {
		return "", err
	}

	var stdin bytes.Buffer
	for _, candidate := range candidates {
		stdin.WriteString(candidate)
		stdin.WriteByte('\n')
	}
	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	cmd.Stdin = &stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("launching picker",
		logging.String("command", argv[0]),
		logging.Int("candidates", len(candidates)))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			switch exitErr.ExitCode() {
			case 1, 130:
				return "", ErrCancelled
			}
			return "", fmt.Errorf("picker %s exited with status %d: %s",
				argv[0], exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("run picker %s: %w", argv[0], err)
	}

	choice := strings.TrimRight(stdout.String(), "\r\n")
	if i := strings.IndexByte(choice, '\n'); i >= 0 {
		choice = choice[:i]
	}
	if strings.TrimSpace(choice) == "" {
		return "", ErrCancelled
	}
	return choice, nil
}

// SplitCommand splits a configured command line into argv, honouring shell
// quoting and expanding environment variables.
func SplitCommand(commandLine string) ([]string, error) {
	fields, err := shell.Fields(commandLine, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", commandLine, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("command %q is empty", commandLine)
	}
	return fields, nil
}
