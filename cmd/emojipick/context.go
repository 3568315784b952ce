package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"emojipick/internal/app"
	"emojipick/internal/catalogcache"
	"emojipick/internal/clipboard"
	"emojipick/internal/config"
	"emojipick/internal/logging"
	"emojipick/internal/picker"
)

// Collaborator constructors, replaced in tests.
var (
	newPicker = func(cfg *config.Config, logger *slog.Logger) picker.Picker {
		return picker.NewCommand(cfg.Picker.Command, logger)
	}
	newClipboard = func(cfg *config.Config, logger *slog.Logger) clipboard.Copier {
		return clipboard.NewSystem(cfg.Clipboard.ImageCommand, logger)
	}
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger writes to the command's error stream so stdout stays clean for
// command output.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return logging.WithContext(cmd.Context(), logger), nil
}

func (c *commandContext) openStore(logger *slog.Logger) (catalogcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalogcache.Open(cfg.Cache.Backend, cfg.CachePath(), logger)
}

// service builds the catalog service for cmd. The returned context carries a
// run ID that tags every log line of this invocation.
func (c *commandContext) service(cmd *cobra.Command) (context.Context, *app.Service, error) {
	ctx := logging.WithRunID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)

	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openStore(logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.New(app.Options{
		SourceDir: cfg.Paths.SourceDir,
		Store:     store,
		Picker:    newPicker(cfg, logger),
		Clipboard: newClipboard(cfg, logger),
		Logger:    logger,
		Lines:     cfg.Picker.Lines,
	})
	if err != nil {
		return nil, nil, err
	}
	return ctx, svc, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
