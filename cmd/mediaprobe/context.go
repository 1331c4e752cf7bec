package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"mediaprobe/internal/config"
	"mediaprobe/internal/logging"
	"mediaprobe/internal/probe"
	"mediaprobe/internal/probecache"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
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

// logger builds a logger writing to the command's stderr, honouring flag overrides.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	}
	if level := flagValue(c.logLevelFlag); level != "" {
		opts.Level = level
	}
	if format := flagValue(c.logFormatFlag); format != "" {
		opts.Format = format
	}
	if cfg.Logging.Dir != "" {
		opts.FilePath = filepath.Join(cfg.Logging.Dir, logging.LogFileName)
	}
	return logging.New(opts)
}

// openCache returns nil when the cache is disabled. A cache that cannot be
// opened is logged and skipped so probing still works.
func (c *commandContext) openCache(ctx context.Context, logger *slog.Logger) *probecache.Store {
	cfg, err := c.ensureConfig()
	if err != nil || !cfg.Cache.Enabled {
		return nil
	}
	store, err := probecache.Open(ctx, cfg.Cache.Path, logger)
	if err != nil {
		logging.WarnWithContext(logger, "probe cache unavailable", "probe_cache_open_failed",
			logging.String(logging.FieldPath, cfg.Cache.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "every probe runs ffprobe"),
			logging.String(logging.FieldErrorHint, "run 'mediaprobe cache clear' or delete the cache file"),
		)
		return nil
	}
	return store
}

// withProbeService runs fn with a probe service wired to the configured cache.
func (c *commandContext) withProbeService(cmd *cobra.Command, fn func(*probe.Service, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return err
	}
	cache := c.openCache(cmd.Context(), logger)
	if cache != nil {
		defer cache.Close()
	}
	return fn(probe.NewService(cfg, cache, logger), logger)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
