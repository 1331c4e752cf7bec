package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.FFmpegBinary == "" {
		return errors.New("ffmpeg.ffmpeg_binary must be set")
	}
	if c.FFmpeg.FFprobeBinary == "" {
		return errors.New("ffmpeg.ffprobe_binary must be set")
	}
	if c.FFmpeg.ProbeTimeoutSeconds <= 0 {
		return errors.New("ffmpeg.probe_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path must be set when the cache is enabled")
	}
	if c.Cache.MaxAgeDays < 0 {
		return errors.New("cache.max_age_days must be zero or positive")
	}
	return nil
}

func (c *Config) validateTranscode() error {
	switch c.Transcode.Engine {
	case EngineFFmpeg, EngineDrapto:
	default:
		return fmt.Errorf("transcode.engine: unsupported engine %q (want %s or %s)", c.Transcode.Engine, EngineFFmpeg, EngineDrapto)
	}
	if c.Transcode.OutputDir == "" {
		return errors.New("transcode.output_dir must be set")
	}
	if c.Transcode.MinFreeGiB < 0 {
		return errors.New("transcode.min_free_gib must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported level %q", c.Logging.Level)
	}
}
