package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeFFmpeg()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeTranscode(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if value, ok := os.LookupEnv("MEDIAPROBE_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.FFmpeg.FFmpegBinary == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if value, ok := os.LookupEnv("MEDIAPROBE_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = strings.TrimSpace(value)
	}
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	if c.FFmpeg.ProbeTimeoutSeconds <= 0 {
		c.FFmpeg.ProbeTimeoutSeconds = defaultProbeTimeoutSeconds
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath
	}
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	if c.Cache.MaxAgeDays < 0 {
		c.Cache.MaxAgeDays = 0
	}
	return nil
}

func (c *Config) normalizeTranscode() error {
	var err error
	c.Transcode.Engine = strings.ToLower(strings.TrimSpace(c.Transcode.Engine))
	if c.Transcode.Engine == "" {
		c.Transcode.Engine = defaultTranscodeEngine
	}
	if strings.TrimSpace(c.Transcode.OutputDir) == "" {
		c.Transcode.OutputDir = defaultTranscodeOutputDir
	}
	if c.Transcode.OutputDir, err = expandPath(strings.TrimSpace(c.Transcode.OutputDir)); err != nil {
		return fmt.Errorf("transcode.output_dir: %w", err)
	}
	if c.Transcode.MinFreeGiB < 0 {
		c.Transcode.MinFreeGiB = 0
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
