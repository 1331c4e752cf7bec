package config

const (
	defaultConfigPath          = "~/.config/mediaprobe/config.toml"
	projectConfigName          = "mediaprobe.toml"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultProbeTimeoutSeconds = 30
	defaultCachePath           = "~/.cache/mediaprobe/probe.db"
	defaultCacheMaxAgeDays     = 30
	defaultTranscodeEngine     = EngineFFmpeg
	defaultTranscodeOutputDir  = "~/Videos/mediaprobe"
	defaultMinFreeGiB          = 1
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Transcode engines.
const (
	EngineFFmpeg = "ffmpeg"
	EngineDrapto = "drapto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFmpeg: FFmpeg{
			FFmpegBinary:        defaultFFmpegBinary,
			FFprobeBinary:       defaultFFprobeBinary,
			ProbeTimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		Cache: Cache{
			Enabled:    true,
			Path:       defaultCachePath,
			MaxAgeDays: defaultCacheMaxAgeDays,
		},
		Transcode: Transcode{
			Engine:     defaultTranscodeEngine,
			OutputDir:  defaultTranscodeOutputDir,
			MinFreeGiB: defaultMinFreeGiB,
			Overwrite:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
