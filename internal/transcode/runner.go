package transcode

import (
	"fmt"

	"mediaprobe/internal/config"
)

// NewRunner returns the runner for the configured engine.
func NewRunner(cfg *config.Config) (Runner, error) {
	switch cfg.Transcode.Engine {
	case config.EngineFFmpeg, "":
		return NewFFmpegRunner(cfg.FFmpegBinary(), cfg.FFprobeBinary()), nil
	case config.EngineDrapto:
		return NewDraptoRunner(), nil
	default:
		return nil, fmt.Errorf("unknown transcode engine %q", cfg.Transcode.Engine)
	}
}
