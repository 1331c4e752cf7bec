package transcode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnsupported marks an option a runner cannot honour.
	ErrUnsupported = errors.New("unsupported by transcode engine")
	// ErrInvalidInput marks a source that ffprobe could not read.
	ErrInvalidInput = errors.New("input is not a valid media file")
)

// Status tracks a job through its lifetime.
type Status int

const (
	StatusWaiting Status = iota
	StatusWorking
	StatusComplete
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusWorking:
		return "working"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// EncodingOptions describes the requested output. Empty fields leave the
// engine default in place.
type EncodingOptions struct {
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	AudioBitrate string
	// Resolution is "WxH".
	Resolution string
	Aspect     string
	FrameRate  int
	// SeekTime is passed to ffmpeg verbatim ("00:01:05" or "65").
	SeekTime  string
	Duration  string
	Preset    string
	Format    string
	Overwrite bool
	// Screenshot extracts a single frame instead of transcoding.
	Screenshot bool
	ExtraArgs  map[string]any
}

// PreserveAspect picks which dimension of the requested resolution is kept
// when the other one is recomputed from the source aspect ratio.
type PreserveAspect string

const (
	PreserveNone   PreserveAspect = ""
	PreserveWidth  PreserveAspect = "width"
	PreserveHeight PreserveAspect = "height"
)

// Settings controls how a job runs rather than what it produces.
type Settings struct {
	PreserveAspectRatio PreserveAspect
	// Progress receives every update the runner reports.
	Progress func(Progress)
	Logger   *slog.Logger
}

// Progress is one update from a running engine. Percent is negative when unknown.
type Progress struct {
	Percent     float64
	Stage       string
	Speed       string
	CurrentTime string
	Frames      string
	Bitrate     string
}

// Job is a single transcode or screenshot request.
type Job struct {
	ID       uuid.UUID
	Input    string
	Output   string
	Options  EncodingOptions
	Status   Status
	Started  time.Time
	Finished time.Time
	Last     Progress
	Err      error
}

// Elapsed is the wall time the job ran for.
func (j *Job) Elapsed() time.Duration {
	if j.Started.IsZero() {
		return 0
	}
	if j.Finished.IsZero() {
		return time.Since(j.Started)
	}
	return j.Finished.Sub(j.Started)
}

// Runner executes a job with a concrete engine.
type Runner interface {
	Name() string
	Run(ctx context.Context, job *Job, progress func(Progress)) error
}
