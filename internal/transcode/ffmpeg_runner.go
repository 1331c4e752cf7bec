package transcode

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/floostack/transcoder"
	"github.com/floostack/transcoder/ffmpeg"
)

var ffmpegMessagePattern = regexp.MustCompile(`(?s)message: ({.*})`)

// FFmpegRunner drives ffmpeg through the transcoder library.
type FFmpegRunner struct {
	ffmpegBinary  string
	ffprobeBinary string
}

// NewFFmpegRunner builds a runner for the given binaries.
func NewFFmpegRunner(ffmpegBinary, ffprobeBinary string) *FFmpegRunner {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	if strings.TrimSpace(ffprobeBinary) == "" {
		ffprobeBinary = "ffprobe"
	}
	return &FFmpegRunner{ffmpegBinary: ffmpegBinary, ffprobeBinary: ffprobeBinary}
}

func (r *FFmpegRunner) Name() string { return "ffmpeg" }

// Run starts ffmpeg and forwards progress until the process exits.
func (r *FFmpegRunner) Run(ctx context.Context, job *Job, progress func(Progress)) error {
	instance := ffmpeg.
		New(&ffmpeg.Config{
			ProgressEnabled: true,
			FfmpegBinPath:   r.ffmpegBinary,
			FfprobeBinPath:  r.ffprobeBinary,
		}).
		Input(job.Input).
		Output(job.Output).
		WithContext(&ctx)

	progressChannel, err := instance.Start(ffmpegOptions(job.Options))
	if err != nil {
		return parseFFmpegError(err)
	}

	for update := range progressChannel {
		if progress != nil {
			progress(fromTranscoderProgress(update))
		}
	}
	return ctx.Err()
}

func fromTranscoderProgress(update transcoder.Progress) Progress {
	return Progress{
		Percent:     update.GetProgress(),
		Stage:       "encoding",
		Speed:       update.GetSpeed(),
		CurrentTime: update.GetCurrentTime(),
		Frames:      update.GetFramesProcessed(),
		Bitrate:     update.GetCurrentBitrate(),
	}
}

// ffmpegOptions maps job options onto ffmpeg flags. Screenshots always emit a
// single image2 frame.
func ffmpegOptions(opts EncodingOptions) *ffmpeg.Options {
	out := &ffmpeg.Options{
		VideoCodec:   optionalString(opts.VideoCodec),
		AudioCodec:   optionalString(opts.AudioCodec),
		VideoBitRate: optionalString(opts.VideoBitrate),
		AudioBitrate: optionalString(opts.AudioBitrate),
		Resolution:   optionalString(opts.Resolution),
		Aspect:       optionalString(opts.Aspect),
		SeekTime:     optionalString(opts.SeekTime),
		Duration:     optionalString(opts.Duration),
		Preset:       optionalString(opts.Preset),
		OutputFormat: optionalString(opts.Format),
		ExtraArgs:    opts.ExtraArgs,
	}
	if opts.FrameRate > 0 {
		rate := opts.FrameRate
		out.FrameRate = &rate
	}
	if opts.Overwrite {
		overwrite := true
		out.Overwrite = &overwrite
	}
	if opts.Screenshot {
		frames := 1
		out.Vframes = &frames
		if out.OutputFormat == nil {
			out.OutputFormat = optionalString("image2")
		}
	}
	return out
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// parseFFmpegError extracts ffmpeg's own error string from the JSON the
// library embeds in its error message.
func parseFFmpegError(err error) error {
	groups := ffmpegMessagePattern.FindStringSubmatch(err.Error())
	if len(groups) < 2 {
		return err
	}
	var payload struct {
		Error struct {
			String string `json:"string"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(groups[1]), &payload); jsonErr != nil {
		return errors.New(groups[1])
	}
	if strings.TrimSpace(payload.Error.String) == "" {
		return err
	}
	return errors.New(payload.Error.String)
}

var _ Runner = (*FFmpegRunner)(nil)
