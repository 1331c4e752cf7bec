package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediaprobe/internal/logging"
	"mediaprobe/internal/media/metadata"
)

// Transcode converts the probed source into output using runner.
// The returned job carries the final status even when err is non-nil.
func Transcode(ctx context.Context, runner Runner, container *metadata.Container, output string, opts EncodingOptions, settings Settings) (*Job, error) {
	if runner == nil {
		return nil, errors.New("transcode: runner required")
	}
	if container == nil || !container.Valid() {
		path := ""
		if container != nil {
			path = container.Path
		}
		return nil, fmt.Errorf("transcode %s: %w", path, ErrInvalidInput)
	}
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, errors.New("transcode: output path required")
	}

	if settings.PreserveAspectRatio != PreserveNone {
		if aspect, ok := container.CalculatedAspectRatio(); ok {
			resolution, err := preserveAspect(opts.Resolution, aspect, settings.PreserveAspectRatio)
			if err != nil {
				return nil, fmt.Errorf("transcode: %w", err)
			}
			opts.Resolution = resolution
		}
	}

	job := &Job{
		ID:      uuid.New(),
		Input:   container.Path,
		Output:  output,
		Options: opts,
		Status:  StatusWaiting,
	}
	return job, run(ctx, runner, job, settings)
}

// Screenshot extracts a single frame of the source into output.
func Screenshot(ctx context.Context, runner Runner, container *metadata.Container, output string, opts EncodingOptions, settings Settings) (*Job, error) {
	opts.Screenshot = true
	return Transcode(ctx, runner, container, output, opts, settings)
}

func run(ctx context.Context, runner Runner, job *Job, settings Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithJobID(ctx, job.ID.String())
	logger := logging.WithContext(ctx, logging.NewComponentLogger(settings.Logger, "transcode"))

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		job.Status = StatusFailed
		job.Err = fmt.Errorf("create output directory: %w", err)
		return job.Err
	}

	kind := "transcode"
	if job.Options.Screenshot {
		kind = "screenshot"
	}
	logger.Info(kind+" started",
		logging.String("engine", runner.Name()),
		logging.String("input", job.Input),
		logging.String("output", job.Output),
		logging.String("resolution", job.Options.Resolution),
	)

	sampler := logging.NewProgressSampler(10)
	onProgress := func(p Progress) {
		job.Last = p
		if settings.Progress != nil {
			settings.Progress(p)
		}
		if sampler.ShouldLog(p.Percent, p.Stage) {
			logger.Info(kind+" progress",
				logging.Float64(logging.FieldProgressPercent, p.Percent),
				logging.String(logging.FieldProgressSpeed, p.Speed),
				logging.String("stage", p.Stage),
			)
		}
	}

	job.Status = StatusWorking
	job.Started = time.Now()
	err := runner.Run(ctx, job, onProgress)
	if err == nil {
		err = verifyOutput(job.Output)
	}
	job.Finished = time.Now()

	switch {
	case err == nil:
		job.Status = StatusComplete
		logger.Info(kind+" complete",
			logging.String("output", job.Output),
			logging.Duration("elapsed", job.Elapsed()),
		)
		return nil
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		job.Status = StatusCancelled
		job.Err = context.Canceled
		logger.Info(kind+" cancelled", logging.String("output", job.Output))
		return job.Err
	default:
		job.Status = StatusFailed
		job.Err = fmt.Errorf("%s %s: %w", kind, job.Input, err)
		logging.ErrorWithContext(logger, kind+" failed", "transcode_failed",
			logging.Error(err),
			logging.String("engine", runner.Name()),
			logging.String(logging.FieldErrorHint, "rerun with --log-level debug to see engine output"),
		)
		return job.Err
	}
}

func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output not produced: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output %s is empty", path)
	}
	return nil
}
