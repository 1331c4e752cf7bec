package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	draptolib "github.com/five82/drapto"
)

// DraptoRunner encodes AV1 with the drapto library. Drapto picks its own
// codec settings, so only the output location of a job is honoured.
type DraptoRunner struct {
	encode func(ctx context.Context, input, outputDir string, rep draptolib.Reporter) error
}

// NewDraptoRunner builds a drapto runner in responsive mode.
func NewDraptoRunner() *DraptoRunner {
	return &DraptoRunner{encode: encodeWithLibrary}
}

func encodeWithLibrary(ctx context.Context, input, outputDir string, rep draptolib.Reporter) error {
	encoder, err := draptolib.New(draptolib.WithResponsive())
	if err != nil {
		return fmt.Errorf("drapto init: %w", err)
	}
	_, err = encoder.EncodeWithReporter(ctx, input, outputDir, rep)
	return err
}

func (r *DraptoRunner) Name() string { return "drapto" }

// Run encodes job.Input into the directory of job.Output and moves the result
// to job.Output when drapto chose a different name.
func (r *DraptoRunner) Run(ctx context.Context, job *Job, progress func(Progress)) error {
	if job.Options.Screenshot {
		return fmt.Errorf("drapto screenshot: %w", ErrUnsupported)
	}
	if job.Input == "" {
		return errors.New("input path required")
	}
	outputDir := filepath.Dir(job.Output)
	if strings.TrimSpace(outputDir) == "" {
		return errors.New("output directory required")
	}

	var rep draptolib.Reporter
	if progress != nil {
		rep = &progressReporter{callback: progress}
	}
	if err := r.encode(ctx, job.Input, outputDir, rep); err != nil {
		return fmt.Errorf("drapto encode: %w", err)
	}

	produced := draptoOutputPath(job.Input, outputDir)
	if produced == job.Output {
		return nil
	}
	if err := os.Rename(produced, job.Output); err != nil {
		return fmt.Errorf("move drapto output: %w", err)
	}
	return nil
}

// draptoOutputPath is where drapto writes the encode of input.
func draptoOutputPath(input, outputDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(strings.TrimSpace(outputDir), stem+".mkv")
}

var _ Runner = (*DraptoRunner)(nil)
