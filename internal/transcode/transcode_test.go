package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mediaprobe/internal/logging"
	"mediaprobe/internal/media/ffprobe"
	"mediaprobe/internal/media/metadata"
)

type fakeRunner struct {
	jobs    []*Job
	updates []Progress
	err     error
	write   bool
}

func (f *fakeRunner) Name() string { return "fake" }

func (f *fakeRunner) Run(ctx context.Context, job *Job, progress func(Progress)) error {
	f.jobs = append(f.jobs, job)
	for _, update := range f.updates {
		progress(update)
	}
	if f.err != nil {
		return f.err
	}
	if f.write {
		return os.WriteFile(job.Output, []byte("encoded"), 0o644)
	}
	return nil
}

func loadContainer(t *testing.T, fixture string) *metadata.Container {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "media", "metadata", "testdata", fixture+".json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	tree, err := ffprobe.Decode(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	container, err := metadata.Parse("/media/"+fixture+".mp4", tree, "")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return container
}

func settings() Settings {
	return Settings{Logger: logging.NewNop()}
}

func TestTranscodeRunsJob(t *testing.T) {
	runner := &fakeRunner{write: true, updates: []Progress{{Percent: 50, Speed: "2x"}, {Percent: 100}}}
	output := filepath.Join(t.TempDir(), "nested", "out.mp4")

	var seen []Progress
	s := settings()
	s.Progress = func(p Progress) { seen = append(seen, p) }

	job, err := Transcode(context.Background(), runner, loadContainer(t, "awesome_movie"), output, EncodingOptions{VideoCodec: "libx264"}, s)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if job.Status != StatusComplete {
		t.Fatalf("status = %s, want complete", job.Status)
	}
	if job.Input != "/media/awesome_movie.mp4" || job.Output != output {
		t.Fatalf("unexpected job paths %+v", job)
	}
	if job.Options.Screenshot {
		t.Fatal("transcode should not request a screenshot")
	}
	if len(seen) != 2 || job.Last.Percent != 100 {
		t.Fatalf("progress not forwarded: %+v", seen)
	}
	if job.ID.String() == "" || job.Elapsed() < 0 {
		t.Fatalf("job bookkeeping missing: %+v", job)
	}
}

func TestScreenshotSetsFlag(t *testing.T) {
	runner := &fakeRunner{write: true}
	output := filepath.Join(t.TempDir(), "frame.jpg")

	job, err := Screenshot(context.Background(), runner, loadContainer(t, "awesome_movie"), output, EncodingOptions{SeekTime: "3"}, settings())
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if !runner.jobs[0].Options.Screenshot || job.Options.SeekTime != "3" {
		t.Fatalf("screenshot options not passed: %+v", runner.jobs[0].Options)
	}
}

func TestTranscodeRejectsInvalidContainer(t *testing.T) {
	container := loadContainer(t, "probe_error")
	_, err := Transcode(context.Background(), &fakeRunner{}, container, filepath.Join(t.TempDir(), "out.mp4"), EncodingOptions{}, settings())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTranscodeRequiresOutput(t *testing.T) {
	if _, err := Transcode(context.Background(), &fakeRunner{}, loadContainer(t, "awesome_movie"), "  ", EncodingOptions{}, settings()); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestTranscodeFailsWithoutOutputFile(t *testing.T) {
	job, err := Transcode(context.Background(), &fakeRunner{}, loadContainer(t, "awesome_movie"), filepath.Join(t.TempDir(), "out.mp4"), EncodingOptions{}, settings())
	if err == nil {
		t.Fatal("expected error when runner produced nothing")
	}
	if job.Status != StatusFailed || job.Err == nil {
		t.Fatalf("expected failed job, got %+v", job)
	}
}

func TestTranscodeRunnerError(t *testing.T) {
	boom := errors.New("encoder exploded")
	job, err := Transcode(context.Background(), &fakeRunner{err: boom}, loadContainer(t, "awesome_movie"), filepath.Join(t.TempDir(), "out.mp4"), EncodingOptions{}, settings())
	if !errors.Is(err, boom) {
		t.Fatalf("expected runner error, got %v", err)
	}
	if job.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
}

func TestTranscodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	job, err := Transcode(ctx, &fakeRunner{err: context.Canceled}, loadContainer(t, "awesome_movie"), filepath.Join(t.TempDir(), "out.mp4"), EncodingOptions{}, settings())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if job.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", job.Status)
	}
}

func TestTranscodePreservesAspectRatio(t *testing.T) {
	tests := []struct {
		name       string
		fixture    string
		resolution string
		mode       PreserveAspect
		want       string
	}{
		{name: "widescreen keep width", fixture: "awesome_widescreen", resolution: "640x480", mode: PreserveWidth, want: "640x360"},
		{name: "widescreen keep height", fixture: "awesome_widescreen", resolution: "640x480", mode: PreserveHeight, want: "854x480"},
		{name: "standard keep width", fixture: "awesome_movie", resolution: "320x200", mode: PreserveWidth, want: "320x240"},
		{name: "no preservation", fixture: "awesome_widescreen", resolution: "640x480", mode: PreserveNone, want: "640x480"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{write: true}
			s := settings()
			s.PreserveAspectRatio = tt.mode
			_, err := Transcode(context.Background(), runner, loadContainer(t, tt.fixture), filepath.Join(t.TempDir(), "out.mp4"), EncodingOptions{Resolution: tt.resolution}, s)
			if err != nil {
				t.Fatalf("Transcode: %v", err)
			}
			if got := runner.jobs[0].Options.Resolution; got != tt.want {
				t.Fatalf("resolution = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvenDimension(t *testing.T) {
	tests := map[float64]int{
		360:   360,
		400.5: 400,
		401:   402,
		401.2: 402,
		399.9: 400,
	}
	for in, want := range tests {
		if got := evenDimension(in); got != want {
			t.Errorf("evenDimension(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestPreserveAspectRejectsBadResolution(t *testing.T) {
	if _, err := preserveAspect("wide", 1.5, PreserveWidth); err == nil {
		t.Fatal("expected error for malformed resolution")
	}
	if got, err := preserveAspect("", 1.5, PreserveWidth); err != nil || got != "" {
		t.Fatalf("empty resolution should pass through, got %q %v", got, err)
	}
}
