package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"mediaprobe/internal/config"
	"mediaprobe/internal/logging"
	"mediaprobe/internal/media/ffprobe"
	"mediaprobe/internal/media/metadata"
	"mediaprobe/internal/probecache"
)

// Inspector runs ffprobe. It is swapped out in tests.
type Inspector func(ctx context.Context, binary, path string) (ffprobe.Output, error)

// Service turns a media path into a parsed container.
type Service struct {
	cfg     *config.Config
	cache   *probecache.Store
	logger  *slog.Logger
	inspect Inspector
}

// Option customizes a Service.
type Option func(*Service)

// WithInspector replaces the ffprobe runner.
func WithInspector(inspect Inspector) Option {
	return func(s *Service) {
		if inspect != nil {
			s.inspect = inspect
		}
	}
}

// NewService builds a probe service. cache may be nil to always run ffprobe.
func NewService(cfg *config.Config, cache *probecache.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		cfg:     cfg,
		cache:   cache,
		logger:  logging.NewComponentLogger(logger, "probe"),
		inspect: ffprobe.Inspect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is a parsed container plus where its probe output came from.
type Result struct {
	Container *metadata.Container
	Cached    bool
	Duration  time.Duration
}

// Probe inspects path and parses the output.
func (s *Service) Probe(ctx context.Context, path string) (*metadata.Container, error) {
	result, err := s.ProbeWithResult(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Container, nil
}

// ProbeWithResult is Probe with cache and timing details.
func (s *Service) ProbeWithResult(ctx context.Context, path string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, &NotFoundError{Path: path}
		}
		return Result{}, fmt.Errorf("probe: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("probe: %s is a directory", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("probe: resolve %s: %w", path, err)
	}
	key := probecache.Key{Path: abs, Size: info.Size(), ModTime: info.ModTime()}

	output, cached := s.lookup(ctx, key)
	if !cached {
		output, err = s.run(ctx, path)
		if err != nil {
			return Result{}, err
		}
		s.store(ctx, key, output)
	}

	tree, err := output.Tree()
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", path, err)
	}
	container, err := metadata.Parse(path, tree, output.Diagnostics())
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", path, err)
	}

	elapsed := time.Since(start)
	attrs := []logging.Attr{
		logging.String(logging.FieldPath, path),
		logging.Bool("cached", cached),
		logging.Int("video_streams", len(container.Video)),
		logging.Int("audio_streams", len(container.Audio)),
		logging.Duration("elapsed", elapsed),
	}
	if !container.Valid() {
		logging.WarnWithContext(s.logger, "ffprobe could not read media", "probe_invalid_media",
			append(attrs,
				logging.String(logging.FieldErrorHint, "verify the file is a complete media file ffmpeg supports"),
				logging.String(logging.FieldImpact, "no streams reported for this file"),
			)...,
		)
	} else {
		s.logger.Debug("probed media", logging.Args(attrs...)...)
	}

	return Result{Container: container, Cached: cached, Duration: elapsed}, nil
}

func (s *Service) run(ctx context.Context, path string) (ffprobe.Output, error) {
	if timeout := s.cfg.ProbeTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	output, err := s.inspect(ctx, s.cfg.FFprobeBinary(), path)
	if err != nil {
		return ffprobe.Output{}, err
	}
	return output, nil
}

func (s *Service) lookup(ctx context.Context, key probecache.Key) (ffprobe.Output, bool) {
	if s.cache == nil {
		return ffprobe.Output{}, false
	}
	entry, ok, err := s.cache.Lookup(ctx, key)
	if err != nil {
		logging.WarnWithContext(s.logger, "probe cache lookup failed", "probe_cache_lookup_failed",
			logging.String(logging.FieldPath, key.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "ffprobe runs again for this file"),
			logging.String(logging.FieldErrorHint, "run 'mediaprobe cache clear' if the cache is corrupt"),
		)
		return ffprobe.Output{}, false
	}
	if !ok {
		return ffprobe.Output{}, false
	}
	return ffprobe.Output{Stdout: entry.Stdout, Stderr: entry.Stderr}, true
}

func (s *Service) store(ctx context.Context, key probecache.Key, output ffprobe.Output) {
	if s.cache == nil {
		return
	}
	entry := probecache.Entry{Key: key, Stdout: output.Stdout, Stderr: output.Stderr}
	if err := s.cache.Put(ctx, entry); err != nil {
		logging.WarnWithContext(s.logger, "probe cache write failed", "probe_cache_write_failed",
			logging.String(logging.FieldPath, key.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next probe of this file runs ffprobe again"),
		)
	}
}
