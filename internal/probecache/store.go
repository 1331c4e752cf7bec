package probecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"mediaprobe/internal/logging"
)

// ErrLocked is returned when another process holds the maintenance lock.
var ErrLocked = errors.New("probe cache is locked by another process")

// Key identifies one version of a media file on disk.
type Key struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// KeyFor stats path and builds its cache key.
func KeyFor(path string) (Key, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Key{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	return Key{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Entry is the raw ffprobe output recorded for a key.
type Entry struct {
	Key      Key
	Stdout   []byte
	Stderr   []byte
	ProbedAt time.Time
}

// Stats summarizes cache contents.
type Stats struct {
	Path    string     `json:"path"`
	Entries int        `json:"entries"`
	Bytes   int64      `json:"bytes"`
	Oldest  *time.Time `json:"oldest,omitempty"`
	Newest  *time.Time `json:"newest,omitempty"`
}

// Store persists ffprobe output in SQLite so unchanged files are not probed twice.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
	now    func() time.Time
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("probe cache: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:     db,
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "probecache"),
		now:    time.Now,
	}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup returns the entry for key when the file has not changed since it was probed.
func (s *Store) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	ctx = ensureContext(ctx)
	var (
		stdout, stderr []byte
		probedAt       int64
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT stdout, stderr, probed_at_ns FROM probe_results
             WHERE path = ? AND size = ? AND mod_time_ns = ?`,
			key.Path, key.Size, key.ModTime.UnixNano(),
		).Scan(&stdout, &stderr, &probedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup probe result: %w", err)
	}

	entry := Entry{Key: key, Stdout: stdout, Stderr: stderr, ProbedAt: time.Unix(0, probedAt).UTC()}
	s.logger.Debug("probe cache hit", logging.String(logging.FieldPath, key.Path))
	return entry, true, nil
}

// Put records the output of a probe run, replacing any older entry for the path.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	ctx = ensureContext(ctx)
	if entry.ProbedAt.IsZero() {
		entry.ProbedAt = s.now()
	}
	stdout := entry.Stdout
	if stdout == nil {
		stdout = []byte{}
	}
	stderr := entry.Stderr
	if stderr == nil {
		stderr = []byte{}
	}
	err := retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO probe_results (path, size, mod_time_ns, stdout, stderr, probed_at_ns)
             VALUES (?, ?, ?, ?, ?, ?)
             ON CONFLICT(path) DO UPDATE SET
                 size = excluded.size,
                 mod_time_ns = excluded.mod_time_ns,
                 stdout = excluded.stdout,
                 stderr = excluded.stderr,
                 probed_at_ns = excluded.probed_at_ns`,
			entry.Key.Path,
			entry.Key.Size,
			entry.Key.ModTime.UnixNano(),
			stdout,
			stderr,
			entry.ProbedAt.UnixNano(),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("store probe result: %w", err)
	}
	return nil
}

// Prune removes entries probed before now-maxAge and entries whose file no
// longer exists. A zero maxAge only removes missing files.
func (s *Store) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withLock(func() error {
		if maxAge > 0 {
			cutoff := s.now().Add(-maxAge).UnixNano()
			res, err := s.execWithRetry(ctx, `DELETE FROM probe_results WHERE probed_at_ns < ?`, cutoff)
			if err != nil {
				return fmt.Errorf("prune expired entries: %w", err)
			}
			n, _ := res.RowsAffected()
			removed += n
		}

		missing, err := s.missingPaths(ctx)
		if err != nil {
			return err
		}
		for _, path := range missing {
			res, err := s.execWithRetry(ctx, `DELETE FROM probe_results WHERE path = ?`, path)
			if err != nil {
				return fmt.Errorf("prune missing entry: %w", err)
			}
			n, _ := res.RowsAffected()
			removed += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("probe cache pruned", logging.Int64("removed", removed))
	return removed, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	var removed int64
	err := s.withLock(func() error {
		res, err := s.execWithRetry(ctx, `DELETE FROM probe_results`)
		if err != nil {
			return fmt.Errorf("clear probe cache: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("probe cache cleared", logging.Int64("removed", removed))
	return removed, nil
}

// Stats summarizes the cache contents.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{Path: s.path}
	var oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(LENGTH(stdout) + LENGTH(stderr)), 0), MIN(probed_at_ns), MAX(probed_at_ns)
         FROM probe_results`,
	).Scan(&stats.Entries, &stats.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("probe cache stats: %w", err)
	}
	stats.Oldest = parseTimestamp(oldest)
	stats.Newest = parseTimestamp(newest)
	return stats, nil
}

func (s *Store) missingPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM probe_results`)
	if err != nil {
		return nil, fmt.Errorf("list cached paths: %w", err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			missing = append(missing, path)
		}
	}
	return missing, rows.Err()
}

func (s *Store) withLock(fn func() error) error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			logging.WarnWithContext(s.logger, "failed to release cache lock", "probecache_unlock_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove "+s.lock.Path()+" if no other mediaprobe process is running"),
			)
		}
	}()
	return fn()
}

func parseTimestamp(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	ts := time.Unix(0, value.Int64).UTC()
	return &ts
}
