package probecache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"mediaprobe/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "probe.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeMedia(t *testing.T, dir, name, content string) Key {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	key, err := KeyFor(path)
	if err != nil {
		t.Fatalf("KeyFor: %v", err)
	}
	return key
}

func TestLookupMiss(t *testing.T) {
	store := openTestStore(t)
	key := writeMedia(t, t.TempDir(), "movie.mkv", "data")

	_, ok, err := store.Lookup(context.Background(), key)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestPutThenLookup(t *testing.T) {
	store := openTestStore(t)
	key := writeMedia(t, t.TempDir(), "movie.mkv", "data")
	ctx := context.Background()

	if err := store.Put(ctx, Entry{Key: key, Stdout: []byte(`{"streams":[]}`), Stderr: []byte("warn")}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := store.Lookup(ctx, key)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if string(entry.Stdout) != `{"streams":[]}` || string(entry.Stderr) != "warn" {
		t.Fatalf("unexpected entry %q / %q", entry.Stdout, entry.Stderr)
	}
	if entry.ProbedAt.IsZero() {
		t.Fatal("expected ProbedAt to be recorded")
	}
}

func TestLookupMissesAfterFileChanges(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	key := writeMedia(t, dir, "movie.mkv", "data")
	ctx := context.Background()

	if err := store.Put(ctx, Entry{Key: key, Stdout: []byte("{}")}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	changed := writeMedia(t, dir, "movie.mkv", "longer data")
	if _, ok, err := store.Lookup(ctx, changed); err != nil || ok {
		t.Fatalf("expected miss for changed file, ok=%v err=%v", ok, err)
	}
}

func TestPutReplacesExistingPath(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	first := writeMedia(t, dir, "movie.mkv", "data")
	if err := store.Put(ctx, Entry{Key: first, Stdout: []byte("old")}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	second := writeMedia(t, dir, "movie.mkv", "new data")
	if err := store.Put(ctx, Entry{Key: second, Stdout: []byte("new")}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Fatalf("expected a single row per path, got %d", stats.Entries)
	}
	entry, ok, err := store.Lookup(ctx, second)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if string(entry.Stdout) != "new" {
		t.Fatalf("expected replaced stdout, got %q", entry.Stdout)
	}
}

func TestPruneRemovesExpiredAndMissing(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	fresh := writeMedia(t, dir, "fresh.mkv", "a")
	stale := writeMedia(t, dir, "stale.mkv", "b")
	gone := writeMedia(t, dir, "gone.mkv", "c")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	mustPut(t, store, Entry{Key: fresh, Stdout: []byte("{}"), ProbedAt: now.Add(-time.Hour)})
	mustPut(t, store, Entry{Key: stale, Stdout: []byte("{}"), ProbedAt: now.Add(-48 * time.Hour)})
	mustPut(t, store, Entry{Key: gone, Stdout: []byte("{}"), ProbedAt: now.Add(-time.Hour)})
	if err := os.Remove(gone.Path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	removed, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if _, ok, _ := store.Lookup(ctx, fresh); !ok {
		t.Fatal("fresh entry should survive prune")
	}
	if _, ok, _ := store.Lookup(ctx, stale); ok {
		t.Fatal("stale entry should be pruned")
	}
}

func TestPruneComparesSubSecondTimes(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	ctx := context.Background()

	whole := writeMedia(t, dir, "whole.mkv", "a")
	half := writeMedia(t, dir, "half.mkv", "b")

	probed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mustPut(t, store, Entry{Key: whole, Stdout: []byte("{}"), ProbedAt: probed})
	mustPut(t, store, Entry{Key: half, Stdout: []byte("{}"), ProbedAt: probed.Add(500 * time.Millisecond)})

	// The cutoff falls between the two entries.
	store.now = func() time.Time { return probed.Add(time.Hour + 250*time.Millisecond) }
	removed, err := store.Prune(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok, _ := store.Lookup(ctx, whole); ok {
		t.Fatal("entry probed before the cutoff should be pruned")
	}
	entry, ok, err := store.Lookup(ctx, half)
	if err != nil || !ok {
		t.Fatalf("entry probed after the cutoff should survive: ok=%v err=%v", ok, err)
	}
	if !entry.ProbedAt.Equal(probed.Add(500 * time.Millisecond)) {
		t.Fatalf("ProbedAt = %v", entry.ProbedAt)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Oldest == nil || !stats.Oldest.Equal(entry.ProbedAt) {
		t.Fatalf("unexpected oldest: %+v", stats)
	}
}

func TestClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	mustPut(t, store, Entry{Key: writeMedia(t, t.TempDir(), "a.mkv", "a"), Stdout: []byte("{}")})

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 0 || stats.Oldest != nil {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestMaintenanceFailsWhenLocked(t *testing.T) {
	store := openTestStore(t)

	other := flock.New(store.Path() + ".lock")
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock: locked=%v err=%v", locked, err)
	}
	t.Cleanup(func() { _ = other.Unlock() })

	if _, err := store.Clear(context.Background()); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.db")
	store, err := Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(context.Background(), path, nil); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestRetryOnBusyStopsOnOtherErrors(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")
	err := retryOnBusy(context.Background(), func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) || calls != 1 {
		t.Fatalf("expected single attempt, got calls=%d err=%v", calls, err)
	}
}

func TestRetryOnBusyRetries(t *testing.T) {
	calls := 0
	err := retryOnBusy(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third attempt, got calls=%d err=%v", calls, err)
	}
}

func mustPut(t *testing.T, store *Store, entry Entry) {
	t.Helper()
	if err := store.Put(context.Background(), entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
}
