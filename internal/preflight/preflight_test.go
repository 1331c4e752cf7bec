package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaprobe/internal/config"
	"mediaprobe/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected at least one free byte, got %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, ^uint64(0))
	if result.Passed {
		t.Fatal("expected failure for impossible requirement")
	}
	if !strings.Contains(result.Detail, "need") {
		t.Fatalf("detail should name the requirement: %s", result.Detail)
	}
}

func TestCheckFreeSpace_Missing(t *testing.T) {
	if result := CheckFreeSpace("space", filepath.Join(t.TempDir(), "gone"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestRunAllPassesWithStubs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	output := filepath.Join(t.TempDir(), "out.mkv")

	results := RunAll(cfg, output)
	if err := Err(results); err != nil {
		t.Fatalf("unexpected preflight failure: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected directory and two binary checks, got %#v", results)
	}
}

func TestRunAllReportsMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	output := filepath.Join(t.TempDir(), "missing", "out.mkv")

	err := Err(RunAll(cfg, output))
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Output directory") {
		t.Fatalf("error should name the check: %v", err)
	}
}

func TestRunAllFreeSpaceThreshold(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	cfg.Transcode.MinFreeGiB = 1 << 20
	err := Err(RunAll(cfg, filepath.Join(t.TempDir(), "out.mkv")))
	if err == nil || !strings.Contains(err.Error(), "Output free space") {
		t.Fatalf("expected free space failure, got %v", err)
	}
}

func TestCheckSystemDepsDrapto(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries(), testsupport.WithEngine(config.EngineDrapto))
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected ffprobe, ffmpeg and PATH ffmpeg, got %#v", statuses)
	}
	if !statuses[1].Optional {
		t.Fatal("configured ffmpeg should be optional for drapto")
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected stubbed binary to resolve: %#v", status)
		}
	}
}

func TestErrNilWhenAllPass(t *testing.T) {
	if err := Err([]Result{{Name: "a", Passed: true}}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
