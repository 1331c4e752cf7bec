package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present", "#!/bin/sh\nexit 0\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("expected blank command to be reported, got %#v", results[2])
	}
}

func TestMissingSkipsOptional(t *testing.T) {
	statuses := []Status{
		{Name: "ffmpeg", Available: true},
		{Name: "ffprobe"},
		{Name: "extra", Optional: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "ffprobe" {
		t.Fatalf("unexpected missing list %#v", missing)
	}
}

func TestVersionLine(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "ffprobe",
		"#!/bin/sh\necho 'ffprobe version 7.1.1-static https://johnvansickle.com/ffmpeg/ Copyright (c) 2007-2025'\necho 'built with gcc 8'\n")
	if got := VersionLine(context.Background(), stub); got != "7.1.1-static" {
		t.Fatalf("VersionLine = %q", got)
	}
}

func TestVersionLineFailure(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "ffmpeg", "#!/bin/sh\nexit 1\n")
	if got := VersionLine(context.Background(), stub); got != "" {
		t.Fatalf("expected empty version, got %q", got)
	}
}

func TestAddVersionsOnlyAvailable(t *testing.T) {
	stub := writeStub(t, t.TempDir(), "ffmpeg", "#!/bin/sh\necho 'ffmpeg version n7.0 Copyright'\n")
	statuses := AddVersions(context.Background(), []Status{
		{Name: "ffmpeg", Available: true, Path: stub},
		{Name: "ffprobe"},
	})
	if statuses[0].Version != "n7.0" {
		t.Fatalf("version = %q", statuses[0].Version)
	}
	if statuses[1].Version != "" {
		t.Fatalf("unavailable binary should have no version")
	}
}
