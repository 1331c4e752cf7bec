package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"mediaprobe/internal/config"
	"mediaprobe/internal/media/metadata"
)

var titleCaser = cases.Title(language.English)

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}

// languageName renders a stream language for people, "-" when undetermined.
func languageName(stream metadata.Stream) string {
	tag := stream.LanguageTag()
	if tag.IsRoot() {
		return "-"
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

func kindTitle(kind metadata.Kind) string {
	return titleCaser.String(kind.String())
}

// resolveInput expands and validates a media path argument.
func resolveInput(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("input path is required")
	}
	return config.ExpandPath(arg)
}

// resolveOutput places bare file names inside the configured output directory.
func resolveOutput(cfg *config.Config, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("output path is required")
	}
	if filepath.Base(arg) == arg && arg != "~" && arg != "." && arg != ".." {
		return config.ExpandPath(filepath.Join(cfg.Transcode.OutputDir, arg))
	}
	return config.ExpandPath(arg)
}

func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	total := int64(seconds)
	frac := seconds - float64(total)
	h := total / 3600
	m := (total % 3600) / 60
	s := float64(total%60) + frac
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%05.2f", h, m, s)
	}
	return fmt.Sprintf("%d:%05.2f", m, s)
}
