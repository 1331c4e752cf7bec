package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ProcessError reports an ffprobe run that produced no usable output.
type ProcessError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	detail := strings.TrimSpace(e.Stderr)
	if detail == "" {
		return fmt.Sprintf("ffprobe inspect: %s: %v", e.Binary, e.Err)
	}
	return fmt.Sprintf("ffprobe inspect: %s: %v: %s", e.Binary, e.Err, detail)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Output is what one ffprobe run printed.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Diagnostics returns stderr as text.
func (o Output) Diagnostics() string {
	return string(o.Stderr)
}

// Tree decodes stdout into the generic probe tree.
func (o Output) Tree() (map[string]any, error) {
	return Decode(o.Stdout)
}

// Args returns the ffprobe arguments used to inspect path.
func Args(path string) []string {
	return []string{
		"-hide_banner",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-show_error",
		"-i", path,
	}
}

// Inspect executes ffprobe against the provided path and captures both output
// streams. A non-zero exit is not an error when ffprobe still printed a
// document, because -show_error reports unreadable files inside the JSON.
func Inspect(ctx context.Context, binary string, path string) (Output, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Output{}, errors.New("ffprobe inspect: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, Args(path)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return output, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Output{}, fmt.Errorf("ffprobe inspect: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if len(bytes.TrimSpace(output.Stdout)) > 0 {
			return output, nil
		}
		return Output{}, &ProcessError{Binary: binary, ExitCode: exitErr.ExitCode(), Stderr: stderr.String(), Err: err}
	}
	return Output{}, &ProcessError{Binary: binary, ExitCode: -1, Stderr: stderr.String(), Err: err}
}

// Decode parses ffprobe JSON. Output that is not valid UTF-8 is read as
// ISO-8859-1, which is what ffprobe emits for legacy tag encodings. Numbers
// are kept as json.Number so integer fields survive without float rounding.
func Decode(data []byte) (map[string]any, error) {
	payload := RepairEncoding(data)
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, errors.New("ffprobe parse: empty output")
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var tree map[string]any
	if err := decoder.Decode(&tree); err != nil {
		return nil, fmt.Errorf("ffprobe parse: %w", err)
	}
	return tree, nil
}

// RepairEncoding returns data unchanged when it is valid UTF-8 and the
// ISO-8859-1 reading of it otherwise.
func RepairEncoding(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}
	repaired, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return repaired
}
