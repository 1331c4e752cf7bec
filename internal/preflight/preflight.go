package preflight

import (
	"errors"
	"fmt"
	"strings"

	"mediaprobe/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// ErrFailed classifies errors returned by Err.
var ErrFailed = errors.New("preflight failed")

// RunAll executes the checks a transcode into output needs.
func RunAll(cfg *config.Config, output string) []Result {
	if cfg == nil {
		return nil
	}
	results := CheckOutputPath(cfg, output)
	for _, status := range CheckSystemDeps(cfg) {
		if status.Optional && !status.Available {
			continue
		}
		detail := status.Path
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}
	return results
}

// Err joins failed results into a single error, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result.Name+": "+result.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrFailed, strings.Join(failed, "; "))
}
