package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionTimeout = 5 * time.Second

// AddVersions fills Version for every available status by running
// "<binary> -version", which ffmpeg and ffprobe both understand.
func AddVersions(ctx context.Context, statuses []Status) []Status {
	for i := range statuses {
		if !statuses[i].Available {
			continue
		}
		statuses[i].Version = VersionLine(ctx, statuses[i].Path)
	}
	return statuses
}

// VersionLine returns the first line of "<binary> -version" with the
// "<name> version" prefix removed, or "" when the binary does not answer.
func VersionLine(ctx context.Context, binary string) string {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return ""
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	if !scanner.Scan() {
		return ""
	}
	line := strings.TrimSpace(scanner.Text())
	if _, rest, found := strings.Cut(line, " version "); found {
		line = rest
	}
	if version, _, found := strings.Cut(line, " "); found {
		return version
	}
	return line
}
