package transcode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseResolution splits "WxH".
func parseResolution(resolution string) (int, int, error) {
	wText, hText, found := strings.Cut(strings.ToLower(strings.TrimSpace(resolution)), "x")
	if !found {
		return 0, 0, fmt.Errorf("resolution %q: expected WxH", resolution)
	}
	width, err := strconv.Atoi(strings.TrimSpace(wText))
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("resolution %q: invalid width", resolution)
	}
	height, err := strconv.Atoi(strings.TrimSpace(hText))
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("resolution %q: invalid height", resolution)
	}
	return width, height, nil
}

// preserveAspect keeps one dimension of resolution and derives the other
// from aspect, rounding to an even number of pixels.
func preserveAspect(resolution string, aspect float64, mode PreserveAspect) (string, error) {
	if mode == PreserveNone || strings.TrimSpace(resolution) == "" {
		return resolution, nil
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return resolution, nil
	}
	width, height, err := parseResolution(resolution)
	if err != nil {
		return "", err
	}
	switch mode {
	case PreserveWidth:
		height = evenDimension(float64(width) / aspect)
	case PreserveHeight:
		width = evenDimension(float64(height) * aspect)
	default:
		return "", fmt.Errorf("preserve aspect ratio %q: expected %q or %q", mode, PreserveWidth, PreserveHeight)
	}
	return fmt.Sprintf("%dx%d", width, height), nil
}

// evenDimension rounds up when that lands on an even number, otherwise
// rounds down and bumps odd results by one.
func evenDimension(value float64) int {
	ceiled := int(math.Ceil(value))
	if ceiled%2 == 0 {
		return ceiled
	}
	floored := int(math.Floor(value))
	if floored%2 != 0 {
		floored++
	}
	return floored
}
