package metadata

import (
	"math"
	"strconv"
	"strings"
)

// AspectRatio resolves the display aspect ratio of a frame. The "W:H"
// display ratio wins when it decodes to a usable value; otherwise the frame
// dimensions are used. ok is false when neither source yields a finite value.
func AspectRatio(dar string, width, height int) (float64, bool) {
	if value, ok := ratioValue(dar); ok {
		return value, true
	}
	if height == 0 {
		return 0, false
	}
	value := float64(width) / float64(height)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// PixelAspectRatio resolves the sample aspect ratio, defaulting to square pixels.
func PixelAspectRatio(sar string) float64 {
	if value, ok := ratioValue(sar); ok {
		return value
	}
	return 1
}

// CalculatedAspectRatio is AspectRatio applied to the stream.
func (v VideoStream) CalculatedAspectRatio() (float64, bool) {
	return AspectRatio(v.DisplayAspectRatio, v.Width, v.Height)
}

// CalculatedPixelAspectRatio is PixelAspectRatio applied to the stream.
func (v VideoStream) CalculatedPixelAspectRatio() float64 {
	return PixelAspectRatio(v.SampleAspectRatio)
}

// ratioValue decodes "W:H". Missing, zero and non-finite ratios count as absent.
func ratioValue(ratio string) (float64, bool) {
	wText, hText, found := strings.Cut(strings.TrimSpace(ratio), ":")
	if !found {
		return 0, false
	}
	w := leadingFloat(wText)
	h := leadingFloat(hText)
	value := w / h
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// leadingFloat reads the numeric prefix of text; text without one reads as 0.
func leadingFloat(text string) float64 {
	trimmed := strings.TrimSpace(text)
	for end := len(trimmed); end > 0; end-- {
		if value, err := strconv.ParseFloat(trimmed[:end], 64); err == nil {
			return value
		}
	}
	return 0
}
