package metadata

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"
)

// Diagnostic fragments ffprobe prints on stderr for files it cannot decode.
var fatalDiagnostics = []string{
	"Unsupported codec",
	"is not supported",
	"could not find codec parameters",
}

var creationTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 MST",
	"2006-01-02",
}

// Container is the parsed result of probing one media file.
type Container struct {
	Path         string        `json:"path"`
	FormatName   string        `json:"format_name,omitempty"`
	Duration     float64       `json:"duration"`
	StartTime    float64       `json:"start_time"`
	CreationTime *time.Time    `json:"creation_time,omitempty"`
	BitRate      int64         `json:"bit_rate"`
	Video        []VideoStream `json:"video"`
	Audio        []AudioStream `json:"audio"`

	invalid bool
}

// Parse builds a Container from the decoded ffprobe tree and the text
// ffprobe wrote to stderr. A file ffprobe could not read yields an invalid
// container rather than an error; only a malformed stream entry fails.
func Parse(path string, tree map[string]any, diagnostics string) (*Container, error) {
	container := &Container{Path: path, Video: []VideoStream{}, Audio: []AudioStream{}}

	root := asFields(tree)
	if root == nil || root.has("error") || hasFatalDiagnostic(diagnostics) {
		container.invalid = true
		return container, nil
	}

	for position, item := range root.list("streams") {
		entry := asFields(item)
		if entry == nil {
			continue
		}
		switch entry.stringField("codec_type") {
		case "video":
			stream, err := NewVideoStream(entry)
			if err != nil {
				return nil, fmt.Errorf("video stream %d: %w", position, err)
			}
			container.Video = append(container.Video, stream)
		case "audio":
			stream, err := NewAudioStream(entry)
			if err != nil {
				return nil, fmt.Errorf("audio stream %d: %w", position, err)
			}
			container.Audio = append(container.Audio, stream)
		}
	}

	format := root.sub("format")
	container.FormatName = format.stringField("format_name")
	container.Duration = format.floatField("duration")
	container.StartTime = format.floatField("start_time")
	container.BitRate = nonNegative(format.int64Field("bit_rate"))
	container.CreationTime = parseCreationTime(format.sub("tags").stringField("creation_time"))

	return container, nil
}

// Valid reports whether ffprobe could read the file.
func (c *Container) Valid() bool { return !c.invalid }

// Streams returns every record ordered by stream index.
func (c *Container) Streams() []Record {
	records := make([]Record, 0, len(c.Video)+len(c.Audio))
	for _, v := range c.Video {
		records = append(records, v)
	}
	for _, a := range c.Audio {
		records = append(records, a)
	}
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Base().Index, b.Base().Index)
	})
	return records
}

// Size returns the size of the source file in bytes.
func (c *Container) Size() (int64, error) {
	info, err := os.Stat(c.Path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", c.Path, err)
	}
	return info.Size(), nil
}

// FirstVideo returns the first video stream of a valid container.
func (c *Container) FirstVideo() (VideoStream, bool) {
	if c.invalid || len(c.Video) == 0 {
		return VideoStream{}, false
	}
	return c.Video[0], true
}

// FirstAudio returns the first audio stream of a valid container.
func (c *Container) FirstAudio() (AudioStream, bool) {
	if c.invalid || len(c.Audio) == 0 {
		return AudioStream{}, false
	}
	return c.Audio[0], true
}

func (c *Container) Resolution() (string, bool) {
	v, ok := c.FirstVideo()
	if !ok {
		return "", false
	}
	return v.Resolution(), true
}

func (c *Container) FrameRate() (string, bool) {
	v, ok := c.FirstVideo()
	if !ok {
		return "", false
	}
	return v.AvgFrameRate.String(), true
}

// VideoDescription is the first video line without its "Stream #0:n: Video: " prefix.
func (c *Container) VideoDescription() (string, bool) {
	v, ok := c.FirstVideo()
	if !ok {
		return "", false
	}
	return afterMarker(v.String(), "Video: ")
}

// AudioDescription is the first audio line without its "Stream #0:n: Audio: " prefix.
func (c *Container) AudioDescription() (string, bool) {
	a, ok := c.FirstAudio()
	if !ok {
		return "", false
	}
	return afterMarker(a.String(), "Audio: ")
}

func (c *Container) CalculatedAspectRatio() (float64, bool) {
	v, ok := c.FirstVideo()
	if !ok {
		return 0, false
	}
	return v.CalculatedAspectRatio()
}

func (c *Container) CalculatedPixelAspectRatio() (float64, bool) {
	v, ok := c.FirstVideo()
	if !ok {
		return 0, false
	}
	return v.CalculatedPixelAspectRatio(), true
}

// AudioChannelLayout returns the first audio stream's layout, falling back to
// a name derived from its channel count for ffprobe builds that omit it.
func (c *Container) AudioChannelLayout() (string, bool) {
	a, ok := c.FirstAudio()
	if !ok {
		return "", false
	}
	if layout := strings.TrimSpace(a.ChannelLayout); layout != "" {
		return layout, true
	}
	return layoutForChannels(a.Channels), true
}

func hasFatalDiagnostic(diagnostics string) bool {
	for _, fragment := range fatalDiagnostics {
		if strings.Contains(diagnostics, fragment) {
			return true
		}
	}
	return false
}

func parseCreationTime(value string) *time.Time {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	for _, layout := range creationTimeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return &parsed
		}
	}
	return nil
}

func afterMarker(line, marker string) (string, bool) {
	_, rest, found := strings.Cut(line, marker)
	if !found {
		return "", false
	}
	return rest, true
}
