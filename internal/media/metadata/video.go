package metadata

import (
	"math"
	"regexp"
	"strconv"

	"mediaprobe/internal/rational"
)

var imageCodecPattern = regexp.MustCompile(`bmp|png|mjpeg`)

// VideoStream is a video entry of the probe tree.
type VideoStream struct {
	Stream

	Profile            string            `json:"profile,omitempty"`
	Width              int               `json:"width"`
	Height             int               `json:"height"`
	SampleAspectRatio  string            `json:"sample_aspect_ratio,omitempty"`
	DisplayAspectRatio string            `json:"display_aspect_ratio,omitempty"`
	PixelFormat        string            `json:"pix_fmt"`
	RFrameRate         rational.Rational `json:"r_frame_rate"`
	AvgFrameRate       rational.Rational `json:"avg_frame_rate"`
	Rotation           *int              `json:"rotation,omitempty"`
	BFrames            bool              `json:"has_b_frames"`
}

// NewVideoStream builds a video record from one decoded stream object.
func NewVideoStream(entry map[string]any) (VideoStream, error) {
	f := asFields(entry)
	base, err := newStream(f)
	if err != nil {
		return VideoStream{}, err
	}
	rFrameRate, err := f.requiredRational("r_frame_rate")
	if err != nil {
		return VideoStream{}, err
	}
	avgFrameRate, err := f.requiredRational("avg_frame_rate")
	if err != nil {
		return VideoStream{}, err
	}

	return VideoStream{
		Stream:             base,
		Profile:            f.stringField("profile"),
		Width:              f.countField("width"),
		Height:             f.countField("height"),
		SampleAspectRatio:  f.stringField("sample_aspect_ratio"),
		DisplayAspectRatio: f.stringField("display_aspect_ratio"),
		PixelFormat:        f.stringField("pix_fmt"),
		RFrameRate:         rFrameRate,
		AvgFrameRate:       avgFrameRate.Normalize(),
		Rotation:           readRotation(f),
		BFrames:            f.int64Field("has_b_frames") == 1,
	}, nil
}

// Kind reports KindVideo.
func (v VideoStream) Kind() Kind { return KindVideo }

// FPS is the average frame rate.
func (v VideoStream) FPS() rational.Rational { return v.AvgFrameRate }

// TBR is the real base frame rate.
func (v VideoStream) TBR() rational.Rational { return v.RFrameRate }

// TBN is the container time base inverted.
func (v VideoStream) TBN() (rational.Rational, error) { return v.TimeBase.Reciprocal() }

// TBC is the codec time base inverted.
func (v VideoStream) TBC() (rational.Rational, error) { return v.CodecTimeBase.Reciprocal() }

// IsImage reports whether the codec is a still image format.
func (v VideoStream) IsImage() bool {
	return imageCodecPattern.MatchString(v.CodecName)
}

// Resolution returns "<width>x<height>".
func (v VideoStream) Resolution() string {
	return strconv.Itoa(v.Width) + "x" + strconv.Itoa(v.Height)
}

// readRotation prefers the legacy rotate tag. Newer ffprobe builds only
// report a display matrix, whose counter-clockwise angle is turned into the
// tag's clockwise 0-359 convention.
func readRotation(f fields) *int {
	tags := f.sub("tags")
	if tags.has("rotate") {
		value := tags.intField("rotate")
		return &value
	}
	for _, item := range f.list("side_data_list") {
		side := asFields(item)
		if !side.has("rotation") {
			continue
		}
		degrees := int(math.Round(side.floatField("rotation")))
		value := ((-degrees % 360) + 360) % 360
		return &value
	}
	return nil
}
