package metadata

import (
	"strconv"
	"strings"

	"mediaprobe/internal/rational"
)

const undeterminedRatio = "0:1"

// String renders the stream the way ffmpeg prints it on the console.
func (v VideoStream) String() string {
	image := v.IsImage()

	codec := v.CodecName
	if v.HasCodecTag() {
		codec = v.CodecName + " (" + v.Profile + ") (" + v.CodecTagString + " / " + v.CodecTag + ")"
	}

	parts := []string{codec, v.PixelFormat, v.displayResolution()}
	if !image {
		parts = append(parts, v.bitRateString(), v.AvgFrameRate.DisplayString("fps"))
	}
	parts = append(parts,
		v.RFrameRate.DisplayString("tbr"),
		invertedOrZero(v.TimeBase).DisplayString("tbn"),
		invertedOrZero(v.CodecTimeBase).Int().String()+" tbc",
	)

	return v.identity(image) + ": Video: " + strings.Join(parts, ", ")
}

// String renders the stream the way ffmpeg prints it on the console.
func (a AudioStream) String() string {
	codec := a.CodecName
	if a.HasCodecTag() {
		codec = a.CodecName + " (" + a.CodecTagString + " / " + a.CodecTag + ")"
	}
	parts := []string{
		codec,
		strconv.Itoa(a.SampleRate) + " Hz",
		a.ChannelLayout,
		a.SampleFormat,
		a.bitRateString(),
	}
	return a.identity(false) + ": Audio: " + strings.Join(parts, ", ")
}

func (v VideoStream) displayResolution() string {
	sar := strings.TrimSpace(v.SampleAspectRatio)
	dar := strings.TrimSpace(v.DisplayAspectRatio)
	if sar == "" || dar == "" || sar == undeterminedRatio || dar == undeterminedRatio {
		return v.Resolution()
	}
	return v.Resolution() + " [SAR " + sar + " DAR " + dar + "]"
}

// invertedOrZero renders unknown time bases as zero instead of failing the line.
func invertedOrZero(r rational.Rational) rational.Rational {
	inverted, err := r.Reciprocal()
	if err != nil {
		return rational.Zero
	}
	return inverted
}
