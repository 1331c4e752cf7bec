package metadata

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"mediaprobe/internal/rational"
)

// Kind discriminates the stream variants read from codec_type.
type Kind int

const (
	KindVideo Kind = iota
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Record is the behaviour shared by VideoStream and AudioStream.
type Record interface {
	Kind() Kind
	Base() Stream
	String() string
}

// Stream holds the fields every ffprobe stream entry carries.
type Stream struct {
	Index          int               `json:"index"`
	ID             string            `json:"id,omitempty"`
	CodecName      string            `json:"codec_name"`
	CodecLongName  string            `json:"codec_long_name"`
	CodecTag       string            `json:"codec_tag"`
	CodecTagString string            `json:"codec_tag_string"`
	CodecTimeBase  rational.Rational `json:"codec_time_base"`
	TimeBase       rational.Rational `json:"time_base"`
	StartPTS       int64             `json:"start_pts"`
	StartTime      float64           `json:"start_time"`
	DurationTS     int64             `json:"duration_ts"`
	Duration       float64           `json:"duration"`
	BitRate        int64             `json:"bit_rate"`
	NBFrames       int64             `json:"nb_frames"`
	Language       string            `json:"language,omitempty"`
}

func newStream(f fields) (Stream, error) {
	timeBase, err := f.requiredRational("time_base")
	if err != nil {
		return Stream{}, err
	}
	codecTimeBase, err := f.optionalRational("codec_time_base")
	if err != nil {
		return Stream{}, err
	}

	return Stream{
		Index:          f.countField("index"),
		ID:             strings.TrimSpace(f.stringField("id")),
		CodecName:      f.stringField("codec_name"),
		CodecLongName:  f.stringField("codec_long_name"),
		CodecTag:       f.stringField("codec_tag"),
		CodecTagString: f.stringField("codec_tag_string"),
		CodecTimeBase:  codecTimeBase,
		TimeBase:       timeBase,
		StartPTS:       f.int64Field("start_pts"),
		StartTime:      f.floatField("start_time"),
		DurationTS:     f.int64Field("duration_ts"),
		Duration:       f.floatField("duration"),
		BitRate:        nonNegative(f.int64Field("bit_rate")),
		NBFrames:       f.int64Field("nb_frames"),
		Language:       f.sub("tags").stringField("language"),
	}, nil
}

// Base returns the shared fields.
func (s Stream) Base() Stream { return s }

// HasCodecTag reports whether the codec tag decodes to a non-zero value.
func (s Stream) HasCodecTag() bool {
	return hexValue(s.CodecTag) != 0
}

// LanguageTag parses the stream language; unknown or absent values yield language.Und.
func (s Stream) LanguageTag() language.Tag {
	lang := strings.TrimSpace(s.Language)
	if lang == "" {
		return language.Und
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und
	}
	return tag
}

func (s Stream) displayLanguage() string {
	if lang := strings.TrimSpace(s.Language); lang != "" {
		return lang
	}
	return "und"
}

func (s Stream) identity(image bool) string {
	prefix := "Stream #0:" + strconv.Itoa(s.Index)
	switch {
	case image:
		return prefix
	case s.ID != "":
		return prefix + "[" + s.ID + "]"
	default:
		return prefix + "(" + s.displayLanguage() + ")"
	}
}

func (s Stream) bitRateString() string {
	return strconv.FormatInt(s.BitRate/1000, 10) + " kb/s"
}

// hexValue reads the leading hexadecimal number of value, with an optional
// 0x prefix. Text without hex digits reads as zero.
func hexValue(value string) uint64 {
	text := strings.TrimSpace(value)
	if len(text) > 1 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		text = text[2:]
	}
	end := 0
	for end < len(text) && isHexDigit(text[end]) {
		end++
	}
	if end == 0 {
		return 0
	}
	digits := strings.TrimLeft(text[:end], "0")
	if digits == "" {
		return 0
	}
	if len(digits) > 16 {
		return 1
	}
	parsed, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func nonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
