package metadata

// AudioStream is an audio entry of the probe tree.
type AudioStream struct {
	Stream

	SampleFormat  string `json:"sample_fmt"`
	SampleRate    int    `json:"sample_rate"`
	Channels      int    `json:"channels"`
	ChannelLayout string `json:"channel_layout,omitempty"`
	BitsPerSample int    `json:"bits_per_sample"`
}

// NewAudioStream builds an audio record from one decoded stream object.
func NewAudioStream(entry map[string]any) (AudioStream, error) {
	f := asFields(entry)
	base, err := newStream(f)
	if err != nil {
		return AudioStream{}, err
	}
	return AudioStream{
		Stream:        base,
		SampleFormat:  f.stringField("sample_fmt"),
		SampleRate:    f.countField("sample_rate"),
		Channels:      f.countField("channels"),
		ChannelLayout: f.stringField("channel_layout"),
		BitsPerSample: f.countField("bits_per_sample"),
	}, nil
}

// Kind reports KindAudio.
func (a AudioStream) Kind() Kind { return KindAudio }

// layoutForChannels names the usual layout for a channel count.
func layoutForChannels(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 6:
		return "5.1"
	default:
		return "unknown"
	}
}
