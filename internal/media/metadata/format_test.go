package metadata

import "testing"

func TestVideoStreamString(t *testing.T) {
	tests := []struct {
		fixture string
		want    string
	}{
		{"awesome_movie.json", "Stream #0:1(und): Video: h264 (Main) (avc1 / 0x31637661), yuv420p, 640x480 [SAR 1:1 DAR 4:3], 371 kb/s, 16.75 fps, 600 tbr, 600 tbn, 1200 tbc"},
		{"awesome_widescreen.json", "Stream #0:0(und): Video: h264 (Constrained Baseline) (avc1 / 0x31637661), yuv420p, 320x180 [SAR 1:1 DAR 16:9], 291 kb/s, 10 fps, 10 tbr, 10 tbn, 20 tbc"},
		{"bigbucksbunny.json", "Stream #0:0(eng): Video: h264 (Main) (avc1 / 0x31637661), yuv420p, 1280x720, 3945 kb/s, 25 fps, 25 tbr, 600 tbn, 1200 tbc"},
		{"no_audio.json", "Stream #0:0(eng): Video: h264 (Main) (avc1 / 0x31637661), yuv420p, 640x480 [SAR 1:1 DAR 4:3], 374 kb/s, 16.90 fps, 15 tbr, 19200 tbn, 38400 tbc"},
		{"sideways.json", "Stream #0:0(und): Video: h264 (Baseline) (avc1 / 0x31637661), yuv420p, 640x480, 3757 kb/s, 24.04 fps, 24.08 tbr, 600 tbn, 1200 tbc"},
		{"weird_aspect.json", "Stream #0:0[0x1e0]: Video: mpeg1video, yuv420p, 352x288 [SAR 64:45 DAR 704:405], 1500 kb/s, 25 fps, 25 tbr, 90k tbn, 25 tbc"},
		{"image_bmp.json", "Stream #0:0: Video: bmp, bgr24, 400x200, 25 tbr, 25 tbn, 25 tbc"},
		{"image_jpg.json", "Stream #0:0: Video: mjpeg, yuvj420p, 640x480 [SAR 1:1 DAR 4:3], 25 tbr, 25 tbn, 25 tbc"},
		{"image_png.json", "Stream #0:0: Video: png, rgb24, 320x240 [SAR 1:1 DAR 4:3], 25 tbr, 25 tbn, 25 tbc"},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			container := parseFixture(t, tt.fixture)
			if len(container.Video) == 0 {
				t.Fatalf("expected a video stream")
			}
			if got := container.Video[0].String(); got != tt.want {
				t.Fatalf("String() =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestAudioStreamString(t *testing.T) {
	tests := []struct {
		fixture string
		want    string
	}{
		{"awesome_movie.json", "Stream #0:0(und): Audio: aac (mp4a / 0x6134706d), 44100 Hz, stereo, fltp, 75 kb/s"},
		{"awesome_widescreen.json", "Stream #0:1(und): Audio: aac (mp4a / 0x6134706d), 22050 Hz, mono, fltp, 31 kb/s"},
		{"bigbucksbunny.json", "Stream #0:1(eng): Audio: aac (mp4a / 0x6134706d), 48000 Hz, 5.1, fltp, 428 kb/s"},
		{"sideways.json", "Stream #0:1(und): Audio: aac (mp4a / 0x6134706d), 44100 Hz, mono, fltp, 62 kb/s"},
		{"weird_aspect.json", "Stream #0:1[0x1c0]: Audio: mp2, 44100 Hz, stereo, s16p, 224 kb/s"},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			container := parseFixture(t, tt.fixture)
			if len(container.Audio) == 0 {
				t.Fatalf("expected an audio stream")
			}
			if got := container.Audio[0].String(); got != tt.want {
				t.Fatalf("String() =\n  %q\nwant\n  %q", got, tt.want)
			}
		})
	}
}

func TestStringWithoutLanguageFallsBackToUnd(t *testing.T) {
	entry := streamEntry(t, "awesome_movie.json", 0)
	delete(entry, "tags")
	stream, err := NewAudioStream(entry)
	if err != nil {
		t.Fatalf("NewAudioStream returned error: %v", err)
	}
	want := "Stream #0:0(und): Audio: aac (mp4a / 0x6134706d), 44100 Hz, stereo, fltp, 75 kb/s"
	if got := stream.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestStringOmitsAspectBracketWhenEitherRatioUndetermined(t *testing.T) {
	for _, ratios := range [][2]string{{"0:1", "4:3"}, {"1:1", "0:1"}, {"", "4:3"}} {
		entry := streamEntry(t, "awesome_movie.json", 1)
		entry["sample_aspect_ratio"] = ratios[0]
		entry["display_aspect_ratio"] = ratios[1]
		stream, err := NewVideoStream(entry)
		if err != nil {
			t.Fatalf("NewVideoStream returned error: %v", err)
		}
		if got := stream.displayResolution(); got != "640x480" {
			t.Fatalf("displayResolution(%v) = %q, want 640x480", ratios, got)
		}
	}
}

func TestStringRendersZeroTimeBaseWithoutFailing(t *testing.T) {
	container := parseFixture(t, "metal_gear.json")
	want := "Stream #0:0(jpn): Video: h264, yuv420p, 1280x720, 0 kb/s, 29.97 fps, 29.97 tbr, 1k tbn, 0 tbc"
	if got := container.Video[0].String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
