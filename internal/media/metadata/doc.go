// Package metadata turns the JSON tree printed by ffprobe into typed stream
// and container records.
//
// Key types:
//   - Container: format level fields plus the video and audio streams
//   - VideoStream, AudioStream: per-stream records sharing the Stream base
//
// Primary entry point:
//   - Parse: builds a Container from a decoded probe tree and ffprobe's stderr
//
// Records are immutable after construction. String on a stream reproduces the
// line ffmpeg prints for it, for example
//
//	Stream #0:1(und): Video: h264 (Main) (avc1 / 0x31637661), yuv420p, 640x480 [SAR 1:1 DAR 4:3], 371 kb/s, 16.75 fps, 600 tbr, 600 tbn, 1200 tbc
package metadata
