// Package transcode turns a probed container into a transcode or screenshot job.
//
// Transcode and Screenshot validate the source, optionally recompute the
// target resolution from the source aspect ratio, and hand the job to a
// Runner. FFmpegRunner drives ffmpeg through the floostack transcoder
// library; DraptoRunner encodes AV1 in-process with drapto and cannot take
// screenshots.
package transcode
