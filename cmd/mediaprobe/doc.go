// Command mediaprobe inspects media files with ffprobe and runs transcode
// and screenshot jobs with ffmpeg or drapto.
package main
