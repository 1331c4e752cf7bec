// Package ffprobe runs the ffprobe binary and decodes what it prints.
//
// Inspect executes ffprobe with JSON output for format, streams and errors and
// returns stdout and stderr untouched. Decode turns stdout into the generic
// map tree consumed by the metadata package, repairing ISO-8859-1 output on
// the way. ProcessError describes runs that could not produce a document.
package ffprobe
