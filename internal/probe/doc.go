// Package probe answers "what is in this file" for the CLI.
//
// A Service checks that the file exists, consults the probe cache keyed on
// size and modification time, runs ffprobe with the configured timeout on a
// miss, and hands the output to metadata.Parse.
package probe
