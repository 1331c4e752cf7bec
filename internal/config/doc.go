// Package config loads, normalizes, and validates mediaprobe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MEDIAPROBE_FFMPEG and
// MEDIAPROBE_FFPROBE environment overrides. Binary locations and logging
// settings travel through Config instead of process-wide state, so every
// caller receives the same sanitized values.
package config
