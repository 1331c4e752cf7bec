// Package rational implements the exact fractions ffprobe reports for frame
// rates and time bases.
//
// Values parse from "N/D" or bare integer strings and stay reduced. The
// literal "0/0" that ffprobe emits for unknown rates is accepted as-is; callers
// decide whether to Normalize it. DisplayString reproduces ffmpeg's console
// rendering of rates (16.75 fps, 600 tbr, 90k tbn).
package rational
