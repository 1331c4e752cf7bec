// Package preflight provides readiness checks run before transcode and
// screenshot jobs.
//
// RunAll verifies the output directory is writable, that it has the
// configured free space, and that the binaries of the configured engine
// resolve. The CLI "deps" command uses CheckSystemDeps on its own.
package preflight
