// Package probecache stores raw ffprobe output in SQLite.
//
// Entries are keyed by absolute path and invalidated by file size and
// modification time, so a hit is always the output ffprobe would print for
// the file as it is now. Maintenance (Prune, Clear) takes an exclusive file
// lock next to the database so concurrent CLI invocations do not race.
package probecache
