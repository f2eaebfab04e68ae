// Package timeline reconciles ordered primary clips with gap filler clips.
//
// Match pairs each primary with at most one filler from a Pool, and Assemble
// turns the interleaved result into a Timeline whose filler entries carry the
// trim Window that closes the gap to the next primary. Both operations are
// pure and deterministic; they perform no I/O.
//
// All segments passed to this package must share one coordinate system.
package timeline
