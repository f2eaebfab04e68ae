// Package ffmpeg builds and runs the stream-copy ffmpeg invocations a render
// needs.
//
// Builders return the full argument vector (binary first) so callers can log
// or dry-run a command without executing it. Runner executes them, capturing
// stderr, and satisfies render.Media.
package ffmpeg
