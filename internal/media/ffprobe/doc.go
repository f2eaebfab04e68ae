// Package ffprobe reads container metadata from ffprobe's JSON output.
//
// Probe runs the binary and returns a Result; Result.Duration and
// Result.StreamCount answer the questions asked after a render: how long is
// the produced program and does it still carry video and audio.
package ffprobe
