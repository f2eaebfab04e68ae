// Package logs reads the per-run log files written by gapsplice run.
//
// Latest finds the newest run log in a directory, Tail returns the last lines
// of a file with bounded memory, and Follow polls a file from an offset and
// hands each new line to a callback until the context is cancelled. The
// `gapsplice logs` command is built on these helpers.
package logs
