// Package preflight checks the folders and ffmpeg tools a run depends on
// before any media work starts.
//
// The run command stops on the first failed required check; the status
// command prints every result.
package preflight
