// Package plan converts an assembled timeline into the media operations that
// produce the final program: pass-through primaries, filler trims written to
// the work directory, and one ordered concatenation.
package plan
