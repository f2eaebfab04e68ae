// Package render executes a plan against a Media backend.
//
// Trims run first on a bounded set of workers, then inputs are optionally
// remuxed, then everything is concatenated into a hidden partial file that is
// published to the final output path only when every step succeeded. Work
// files are removed afterwards unless the caller asks to keep them.
package render
