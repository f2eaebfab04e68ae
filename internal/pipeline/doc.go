// Package pipeline wires the reconciliation core to the filesystem, ffmpeg
// and the run ledger.
//
// Reconcile scans the configured directories and returns the validated
// timeline and plan without touching any media. Run performs a full run on
// top of it: it takes the work directory lock, checks prerequisites, renders
// the plan, verifies the output length with ffprobe, and records the outcome
// in history.
package pipeline
