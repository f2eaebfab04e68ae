// Package history persists a ledger of completed gapsplice runs in SQLite.
//
// Each run records its identifier, timing, outcome, segment counts, program
// length, and output location. Only outcomes are stored: reconciliation
// state is rebuilt from the filesystem on every run, so the ledger is never
// consulted when planning.
package history
