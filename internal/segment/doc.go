// Package segment discovers time-ranged media clips on disk.
//
// A clip's time range is encoded in its file name as "<start>-<end>.<ext>"
// (for example 1000-2000.mp4). Both integers live on one timeline shared by
// every directory that is scanned together, so primary and filler clips can
// be compared directly. Scan reads a directory and returns typed Segment
// records; Order sorts primaries for the timeline package.
package segment
