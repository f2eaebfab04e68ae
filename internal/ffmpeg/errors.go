package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

const stderrTailLines = 8

// ExecError reports a failed ffmpeg invocation.
type ExecError struct {
	Op     string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("ffmpeg %s: %v", e.Op, e.Err)
	if tail := StderrTail(e.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// Command returns the invocation as a single shell-like line.
func (e *ExecError) Command() string {
	return strings.Join(e.Args, " ")
}

// Hint suggests a fix based on well-known stderr messages.
func (e *ExecError) Hint() string {
	return Hint(e.Stderr)
}

// StderrTail keeps the last few non-empty lines of ffmpeg output.
func StderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	kept := make([]string, 0, stderrTailLines)
	for i := len(lines) - 1; i >= 0 && len(kept) < stderrTailLines; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			kept = append(kept, line)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, " | ")
}

var (
	reMissingInput = regexp.MustCompile(`(?i)No such file or directory`)
	reInvalidData  = regexp.MustCompile(`(?i)Invalid data found when processing input|moov atom not found`)
	rePermission   = regexp.MustCompile(`(?i)Permission denied`)
	reConcatMix    = regexp.MustCompile(`(?i)Non-monotonous DTS|Codec .* is not supported|Could not find tag for codec|Unsafe file name`)
)

// Hint maps stderr to an operator hint; empty when nothing is recognised.
func Hint(stderr string) string {
	switch {
	case reMissingInput.MatchString(stderr):
		return "an input clip disappeared during the run; rescan the source and gap directories"
	case reInvalidData.MatchString(stderr):
		return "an input clip is truncated or not a media file; check it with ffprobe"
	case rePermission.MatchString(stderr):
		return "check permissions on work_dir and output_dir"
	case reConcatMix.MatchString(stderr):
		return "clips use different codecs or timestamps; enable media.remux_inputs or re-encode them first"
	default:
		return ""
	}
}
