package ffmpeg

import (
	"fmt"
	"strconv"
	"time"
)

// Unit names the scale of filename timestamps.
type Unit string

const (
	Seconds      Unit = "s"
	Milliseconds Unit = "ms"
)

// ParseUnit accepts "s" or "ms".
func ParseUnit(value string) (Unit, error) {
	switch Unit(value) {
	case Seconds, Milliseconds:
		return Unit(value), nil
	default:
		return "", fmt.Errorf("unsupported timeline unit %q", value)
	}
}

// Duration converts a timeline value to a time.Duration.
func (u Unit) Duration(value int64) time.Duration {
	if u == Milliseconds {
		return time.Duration(value) * time.Millisecond
	}
	return time.Duration(value) * time.Second
}

// Timestamp formats a timeline value for ffmpeg's -ss and -t options.
func (u Unit) Timestamp(value int64) string {
	if u == Milliseconds {
		sign := ""
		if value < 0 {
			sign = "-"
			value = -value
		}
		return fmt.Sprintf("%s%d.%03d", sign, value/1000, value%1000)
	}
	return strconv.FormatInt(value, 10)
}
