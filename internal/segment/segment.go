package segment

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
)

// Role tells the timeline how a segment is treated.
type Role string

const (
	RolePrimary Role = "primary"
	RoleFiller  Role = "filler"
)

// Segment is one media file with a parsed time range. Segments are built by
// Scan and never modified afterwards.
type Segment struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Ext     string `json:"ext"`
	StartAt int64  `json:"start_at"`
	EndAt   int64  `json:"end_at"`
	Role    Role   `json:"role"`
}

// Duration returns EndAt - StartAt.
func (s Segment) Duration() int64 {
	return s.EndAt - s.StartAt
}

// FileName returns the segment's base name including extension.
func (s Segment) FileName() string {
	return s.Name + s.Ext
}

func (s Segment) String() string {
	return fmt.Sprintf("%s %s [%d,%d)", s.Role, s.FileName(), s.StartAt, s.EndAt)
}

var namePattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// ParseName parses a base name without extension such as "1000-2000".
// ok is false when the name does not follow the pattern or a bound
// overflows int64.
func ParseName(name string) (start, end int64, ok bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// Order returns a copy of segments sorted by StartAt. Equal start times keep
// their input order.
func Order(segments []Segment) []Segment {
	ordered := slices.Clone(segments)
	slices.SortStableFunc(ordered, func(a, b Segment) int {
		switch {
		case a.StartAt < b.StartAt:
			return -1
		case a.StartAt > b.StartAt:
			return 1
		default:
			return 0
		}
	})
	return ordered
}
