package timeline

import (
	"fmt"

	"gapsplice/internal/segment"
	"gapsplice/internal/services"
)

// AssembleOptions tunes validation.
type AssembleOptions struct {
	// RequireCoverage also rejects a filler whose own footage ends before the
	// end of its computed window.
	RequireCoverage bool
}

// InsufficientFillerError names the filler that cannot bridge the gap
// between Previous and Next.
type InsufficientFillerError struct {
	Previous *segment.Segment
	Filler   segment.Segment
	Next     segment.Segment
	Window   Window
	// Reach is where the trimmed filler ends on the shared timeline.
	Reach int64
	// Short is true when the window itself reaches Next but the filler's
	// footage ends before the window does.
	Short bool
}

func (e *InsufficientFillerError) Error() string {
	prev := "<none>"
	if e.Previous != nil {
		prev = e.Previous.Path
	}
	if e.Short {
		return fmt.Sprintf("filler %s ends at %d but must supply footage until %d to bridge %s -> %s",
			e.Filler.Path, e.Filler.EndAt, e.Reach, prev, e.Next.Path)
	}
	return fmt.Sprintf("filler %s reaches %d, short of %s starting at %d (previous %s)",
		e.Filler.Path, e.Reach, e.Next.Path, e.Next.StartAt, prev)
}

func (e *InsufficientFillerError) Unwrap() error {
	return services.ErrValidation
}

// Assemble computes trim windows for the interleaved slots produced by Match
// and validates continuity. Any failure rejects the whole timeline.
func Assemble(slots []segment.Segment, opts AssembleOptions) (Timeline, error) {
	tl := make(Timeline, 0, len(slots))
	for i, seg := range slots {
		if seg.Role != segment.RoleFiller {
			tl = append(tl, Primary{Segment: seg})
			continue
		}

		var prev, next *segment.Segment
		if i > 0 {
			prev = &slots[i-1]
		}
		if i+1 < len(slots) {
			next = &slots[i+1]
		}

		win := fillerWindow(seg, prev, next)
		if next != nil {
			reach := seg.StartAt + win.End()
			if reach < next.StartAt {
				return nil, &InsufficientFillerError{Previous: copySegment(prev), Filler: seg, Next: *next, Window: win, Reach: reach}
			}
			if opts.RequireCoverage && reach > seg.EndAt {
				return nil, &InsufficientFillerError{Previous: copySegment(prev), Filler: seg, Next: *next, Window: win, Reach: reach, Short: true}
			}
		}
		tl = append(tl, Filler{Segment: seg, Trim: win})
	}
	return tl, nil
}

func fillerWindow(f segment.Segment, prev, next *segment.Segment) Window {
	var win Window
	if prev != nil {
		win.Offset = abs(prev.EndAt - f.StartAt)
	}
	switch {
	case prev != nil && next != nil:
		win.Length = abs(next.StartAt - prev.EndAt)
	case next != nil:
		win.Length = abs(f.EndAt - next.StartAt)
	case prev == nil:
		win.Length = f.Duration()
	}
	return win
}

func copySegment(s *segment.Segment) *segment.Segment {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
