package timeline

import "gapsplice/internal/segment"

// Window is the sub-range of a segment's own footage that ends up in the
// program.
type Window struct {
	Offset int64 `json:"offset"`
	Length int64 `json:"length"`
}

// End returns Offset + Length.
func (w Window) End() int64 { return w.Offset + w.Length }

// Entry is one element of an assembled Timeline: a Primary or a Filler.
type Entry interface {
	Source() segment.Segment
	Window() Window
	entry()
}

// Primary is a recorded clip that always plays in full.
type Primary struct {
	segment.Segment
}

func (p Primary) Source() segment.Segment { return p.Segment }

// Window is always the identity window.
func (p Primary) Window() Window { return Window{Offset: 0, Length: p.Duration()} }

func (Primary) entry() {}

// Filler is a gap clip trimmed to Trim.
type Filler struct {
	segment.Segment
	Trim Window
}

func (f Filler) Source() segment.Segment { return f.Segment }

func (f Filler) Window() Window { return f.Trim }

func (Filler) entry() {}

// Timeline is the ordered program produced by Assemble.
type Timeline []Entry

// Duration sums the window lengths of every entry.
func (tl Timeline) Duration() int64 {
	var total int64
	for _, e := range tl {
		total += e.Window().Length
	}
	return total
}

// Span returns last primary end minus first primary start, or 0 when the
// timeline holds no primaries.
func (tl Timeline) Span() int64 {
	var first, last *segment.Segment
	for i := range tl {
		p, ok := tl[i].(Primary)
		if !ok {
			continue
		}
		seg := p.Segment
		if first == nil {
			first = &seg
		}
		last = &seg
	}
	if first == nil {
		return 0
	}
	return last.EndAt - first.StartAt
}

// Counts returns the number of primary and filler entries.
func (tl Timeline) Counts() (primaries, fillers int) {
	for _, e := range tl {
		switch e.(type) {
		case Primary:
			primaries++
		case Filler:
			fillers++
		}
	}
	return primaries, fillers
}

// Gap is a hole between two adjacent primaries that no filler covers.
type Gap struct {
	After  segment.Segment
	Before segment.Segment
}

// Length returns the uncovered time.
func (g Gap) Length() int64 { return g.Before.StartAt - g.After.EndAt }

// Gaps lists adjacent primary pairs separated by time with no filler between
// them. Such a timeline is valid but plays shorter than its span.
func (tl Timeline) Gaps() []Gap {
	var gaps []Gap
	for i := 1; i < len(tl); i++ {
		prev, ok := tl[i-1].(Primary)
		if !ok {
			continue
		}
		next, ok := tl[i].(Primary)
		if !ok {
			continue
		}
		if next.StartAt > prev.EndAt {
			gaps = append(gaps, Gap{After: prev.Segment, Before: next.Segment})
		}
	}
	return gaps
}
