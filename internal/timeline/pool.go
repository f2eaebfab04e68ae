package timeline

import (
	"slices"

	"gapsplice/internal/segment"
)

// Pool holds the fillers that have not been matched yet, in insertion order.
// A Pool is not safe for concurrent use.
type Pool struct {
	fillers []segment.Segment
}

// NewPool copies fillers into a new pool.
func NewPool(fillers []segment.Segment) *Pool {
	return &Pool{fillers: slices.Clone(fillers)}
}

// Len reports how many fillers are left.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.fillers)
}

// Remaining returns a copy of the unmatched fillers.
func (p *Pool) Remaining() []segment.Segment {
	if p == nil {
		return nil
	}
	return slices.Clone(p.fillers)
}

// take removes and returns the first filler accepted by match.
func (p *Pool) take(match func(segment.Segment) bool) (segment.Segment, bool) {
	if p == nil {
		return segment.Segment{}, false
	}
	for i, f := range p.fillers {
		if match(f) {
			p.fillers = slices.Delete(p.fillers, i, i+1)
			return f, true
		}
	}
	return segment.Segment{}, false
}

// Match walks ordered primaries and places after each one the first pooled
// filler that starts at or before that primary's end. Matched fillers leave
// the pool, so none is used twice. The first acceptable filler wins even when
// a later one would fit the gap better.
func Match(primaries []segment.Segment, pool *Pool) []segment.Segment {
	slots := make([]segment.Segment, 0, len(primaries)*2)
	for _, p := range primaries {
		slots = append(slots, p)
		filler, ok := pool.take(func(f segment.Segment) bool {
			return p.EndAt >= f.StartAt
		})
		if ok {
			slots = append(slots, filler)
		}
	}
	return slots
}
