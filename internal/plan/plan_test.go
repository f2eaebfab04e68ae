package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapsplice/internal/segment"
	"gapsplice/internal/services"
	"gapsplice/internal/timeline"
)

func seg(role segment.Role, start, end int64) segment.Segment {
	dir := "/in/source"
	if role == segment.RoleFiller {
		dir = "/in/gap"
	}
	name := fmt.Sprintf("%d-%d", start, end)
	return segment.Segment{Path: filepath.Join(dir, name+".mp4"), Name: name, Ext: ".mp4", StartAt: start, EndAt: end, Role: role}
}

func build(t *testing.T, primaries, fillers []segment.Segment) Plan {
	t.Helper()
	slots := timeline.Match(segment.Order(primaries), timeline.NewPool(fillers))
	tl, err := timeline.Assemble(slots, timeline.AssembleOptions{RequireCoverage: true})
	require.NoError(t, err)
	p, err := Build(tl, Options{WorkDir: "/work", OutputPath: "/out/output.mp4"})
	require.NoError(t, err)
	return p
}

func TestBuildPassThroughOnly(t *testing.T) {
	p := build(t, []segment.Segment{seg(segment.RolePrimary, 0, 100), seg(segment.RolePrimary, 100, 200)}, nil)

	require.Len(t, p.Steps, 2)
	for _, step := range p.Steps {
		assert.Equal(t, KindPassThrough, step.Kind)
		assert.Equal(t, step.Source, step.Output)
	}
	assert.Equal(t, []string{"/in/source/0-100.mp4", "/in/source/100-200.mp4"}, p.Inputs())
	assert.Equal(t, "/out/output.mp4", p.Concat.Destination)
	assert.Empty(t, p.Trims())
	assert.Equal(t, int64(200), p.Duration())
}

func TestBuildTrimsFillerIntoWorkDir(t *testing.T) {
	p := build(t,
		[]segment.Segment{seg(segment.RolePrimary, 200, 300), seg(segment.RolePrimary, 0, 100)},
		[]segment.Segment{seg(segment.RoleFiller, 100, 500)},
	)

	require.Len(t, p.Steps, 3)
	trim := p.Steps[1]
	assert.Equal(t, Step{
		Kind:   KindTrim,
		Role:   "filler",
		Source: "/in/gap/100-500.mp4",
		Offset: 0,
		Length: 100,
		Output: "/work/100-500.mp4",
	}, trim)
	assert.Equal(t, []string{"/in/source/0-100.mp4", "/work/100-500.mp4", "/in/source/200-300.mp4"}, p.Inputs())
	assert.Equal(t, int64(300), p.Duration())
}

func TestBuildSkipsZeroLengthTrims(t *testing.T) {
	p := build(t,
		[]segment.Segment{seg(segment.RolePrimary, 0, 100), seg(segment.RolePrimary, 100, 200)},
		[]segment.Segment{seg(segment.RoleFiller, 50, 150), seg(segment.RoleFiller, 150, 400)},
	)
	assert.Empty(t, p.Trims())
	assert.Len(t, p.Inputs(), 2)
}

func TestBuildRejectsEmptyTimeline(t *testing.T) {
	_, err := Build(nil, Options{WorkDir: "/work", OutputPath: "/out/o.mp4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestBuildRejectsOutputOverInput(t *testing.T) {
	tl := timeline.Timeline{timeline.Primary{Segment: seg(segment.RolePrimary, 0, 100)}}
	_, err := Build(tl, Options{WorkDir: "/work", OutputPath: "/in/source/0-100.mp4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
}

func TestBuildRejectsRelativeOutputOverInput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	primary := segment.Segment{
		Path: filepath.Join(dir, "source", "0-100.mp4"), Name: "0-100", Ext: ".mp4",
		StartAt: 0, EndAt: 100, Role: segment.RolePrimary,
	}
	tl := timeline.Timeline{timeline.Primary{Segment: primary}}
	_, err := Build(tl, Options{WorkDir: filepath.Join(dir, "tmp"), OutputPath: "source/0-100.mp4"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
}

func TestInputsReturnsCopy(t *testing.T) {
	p := build(t, []segment.Segment{seg(segment.RolePrimary, 0, 100)}, nil)
	inputs := p.Inputs()
	inputs[0] = "mutated"
	assert.Equal(t, "/in/source/0-100.mp4", p.Inputs()[0])
}

func TestDurationMatchesSpan(t *testing.T) {
	tests := []struct {
		name      string
		primaries []segment.Segment
		fillers   []segment.Segment
	}{
		{
			name:      "contiguous",
			primaries: []segment.Segment{seg(segment.RolePrimary, 0, 50), seg(segment.RolePrimary, 50, 80)},
		},
		{
			name:      "two gaps",
			primaries: []segment.Segment{seg(segment.RolePrimary, 0, 100), seg(segment.RolePrimary, 150, 200), seg(segment.RolePrimary, 260, 300)},
			fillers:   []segment.Segment{seg(segment.RoleFiller, 90, 170), seg(segment.RoleFiller, 195, 400)},
		},
		{
			name:      "trailing filler",
			primaries: []segment.Segment{seg(segment.RolePrimary, 10, 20), seg(segment.RolePrimary, 30, 40)},
			fillers:   []segment.Segment{seg(segment.RoleFiller, 15, 35), seg(segment.RoleFiller, 35, 90)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := build(t, tt.primaries, tt.fillers)
			ordered := segment.Order(tt.primaries)
			want := ordered[len(ordered)-1].EndAt - ordered[0].StartAt
			assert.Equal(t, want, p.Duration())
		})
	}
}
