package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gapsplice/internal/fileutil"
	"gapsplice/internal/services"
	"gapsplice/internal/timeline"
)

// Kind identifies a plan step.
type Kind string

const (
	KindPassThrough Kind = "pass_through"
	KindTrim        Kind = "trim"
)

// Step is one program segment. Output is the file that feeds the
// concatenation: the source itself for pass-through steps, the trimmed copy
// for trims.
type Step struct {
	Kind   Kind   `json:"kind"`
	Role   string `json:"role"`
	Source string `json:"source"`
	Offset int64  `json:"offset"`
	Length int64  `json:"length"`
	Output string `json:"output"`
}

// Concat joins Inputs in order into Destination.
type Concat struct {
	Inputs      []string `json:"inputs"`
	Destination string   `json:"destination"`
}

// Plan is the ordered work for one run.
type Plan struct {
	Steps  []Step `json:"steps"`
	Concat Concat `json:"concat"`
}

// Options locates plan outputs.
type Options struct {
	// WorkDir receives trimmed filler copies.
	WorkDir string
	// OutputPath is the final program file.
	OutputPath string
}

var errEmptyTimeline = errors.New("timeline has no playable segments")

// Build emits a step per timeline entry, skipping zero-length filler
// windows, followed by a concatenation of every step output.
func Build(tl timeline.Timeline, opts Options) (Plan, error) {
	if strings.TrimSpace(opts.OutputPath) == "" {
		return Plan{}, services.Wrap(services.ErrConfiguration, "plan", "build", "output path is required", nil)
	}
	var p Plan
	for _, entry := range tl {
		src := entry.Source()
		win := entry.Window()
		switch e := entry.(type) {
		case timeline.Primary:
			p.Steps = append(p.Steps, Step{
				Kind:   KindPassThrough,
				Role:   string(e.Role),
				Source: src.Path,
				Offset: 0,
				Length: win.Length,
				Output: src.Path,
			})
		case timeline.Filler:
			if win.Length == 0 {
				continue
			}
			if strings.TrimSpace(opts.WorkDir) == "" {
				return Plan{}, services.Wrap(services.ErrConfiguration, "plan", "build", "work directory is required for trims", nil)
			}
			p.Steps = append(p.Steps, Step{
				Kind:   KindTrim,
				Role:   string(e.Role),
				Source: src.Path,
				Offset: win.Offset,
				Length: win.Length,
				Output: filepath.Join(opts.WorkDir, src.FileName()),
			})
		default:
			return Plan{}, fmt.Errorf("plan: unsupported timeline entry %T", entry)
		}
	}
	if len(p.Steps) == 0 {
		return Plan{}, services.Wrap(services.ErrValidation, "plan", "build", "", errEmptyTimeline)
	}

	out := filepath.Clean(opts.OutputPath)
	p.Concat.Destination = out
	p.Concat.Inputs = make([]string, 0, len(p.Steps))
	for _, step := range p.Steps {
		if fileutil.SameFile(step.Output, out) || fileutil.SameFile(step.Source, out) {
			return Plan{}, services.Wrap(services.ErrConfiguration, "plan", "build",
				fmt.Sprintf("output %s would overwrite input %s", out, step.Source), nil)
		}
		p.Concat.Inputs = append(p.Concat.Inputs, step.Output)
	}
	return p, nil
}

// Inputs returns the concatenation inputs in program order.
func (p Plan) Inputs() []string {
	return append([]string(nil), p.Concat.Inputs...)
}

// Trims returns the trim steps in program order.
func (p Plan) Trims() []Step {
	var trims []Step
	for _, step := range p.Steps {
		if step.Kind == KindTrim {
			trims = append(trims, step)
		}
	}
	return trims
}

// Duration is the total program length in timeline units.
func (p Plan) Duration() int64 {
	var total int64
	for _, step := range p.Steps {
		total += step.Length
	}
	return total
}
