package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"gapsplice/internal/config"
	"gapsplice/internal/ffmpeg"
	"gapsplice/internal/logging"
	"gapsplice/internal/plan"
	"gapsplice/internal/segment"
	"gapsplice/internal/services"
	"gapsplice/internal/timeline"
)

// Reconciliation is everything the core derived from one directory snapshot.
type Reconciliation struct {
	Unit      ffmpeg.Unit
	Primaries []segment.Segment
	Fillers   []segment.Segment
	Unused    []segment.Segment
	Timeline  timeline.Timeline
	Gaps      []timeline.Gap
	Plan      plan.Plan
}

// Matched returns how many fillers were placed in the timeline.
func (r *Reconciliation) Matched() int {
	_, fillers := r.Timeline.Counts()
	return fillers
}

// ProgramDuration converts the plan length to wall-clock time.
func (r *Reconciliation) ProgramDuration() string {
	return r.Unit.Duration(r.Plan.Duration()).String()
}

// Reconcile scans cfg's source and gap directories and builds the plan.
// It performs no media operations.
func Reconcile(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Reconciliation, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "reconcile", "start", "config is required", nil)
	}
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "reconcile"))

	unit, err := ffmpeg.ParseUnit(cfg.Timeline.Unit)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "reconcile", "timeline unit", "", err)
	}

	scanOpts := segment.ScanOptions{
		Extensions: cfg.Timeline.Extensions,
		Skipped: func(name, reason string) {
			logger.Debug("entry skipped", logging.String("name", name), logging.String("reason", reason))
		},
	}
	primaries, err := segment.Scan(cfg.Paths.SourceDir, segment.RolePrimary, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	fillers, err := segment.Scan(cfg.Paths.FillerDir, segment.RoleFiller, scanOpts)
	if err != nil {
		return nil, fmt.Errorf("scan gap fillers: %w", err)
	}
	if len(primaries) == 0 {
		return nil, services.Wrap(services.ErrValidation, "reconcile", "scan",
			fmt.Sprintf("no <start>-<end> clips found in %s", cfg.Paths.SourceDir), nil)
	}
	logger.Info("segments discovered",
		logging.String(logging.FieldEventType, "segments_discovered"),
		logging.Int("primaries", len(primaries)),
		logging.Int("fillers", len(fillers)),
	)

	ordered := segment.Order(primaries)
	pool := timeline.NewPool(fillers)
	slots := timeline.Match(ordered, pool)
	unused := pool.Remaining()
	for _, f := range unused {
		logger.Info("filler not matched",
			logging.String(logging.FieldEventType, "filler_unused"),
			logging.String("path", f.Path),
		)
	}

	tl, err := timeline.Assemble(slots, timeline.AssembleOptions{RequireCoverage: cfg.Timeline.RequireCoverage})
	if err != nil {
		logging.ErrorWithContext(logger, "timeline rejected", "timeline_rejected",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "add a longer clip to the gap directory or set timeline.require_coverage = false"),
		)
		return nil, fmt.Errorf("assemble timeline: %w", err)
	}
	gaps := tl.Gaps()
	for _, g := range gaps {
		logging.WarnWithContext(logger, "gap left open", "gap_unfilled",
			logging.String("after", g.After.Path),
			logging.String("before", g.Before.Path),
			logging.Int64("length", g.Length()),
			logging.String(logging.FieldErrorHint, "add a filler starting at or before "+fmt.Sprint(g.After.EndAt)),
			logging.String(logging.FieldImpact, "program jumps ahead at this point"),
		)
	}

	p, err := plan.Build(tl, plan.Options{WorkDir: cfg.Paths.WorkDir, OutputPath: cfg.OutputPath()})
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	logger.Info("plan built",
		logging.String(logging.FieldEventType, "plan_built"),
		logging.Int("steps", len(p.Steps)),
		logging.Int("trims", len(p.Trims())),
		logging.Int64("program_length", p.Duration()),
		logging.String("output", p.Concat.Destination),
	)

	return &Reconciliation{
		Unit:      unit,
		Primaries: ordered,
		Fillers:   fillers,
		Unused:    unused,
		Timeline:  tl,
		Gaps:      gaps,
		Plan:      p,
	}, nil
}
