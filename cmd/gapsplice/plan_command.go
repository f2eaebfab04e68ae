package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"gapsplice/internal/pipeline"
	"gapsplice/internal/plan"
	"gapsplice/internal/segment"
)

type planView struct {
	Unit           string            `json:"unit"`
	Steps          []plan.Step       `json:"steps"`
	Concat         plan.Concat       `json:"concat"`
	ProgramLength  int64             `json:"program_length"`
	ProgramSeconds float64           `json:"program_seconds"`
	Unused         []segment.Segment `json:"unused_fillers"`
	Gaps           []gapView         `json:"open_gaps"`
}

type gapView struct {
	After  string `json:"after"`
	Before string `json:"before"`
	Length int64  `json:"length"`
}

func newPlanView(rec *pipeline.Reconciliation) planView {
	view := planView{
		Unit:           string(rec.Unit),
		Steps:          rec.Plan.Steps,
		Concat:         rec.Plan.Concat,
		ProgramLength:  rec.Plan.Duration(),
		ProgramSeconds: rec.Unit.Duration(rec.Plan.Duration()).Seconds(),
		Unused:         rec.Unused,
		Gaps:           make([]gapView, 0, len(rec.Gaps)),
	}
	if view.Unused == nil {
		view.Unused = []segment.Segment{}
	}
	for _, g := range rec.Gaps {
		view.Gaps = append(view.Gaps, gapView{After: g.After.Path, Before: g.Before.Path, Length: g.Length()})
	}
	return view
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Reconcile the source and gap folders and print the plan",
		Long: "Scan the source and gap folders, match fillers to gaps, and print the\n" +
			"trim and concatenation steps a run would perform. Nothing is rendered.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rec, err := pipeline.Reconcile(cmd.Context(), cfg, ctx.consoleLogger())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, newPlanView(rec))
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(rec.Plan.Steps))
			for i, step := range rec.Plan.Steps {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					titleLabel(string(step.Kind)),
					filepath.Base(step.Source),
					strconv.FormatInt(step.Offset, 10),
					strconv.FormatInt(step.Length, 10),
					step.Output,
				})
			}
			footer := []string{"", "", "Total", "", strconv.FormatInt(rec.Plan.Duration(), 10), ""}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Step", "Clip", "Offset", "Length", "Concat Input"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				footer,
			))

			fmt.Fprintf(out, "Primaries: %d\n", len(rec.Primaries))
			fmt.Fprintf(out, "Fillers: %d matched, %d unused\n", rec.Matched(), len(rec.Unused))
			fmt.Fprintf(out, "Program length: %s\n", formatSpan(rec.Unit, rec.Plan.Duration()))
			fmt.Fprintf(out, "Output: %s\n", rec.Plan.Concat.Destination)
			for _, f := range rec.Unused {
				fmt.Fprintf(out, "Unused filler: %s\n", f.Path)
			}
			for _, g := range rec.Gaps {
				fmt.Fprintf(out, "Open gap: %s -> %s (%s)\n",
					filepath.Base(g.After.Path), filepath.Base(g.Before.Path), formatSpan(rec.Unit, g.Length()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the plan as JSON")
	return cmd
}
