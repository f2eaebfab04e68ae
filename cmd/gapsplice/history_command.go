package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"gapsplice/internal/config"
	"gapsplice/internal/history"
	"gapsplice/internal/services"
)

type runView struct {
	ID             string  `json:"id"`
	Status         string  `json:"status"`
	StartedAt      string  `json:"started_at"`
	FinishedAt     string  `json:"finished_at,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	SourceDir      string  `json:"source_dir"`
	FillerDir      string  `json:"filler_dir"`
	PrimaryCount   int     `json:"primary_count"`
	FillerCount    int     `json:"filler_count"`
	MatchedCount   int     `json:"matched_count"`
	OperationCount int     `json:"operation_count"`
	ProgramLength  int64   `json:"program_length"`
	OutputPath     string  `json:"output_path,omitempty"`
	Error          string  `json:"error,omitempty"`
}

func newRunView(run history.Run) runView {
	view := runView{
		ID:             run.ID,
		Status:         string(run.Status),
		StartedAt:      run.StartedAt.Format(time.RFC3339),
		ElapsedSeconds: run.Elapsed().Seconds(),
		SourceDir:      run.SourceDir,
		FillerDir:      run.FillerDir,
		PrimaryCount:   run.PrimaryCount,
		FillerCount:    run.FillerCount,
		MatchedCount:   run.MatchedCount,
		OperationCount: run.OperationCount,
		ProgramLength:  run.ProgramLength,
		OutputPath:     run.OutputPath,
		Error:          run.ErrorMessage,
	}
	if !run.FinishedAt.IsZero() {
		view.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return view
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, services.Wrap(services.ErrConfiguration, "history", "open", "run history is disabled (history.enabled = false)", nil)
	}
	return history.Open(cfg.HistoryPath())
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newRunView(run))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					titleLabel(string(run.Status)),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Elapsed().Round(time.Millisecond).String(),
					fmt.Sprintf("%d/%d", run.MatchedCount, run.FillerCount),
					strconv.FormatInt(run.ProgramLength, 10),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Status", "Started", "Elapsed", "Fillers Used", "Length"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				nil,
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output runs as JSON")

	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHistory(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := findRun(cmd, store, args[0])
			if err != nil {
				return err
			}
			view := newRunView(*run)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run: %s\n", view.ID)
			fmt.Fprintf(out, "Status: %s\n", titleLabel(view.Status))
			fmt.Fprintf(out, "Started: %s\n", view.StartedAt)
			if view.FinishedAt != "" {
				fmt.Fprintf(out, "Finished: %s\n", view.FinishedAt)
			}
			fmt.Fprintf(out, "Source: %s\n", view.SourceDir)
			fmt.Fprintf(out, "Filler: %s\n", view.FillerDir)
			fmt.Fprintf(out, "Primaries: %d\n", view.PrimaryCount)
			fmt.Fprintf(out, "Fillers: %d matched of %d\n", view.MatchedCount, view.FillerCount)
			fmt.Fprintf(out, "Operations: %d\n", view.OperationCount)
			fmt.Fprintf(out, "Program length: %d\n", view.ProgramLength)
			if view.OutputPath != "" {
				fmt.Fprintf(out, "Output: %s\n", view.OutputPath)
			}
			if view.Error != "" {
				fmt.Fprintf(out, "Error: %s\n", view.Error)
			}
			return nil
		},
	}
}

// findRun resolves a full id or the 8-character prefix shown by history.
func findRun(cmd *cobra.Command, store *history.Store, id string) (*history.Run, error) {
	run, err := store.Get(cmd.Context(), id)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}
	runs, err := store.List(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *history.Run
	for i := range runs {
		if len(id) >= 4 && len(runs[i].ID) >= len(id) && runs[i].ID[:len(id)] == id {
			if match != nil {
				return nil, services.Wrap(services.ErrValidation, "history", "show", "run id prefix "+id+" is ambiguous", nil)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, services.Wrap(services.ErrNotFound, "history", "show", "run "+id, errors.New("no such run"))
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
