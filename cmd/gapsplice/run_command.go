package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gapsplice/internal/ffmpeg"
	"gapsplice/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var verbose bool
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile, trim fillers, and write the spliced program",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			signalCtx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			outcome, err := pipeline.Run(signalCtx, cfg, pipeline.Options{
				Verbose:       verbose,
				Stderr:        cmd.ErrOrStderr(),
				SkipPreflight: skipPreflight,
			})
			out := cmd.OutOrStdout()
			if outcome != nil {
				fmt.Fprintf(out, "Run ID: %s\n", outcome.RunID)
				if outcome.LogPath != "" {
					fmt.Fprintf(out, "Log: %s\n", outcome.LogPath)
				}
			}
			if err != nil {
				if outcome != nil && outcome.Status != "" {
					fmt.Fprintf(out, "Status: %s\n", outcome.Status)
				}
				var execErr *ffmpeg.ExecError
				if errors.As(err, &execErr) && execErr.Hint() != "" {
					fmt.Fprintf(out, "Hint: %s\n", execErr.Hint())
				}
				return err
			}

			rec := outcome.Reconciliation
			fmt.Fprintf(out, "Status: %s\n", outcome.Status)
			fmt.Fprintf(out, "Output: %s\n", outcome.Render.Output)
			fmt.Fprintf(out, "Program length: %s\n", formatSpan(rec.Unit, rec.Plan.Duration()))
			fmt.Fprintf(out, "Fillers trimmed: %d\n", outcome.Render.Trimmed)
			if outcome.Probed > 0 {
				fmt.Fprintf(out, "Verified length: %s\n", outcome.Probed)
			}
			if outcome.OutputBytes > 0 {
				fmt.Fprintf(out, "Output size: %d bytes\n", outcome.OutputBytes)
			}
			if len(outcome.Render.KeptWork) > 0 {
				fmt.Fprintf(out, "Kept work files: %d in %s\n", len(outcome.Render.KeptWork), cfg.Paths.WorkDir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Stream ffmpeg output to stderr")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip directory and binary checks")
	return cmd
}
