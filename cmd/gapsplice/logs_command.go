package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"gapsplice/internal/config"
	"gapsplice/internal/logging"
	"gapsplice/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs [run-id]",
		Short: "Print the log of the latest run, or of the given run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := resolveRunLog(cmd, cfg, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tail, offset, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			signalCtx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return logs.Follow(signalCtx, path, offset, 500*time.Millisecond, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to print")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as they are written")
	return cmd
}

// resolveRunLog maps an optional run id, or id prefix when history is
// enabled, to its log file.
func resolveRunLog(cmd *cobra.Command, cfg *config.Config, args []string) (string, error) {
	if len(args) == 0 {
		return logs.Latest(cfg.Paths.LogDir)
	}
	id := args[0]
	if cfg.History.Enabled {
		store, err := openHistory(cfg)
		if err != nil {
			return "", err
		}
		defer store.Close()
		run, err := findRun(cmd, store, id)
		if err != nil {
			return "", err
		}
		id = run.ID
	}
	return logging.RunLogPath(cfg, id), nil
}
