package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"gapsplice/internal/config"
	"gapsplice/internal/history"
	"gapsplice/internal/preflight"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 20

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check folders, ffmpeg tools, and the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			writeSection(out, "Configuration", colorize)
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configPath, colorize))
			fmt.Fprintln(out, renderStatusLine("Timeline unit", statusInfo, cfg.Timeline.Unit, colorize))
			fmt.Fprintln(out, renderStatusLine("Require coverage", statusInfo, yesNo(cfg.Timeline.RequireCoverage), colorize))
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo, cfg.OutputPath(), colorize))

			writeSection(out, "Checks", colorize)
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, resultKind(r), r.Detail, colorize))
			}

			writeSection(out, "History", colorize)
			fmt.Fprintln(out, lastRunLine(cmd, cfg, colorize))

			return preflight.Err(results)
		},
	}
}

func lastRunLine(cmd *cobra.Command, cfg *config.Config, colorize bool) string {
	if !cfg.History.Enabled {
		return renderStatusLine("Last run", statusInfo, "history disabled", colorize)
	}
	store, err := openHistory(cfg)
	if err != nil {
		return renderStatusLine("Last run", statusWarn, err.Error(), colorize)
	}
	defer store.Close()
	runs, err := store.List(cmd.Context(), 1)
	if err != nil {
		return renderStatusLine("Last run", statusWarn, err.Error(), colorize)
	}
	if len(runs) == 0 {
		return renderStatusLine("Last run", statusInfo, "none recorded", colorize)
	}
	run := runs[0]
	kind := statusOK
	switch run.Status {
	case history.StatusRejected:
		kind = statusWarn
	case history.StatusFailed:
		kind = statusError
	case history.StatusRunning:
		kind = statusInfo
	}
	msg := fmt.Sprintf("%s %s at %s", shortID(run.ID), run.Status, run.StartedAt.Local().Format("2006-01-02 15:04"))
	return renderStatusLine("Last run", kind, msg, colorize)
}

func resultKind(r preflight.Result) statusKind {
	switch {
	case r.Passed:
		return statusOK
	case r.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := fmt.Sprintf("[%s]", statusKindLabel(kind))
	if message != "" {
		statusText += " " + message
	}
	base := fmt.Sprintf("  %-*s %s", statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	default:
		return ansiBlue
	}
}

func writeSection(out io.Writer, title string, colorize bool) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	if colorize {
		line = ansiBlue + line + ansiReset
	}
	fmt.Fprintln(out, line)
}
