package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RunLogPattern matches per-run log file names inside the log directory.
const RunLogPattern = "gapsplice-*.log"

func runLogName(runID string) string {
	return "gapsplice-" + runID + ".log"
}

// PruneRunLogs deletes run logs in dir last written more than retentionDays
// ago and returns how many were removed. The log of currentRunID is kept
// whatever its age. retentionDays <= 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, dir string, retentionDays int, currentRunID string) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, RunLogPattern))
	if err != nil {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	keep := ""
	if currentRunID != "" {
		keep = runLogName(currentRunID)
	}

	removed := 0
	for _, path := range matches {
		if filepath.Base(path) == keep {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old run log not removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check ownership of logging.log_dir"),
				String(FieldImpact, "the file stays on disk until the next run"),
			)
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Info("old run logs pruned",
			String(FieldEventType, "log_pruned"),
			Int("removed", removed),
			Int("retention_days", retentionDays),
		)
	}
	return removed
}
