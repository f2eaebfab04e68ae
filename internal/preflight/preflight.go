package preflight

import (
	"context"
	"fmt"
	"strings"

	"gapsplice/internal/config"
	"gapsplice/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check for cfg. Work and output directories are
// created by config.EnsureDirectories before this runs.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Source directory", cfg.Paths.SourceDir, false),
		CheckDirectoryAccess("Gap directory", cfg.Paths.FillerDir, false),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir, true),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir, true),
	}
	return append(results, CheckMediaTools(ctx, cfg)...)
}

// Err returns an error describing every failed required check, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check", strings.Join(failed, "; "), nil)
}
