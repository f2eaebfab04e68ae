package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"gapsplice/internal/config"
	"gapsplice/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is
// readable, and writable too when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if write {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckMediaTools reports ffmpeg and ffprobe availability as results.
func CheckMediaTools(ctx context.Context, cfg *config.Config) []Result {
	statuses := deps.CheckBinaries(deps.MediaRequirements(cfg))
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		result := Result{Name: status.Name, Optional: status.Optional}
		if !status.Available {
			result.Detail = status.Detail
			results = append(results, result)
			continue
		}
		result.Passed = true
		result.Detail = status.Path
		if version, err := deps.Version(ctx, status.Path); err == nil {
			result.Detail = version
		}
		results = append(results, result)
	}
	return results
}
