package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gapsplice/internal/logging"
	"gapsplice/internal/services"
)

const waitDelay = 2 * time.Second

// Runner executes ffmpeg commands.
type Runner struct {
	Binary string
	Unit   Unit
	// Verbose tees ffmpeg stderr to Stderr while capturing it.
	Verbose bool
	Stderr  io.Writer
	Logger  *slog.Logger
}

// NewRunner returns a Runner with a component logger.
func NewRunner(binary string, unit Unit, logger *slog.Logger) *Runner {
	return &Runner{
		Binary: binary,
		Unit:   unit,
		Logger: logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// Trim copies the window [offset, offset+length) of src into dst.
func (r *Runner) Trim(ctx context.Context, src string, offset, length int64, dst string) error {
	return r.run(ctx, "trim", TrimArgs(r.Binary, r.Unit, src, offset, length, dst))
}

// Remux rewrites src into dst with stream copy.
func (r *Runner) Remux(ctx context.Context, src, dst string) error {
	return r.run(ctx, "remux", RemuxArgs(r.Binary, src, dst))
}

// Concat joins inputs in order into dst. The concat list is written next to
// dst and removed afterwards.
func (r *Runner) Concat(ctx context.Context, inputs []string, dst string) error {
	absInputs := make([]string, len(inputs))
	for i, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "render", "concat", "resolve input path", err)
		}
		absInputs[i] = abs
	}
	list, err := os.CreateTemp(filepath.Dir(dst), ".gapsplice-concat-*.txt")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "concat", "create concat list", err)
	}
	listPath := list.Name()
	_ = list.Close()
	defer func() { _ = os.Remove(listPath) }()

	if err := WriteConcatList(listPath, absInputs); err != nil {
		return services.Wrap(services.ErrConfiguration, "render", "concat", "", err)
	}
	return r.run(ctx, "concat", ConcatArgs(r.Binary, listPath, dst))
}

func (r *Runner) run(ctx context.Context, op string, args []string) error {
	logger := r.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithContext(ctx, logger)
	logger.Debug("ffmpeg command", logging.String("op", op), logging.String("command", strings.Join(args, " ")))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = waitDelay
	var stderrBuf bytes.Buffer
	if r.Verbose && r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	started := time.Now()
	err := cmd.Run()
	if err == nil {
		logger.Debug("ffmpeg finished", logging.String("op", op), logging.Duration("elapsed", time.Since(started)))
		return nil
	}

	execErr := &ExecError{Op: op, Args: args, Stderr: stderrBuf.String(), Err: err}
	if ctxErr := ctx.Err(); ctxErr != nil {
		marker := services.ErrExternalTool
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "render", op, "ffmpeg interrupted", errors.Join(ctxErr, execErr))
	}
	return services.Wrap(services.ErrExternalTool, "render", op, fmt.Sprintf("ffmpeg exited after %s", time.Since(started).Round(time.Millisecond)), execErr)
}
