package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"gapsplice/internal/fileutil"
	"gapsplice/internal/logging"
	"gapsplice/internal/plan"
	"gapsplice/internal/services"
)

// Media performs the external operations a plan needs.
type Media interface {
	Trim(ctx context.Context, src string, offset, length int64, dst string) error
	Concat(ctx context.Context, inputs []string, dst string) error
	Remux(ctx context.Context, src, dst string) error
}

// Options controls execution.
type Options struct {
	WorkDir       string
	Workers       int
	RemuxInputs   bool
	KeepWorkFiles bool
	Logger        *slog.Logger
}

// Result summarizes a finished render.
type Result struct {
	Output   string
	Trimmed  int
	Remuxed  int
	Copied   bool
	Elapsed  time.Duration
	Inputs   []string
	KeptWork []string
}

// Execute runs p. On error no file is left at the plan's destination path
// beyond what existed before the call.
func Execute(ctx context.Context, media Media, p plan.Plan, opts Options) (result Result, err error) {
	started := time.Now()
	logger := logging.NewComponentLogger(opts.Logger, "render")
	logger = logging.WithContext(ctx, logger)

	dst := p.Concat.Destination
	if dst == "" || len(p.Concat.Inputs) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, "render", "execute", "plan has no inputs or destination", nil)
	}
	if err := ensureDirs(opts.WorkDir, filepath.Dir(dst)); err != nil {
		return Result{}, err
	}

	var work []string
	result = Result{Output: dst}
	defer func() {
		if opts.KeepWorkFiles {
			result.KeptWork = work
			return
		}
		if rmErr := fileutil.RemoveFiles(work...); rmErr != nil {
			logging.WarnWithContext(logger, "work file cleanup failed", "work_cleanup_failed",
				logging.Error(rmErr),
				logging.String(logging.FieldImpact, "trimmed clips remain in work_dir"),
			)
		}
	}()

	trims := p.Trims()
	for _, step := range trims {
		work = append(work, step.Output)
	}
	if err := runTrims(ctx, media, trims, opts.Workers, logger); err != nil {
		return result, err
	}
	result.Trimmed = len(trims)

	inputs := p.Inputs()
	if opts.RemuxInputs {
		remuxed, err := remuxInputs(ctx, media, inputs, opts, filepath.Ext(dst), logger)
		work = append(work, remuxed...)
		if err != nil {
			return result, err
		}
		inputs = remuxed
		result.Remuxed = len(remuxed)
	}
	result.Inputs = inputs

	partial := filepath.Join(filepath.Dir(dst), ".partial-"+filepath.Base(dst))
	if err := assemble(ctx, media, inputs, partial, &result); err != nil {
		_ = fileutil.RemoveFiles(partial)
		return result, err
	}
	if err := fileutil.Publish(partial, dst); err != nil {
		_ = fileutil.RemoveFiles(partial)
		return result, services.Wrap(services.ErrConfiguration, "render", "publish", "move program into output_dir", err)
	}

	result.Elapsed = time.Since(started)
	logger.Info("program written",
		logging.String(logging.FieldEventType, "render_complete"),
		logging.String("output", dst),
		logging.Int("inputs", len(inputs)),
		logging.Int("trimmed", result.Trimmed),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func assemble(ctx context.Context, media Media, inputs []string, partial string, result *Result) error {
	if len(inputs) == 1 {
		if err := fileutil.CopyFileVerified(inputs[0], partial); err != nil {
			return services.Wrap(services.ErrExternalTool, "render", "copy", "copy single input", err)
		}
		result.Copied = true
		return nil
	}
	return media.Concat(ctx, inputs, partial)
}

func runTrims(ctx context.Context, media Media, trims []plan.Step, workers int, logger *slog.Logger) error {
	if len(trims) == 0 {
		return nil
	}
	var done atomic.Int32
	total := len(trims)
	return runPool(ctx, workers, len(trims), func(ctx context.Context, i int) error {
		step := trims[i]
		if err := media.Trim(ctx, step.Source, step.Offset, step.Length, step.Output); err != nil {
			return err
		}
		n := done.Add(1)
		logger.Info("filler trimmed",
			logging.String(logging.FieldEventType, "trim_complete"),
			logging.String("source", step.Source),
			logging.Int64("offset", step.Offset),
			logging.Int64("length", step.Length),
			logging.String("progress", fmt.Sprintf("%d/%d", n, total)),
		)
		return nil
	})
}

func remuxInputs(ctx context.Context, media Media, inputs []string, opts Options, ext string, logger *slog.Logger) ([]string, error) {
	outputs := make([]string, len(inputs))
	for i := range inputs {
		outputs[i] = filepath.Join(opts.WorkDir, "remux-"+strconv.Itoa(i)+ext)
	}
	err := runPool(ctx, opts.Workers, len(inputs), func(ctx context.Context, i int) error {
		return media.Remux(ctx, inputs[i], outputs[i])
	})
	if err != nil {
		return outputs, err
	}
	logger.Debug("inputs remuxed", logging.Int("count", len(outputs)))
	return outputs, nil
}

func ensureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrConfiguration, "render", "prepare", "create "+dir, err)
		}
	}
	return nil
}
