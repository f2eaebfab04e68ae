package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"gapsplice/internal/config"
	"gapsplice/internal/ffmpeg"
	"gapsplice/internal/fileutil"
	"gapsplice/internal/history"
	"gapsplice/internal/logging"
	"gapsplice/internal/preflight"
	"gapsplice/internal/render"
	"gapsplice/internal/services"
)

// ErrLocked is returned when another run holds the work directory.
var ErrLocked = errors.New("another gapsplice run is using the work directory")

// Options tunes Run.
type Options struct {
	// Logger replaces the per-run logger built from cfg.
	Logger *slog.Logger
	// Verbose streams ffmpeg stderr to Stderr.
	Verbose bool
	Stderr  io.Writer
	// SkipPreflight bypasses directory and binary checks.
	SkipPreflight bool
}

// Outcome describes a finished run, successful or not.
type Outcome struct {
	RunID          string
	LogPath        string
	Reconciliation *Reconciliation
	Render         render.Result
	Probed         time.Duration
	OutputBytes    int64
	Status         history.Status
}

// Run executes one complete reconciliation and render.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Outcome, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "start", "config is required", nil)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "run", "prepare directories", "", err)
	}

	out := &Outcome{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, out.RunID)

	logger := opts.Logger
	if logger == nil {
		var err error
		logger, err = logging.NewFromConfig(cfg, out.RunID)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		out.LogPath = logging.RunLogPath(cfg, out.RunID)
	}
	logger = logging.WithContext(ctx, logger)

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return out, services.Wrap(services.ErrConfiguration, "run", "acquire lock", cfg.LockPath(), err)
	}
	if !ok {
		return out, services.Wrap(services.ErrTransient, "run", "acquire lock", cfg.LockPath(), ErrLocked)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release work directory lock", logging.Error(err))
		}
	}()

	ledger := openLedger(cfg, logger)
	record := &history.Run{
		ID:        out.RunID,
		SourceDir: cfg.Paths.SourceDir,
		FillerDir: cfg.Paths.FillerDir,
	}
	if ledger != nil {
		if err := ledger.Begin(ctx, record); err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_begin_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in gapsplice history"),
			)
			_ = ledger.Close()
			ledger = nil
		}
	}
	if ledger != nil {
		defer ledger.Close()
	}

	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("source_dir", cfg.Paths.SourceDir),
		logging.String("filler_dir", cfg.Paths.FillerDir),
		logging.String("output", cfg.OutputPath()),
	)
	runErr := execute(ctx, cfg, opts, logger, out)

	out.Status = history.StatusSucceeded
	if runErr != nil {
		out.Status = services.FailureStatus(runErr)
		record.ErrorMessage = runErr.Error()
	}
	fillRecord(record, out)
	if ledger != nil {
		// The run context may be cancelled; the ledger write must still land.
		if err := ledger.Finish(context.WithoutCancel(ctx), record); err != nil {
			logger.Warn("failed to record run outcome", logging.Error(err))
		}
	}

	if runErr != nil {
		attrs := []slog.Attr{
			logging.String("status", string(out.Status)),
			logging.Error(runErr),
		}
		var execErr *ffmpeg.ExecError
		if errors.As(runErr, &execErr) {
			attrs = append(attrs, logging.String("command", execErr.Command()))
			if hint := execErr.Hint(); hint != "" {
				attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
			}
		}
		logging.ErrorWithContext(logger, "run failed", "run_failed", attrs...)
	} else {
		logger.Info("run finished",
			logging.String(logging.FieldEventType, "run_finished"),
			logging.String("output", out.Render.Output),
			logging.Int64("output_bytes", out.OutputBytes),
			logging.Duration("elapsed", out.Render.Elapsed),
		)
	}
	pruneOld(ctx, cfg, ledger, logger, out.RunID)
	return out, runErr
}

func execute(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger, out *Outcome) error {
	if !opts.SkipPreflight {
		results := preflight.RunAll(logging.WithStage(ctx, "preflight"), cfg)
		if err := preflight.Err(results); err != nil {
			return err
		}
	}

	rec, err := Reconcile(logging.WithStage(ctx, "reconcile"), cfg, logger)
	if err != nil {
		return err
	}
	out.Reconciliation = rec

	renderCtx := logging.WithStage(ctx, "render")
	runner := ffmpeg.NewRunner(cfg.FFmpegBinary(), rec.Unit, logger)
	runner.Verbose = opts.Verbose
	runner.Stderr = opts.Stderr
	result, err := render.Execute(renderCtx, runner, rec.Plan, render.Options{
		WorkDir:       cfg.Paths.WorkDir,
		Workers:       cfg.Media.TrimWorkers,
		RemuxInputs:   cfg.Media.RemuxInputs,
		KeepWorkFiles: cfg.Media.KeepWorkFiles,
		Logger:        logger,
	})
	out.Render = result
	if err != nil {
		return err
	}

	if !cfg.Media.VerifyOutput {
		return nil
	}
	want := rec.Unit.Duration(rec.Plan.Duration())
	slack := time.Duration(cfg.Media.DurationSlackSeconds * float64(time.Second))
	probed, size, err := verifyOutput(logging.WithStage(ctx, "verify"), cfg.FFprobeBinary(), result.Output, want, slack)
	out.Probed = probed
	out.OutputBytes = size
	if err != nil {
		if rmErr := fileutil.RemoveFiles(result.Output); rmErr != nil {
			logger.Warn("failed to remove unverified output", logging.Error(rmErr))
		}
		return err
	}
	logger.Info("output verified",
		logging.String(logging.FieldEventType, "output_verified"),
		logging.Duration("probed", probed),
		logging.Duration("planned", want),
	)
	return nil
}

func openLedger(cfg *config.Config, logger *slog.Logger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in gapsplice history"),
		)
		return nil
	}
	return store
}

func fillRecord(record *history.Run, out *Outcome) {
	record.Status = out.Status
	if out.Render.Output != "" && out.Status == history.StatusSucceeded {
		record.OutputPath = out.Render.Output
	}
	rec := out.Reconciliation
	if rec == nil {
		return
	}
	record.PrimaryCount = len(rec.Primaries)
	record.FillerCount = len(rec.Fillers)
	record.MatchedCount = rec.Matched()
	record.OperationCount = len(rec.Plan.Steps) + 1
	record.ProgramLength = rec.Plan.Duration()
}

func pruneOld(ctx context.Context, cfg *config.Config, ledger *history.Store, logger *slog.Logger, runID string) {
	days := cfg.Logging.RetentionDays
	if days <= 0 {
		return
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, days, runID)
	if ledger == nil {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	if n, err := ledger.PruneBefore(context.WithoutCancel(ctx), cutoff); err != nil {
		logger.Warn("history prune failed", logging.Error(err))
	} else if n > 0 {
		logger.Info("history pruned", logging.Int64("runs", n), logging.String("ledger", filepath.Base(ledger.Path())))
	}
}
