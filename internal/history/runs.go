package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, status, started_at, finished_at, source_dir, filler_dir, primary_count, filler_count, matched_count, operation_count, program_length, output_path, error_message"

// Begin inserts a run in the running state. StartedAt defaults to now.
func (s *Store) Begin(ctx context.Context, run *Run) error {
	if run == nil || strings.TrimSpace(run.ID) == "" {
		return errors.New("history: run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = StatusRunning

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            id, status, started_at, source_dir, filler_dir
        ) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.Status,
		run.StartedAt.UTC().Format(timeLayout),
		run.SourceDir,
		run.FillerDir,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Finish records the final state of a run previously passed to Begin.
func (s *Store) Finish(ctx context.Context, run *Run) error {
	if run == nil || strings.TrimSpace(run.ID) == "" {
		return errors.New("history: run id is required")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if run.Status == "" || run.Status == StatusRunning {
		return fmt.Errorf("history: run %s finished without a final status", run.ID)
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs SET
            status = ?, finished_at = ?, primary_count = ?, filler_count = ?,
            matched_count = ?, operation_count = ?, program_length = ?,
            output_path = ?, error_message = ?
        WHERE id = ?`,
		run.Status,
		run.FinishedAt.UTC().Format(timeLayout),
		run.PrimaryCount,
		run.FillerCount,
		run.MatchedCount,
		run.OperationCount,
		run.ProgramLength,
		nullableString(run.OutputPath),
		nullableString(run.ErrorMessage),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("history: run %s not found", run.ID)
	}
	return nil
}

// Get returns the run with id, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs first. A limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// PruneBefore deletes runs that started before cutoff and reports how many
// rows were removed. Rows still marked running are included: a run that old
// was killed before it could record an outcome.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		"DELETE FROM runs WHERE started_at < ?",
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		statusStr   string
		startedRaw  string
		finishedRaw sql.NullString
		run         Run
		outputPath  sql.NullString
		errorMsg    sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&run.SourceDir,
		&run.FillerDir,
		&run.PrimaryCount,
		&run.FillerCount,
		&run.MatchedCount,
		&run.OperationCount,
		&run.ProgramLength,
		&outputPath,
		&errorMsg,
	); err != nil {
		return nil, err
	}
	run.ID = id
	run.Status = Status(statusStr)
	run.OutputPath = outputPath.String
	run.ErrorMessage = errorMsg.String
	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
