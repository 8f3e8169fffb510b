package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loginrecon/internal/common"
	"loginrecon/internal/model"
)

// SaveRun persists a reconciliation run together with its classified rows
// in a single transaction. The run's ID is populated on success.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.ReconRun, results []model.ReconciledRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO recon_runs (
			started_at, completed_at, source,
			total_records, total_groups, eligible_groups,
			full_matches, partial_matches, no_matches
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.StartedAt,
		run.CompletedAt,
		run.Source,
		run.TotalRecords,
		run.TotalGroups,
		run.EligibleGroups,
		run.FullMatches,
		run.PartialMatches,
		run.NoMatches,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recon_results (
			run_id, emp_id, emp_type, dev_login, uat_login, status, flag, match_type
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, result := range results {
		_, err = stmt.ExecContext(ctx,
			runID,
			result.EmpID,
			result.EmpType,
			nullableString(result.DevLogin),
			nullableString(result.UATLogin),
			result.Status,
			result.Flag,
			string(result.MatchType),
		)
		if err != nil {
			return fmt.Errorf("failed to insert result for %s/%s: %w", result.EmpID, result.EmpType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	run.ID = runID
	return nil
}

// GetRun returns one reconciliation run by ID. Returns ErrNotFound when no
// run has that ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id int64) (*model.ReconRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, runSelect+" WHERE id = ?", id)
	run, err := scanRunRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: run %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return run, nil
}

// GetLatestRun returns the most recently completed run. Returns ErrNoRuns
// when nothing has been recorded yet.
func (s *SQLiteStorage) GetLatestRun(ctx context.Context) (*model.ReconRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, runSelect+" ORDER BY id DESC LIMIT 1")
	run, err := scanRunRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNoRuns
		}
		return nil, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.ReconRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, runSelect+" ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.ReconRun
	for rows.Next() {
		run, scanErr := scanRunRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetResults returns the classified rows of one run.
func (s *SQLiteStorage) GetResults(ctx context.Context, runID int64) ([]model.ReconciledRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT emp_id, emp_type, dev_login, uat_login, status, flag, match_type
		FROM recon_results
		WHERE run_id = ?
		ORDER BY emp_id, emp_type
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.ReconciledRecord
	for rows.Next() {
		var result model.ReconciledRecord
		var devLogin, uatLogin sql.NullString
		var matchType string
		if err := rows.Scan(
			&result.EmpID,
			&result.EmpType,
			&devLogin,
			&uatLogin,
			&result.Status,
			&result.Flag,
			&matchType,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result.DevLogin = stringPtr(devLogin)
		result.UATLogin = stringPtr(uatLogin)
		result.MatchType = model.MatchType(matchType)
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return results, nil
}

const runSelect = `
	SELECT id, started_at, completed_at, source,
		total_records, total_groups, eligible_groups,
		full_matches, partial_matches, no_matches
	FROM recon_runs
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunRow(scanner rowScanner) (*model.ReconRun, error) {
	var run model.ReconRun
	var source sql.NullString
	err := scanner.Scan(
		&run.ID,
		&run.StartedAt,
		&run.CompletedAt,
		&source,
		&run.TotalRecords,
		&run.TotalGroups,
		&run.EligibleGroups,
		&run.FullMatches,
		&run.PartialMatches,
		&run.NoMatches,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Source = source.String
	return &run, nil
}
