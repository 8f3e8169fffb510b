package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"loginrecon/internal/model"
	"loginrecon/internal/service"
)

// SaveRecords saves multiple records to the database. Records whose
// content hash is already present are left untouched, making re-imports
// idempotent.
func (s *SQLiteStorage) SaveRecords(ctx context.Context, records []model.Record) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO records (
			id, emp_id, emp_type, dev_login, uat_login, status, flag, source, imported_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		if rec.ID == "" {
			rec.ID = rec.GenerateHash()
		}
		_, err = stmt.ExecContext(ctx,
			rec.ID,
			rec.EmpID,
			rec.EmpType,
			nullableString(rec.DevLogin),
			nullableString(rec.UATLogin),
			rec.Status,
			rec.Flag,
			rec.Source,
			rec.ImportedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// GetRecords returns stored records matching the filter. Records of the
// same group are returned adjacent so callers can reason about groups in
// one pass, though the eligibility computation does not rely on it.
func (s *SQLiteStorage) GetRecords(ctx context.Context, filter service.RecordFilter) ([]model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, emp_id, emp_type, dev_login, uat_login, status, flag, source, imported_at
		FROM records
	`
	var conditions []string
	var args []any

	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, filter.Source)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY emp_id, emp_type"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var devLogin, uatLogin, source sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.EmpID,
			&rec.EmpType,
			&devLogin,
			&uatLogin,
			&rec.Status,
			&rec.Flag,
			&source,
			&rec.ImportedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.DevLogin = stringPtr(devLogin)
		rec.UATLogin = stringPtr(uatLogin)
		rec.Source = source.String
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

// CountRecords returns the number of stored records.
func (s *SQLiteStorage) CountRecords(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
