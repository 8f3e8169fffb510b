// Package report renders and exports reconciliation results.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"loginrecon/internal/model"
)

// Output column order. match_type is always last.
var csvHeader = []string{"emp_id", "emp_type", "dev_login", "uat_login", "status", "flag", "match_type"}

// CSVWriter exports a run's results as a seven-column CSV file.
type CSVWriter struct {
	Path string
}

// Write implements the ReportWriter interface.
func (w *CSVWriter) Write(_ context.Context, _ *model.ReconRun, results []model.ReconciledRecord) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := writeCSV(f, results); err != nil {
		return err
	}
	return f.Close()
}

func writeCSV(out io.Writer, results []model.ReconciledRecord) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, result := range results {
		row := []string{
			result.EmpID,
			result.EmpType,
			loginCell(result.DevLogin),
			loginCell(result.UATLogin),
			result.Status,
			result.Flag,
			string(result.MatchType),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

// loginCell writes an absent login as an empty cell.
func loginCell(login *string) string {
	if login == nil {
		return ""
	}
	return *login
}
