// Package ingest parses employee credential extracts (CSV) into domain records.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"loginrecon/internal/common"
	"loginrecon/internal/model"
)

// Required extract columns, by canonical name.
const (
	colEmpID    = "emp_id"
	colEmpType  = "emp_type"
	colDevLogin = "dev_login"
	colUATLogin = "uat_login"
	colStatus   = "status"
	colFlag     = "flag"
)

var requiredColumns = []string{colEmpID, colEmpType, colDevLogin, colUATLogin, colStatus, colFlag}

// headerAliases maps alternate spellings seen in real extracts to
// canonical column names. Matching is done on the folded header
// (lowercased, separators stripped), so "Emp ID", "emp-id" and "EMP_ID"
// all resolve the same way.
var headerAliases = map[string]string{
	"empid":        colEmpID,
	"employeeid":   colEmpID,
	"emptype":      colEmpType,
	"employeetype": colEmpType,
	"role":         colEmpType,
	"devlogin":     colDevLogin,
	"devloginid":   colDevLogin,
	"uatlogin":     colUATLogin,
	"uatloginid":   colUATLogin,
	"acclogin":     colUATLogin,
	"status":       colStatus,
	"empstatus":    colStatus,
	"flag":         colFlag,
	"compareflag":  colFlag,
}

// Values in login columns that mean "no login recorded". Legacy extracts
// round-trip through tooling that writes missing cells as NaN or NULL.
var missingLoginValues = map[string]bool{
	"":     true,
	"nan":  true,
	"null": true,
}

// Parser reads credential extract CSVs.
type Parser struct {
	now func() time.Time
}

// NewParser creates a new extract parser.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// ParseFile reads a full extract and returns its records. The header row
// is matched case- and separator-insensitively; extra columns are ignored
// and short rows are padded. A missing required column fails immediately
// with no partial output.
func (p *Parser) ParseFile(ctx context.Context, r io.Reader, source string) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read extract: %w", err)
	}

	decoded, encoding, err := decodeToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}
	if encoding != "utf-8" {
		slog.Debug("Decoded extract", "source", source, "encoding", encoding)
	}

	reader := csv.NewReader(strings.NewReader(string(decoded)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", common.ErrEmptyExtract, source)
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	importedAt := p.now()
	var records []model.Record
	rowNum := 1

	for {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		rowNum++
		if readErr != nil {
			slog.Warn("Skipping unparseable row", "source", source, "row", rowNum, "error", readErr)
			continue
		}

		rec := p.buildRecord(row, columns, source, importedAt)
		if rec == nil {
			continue
		}
		records = append(records, *rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrEmptyExtract, source)
	}

	return records, nil
}

// mapHeader resolves each required canonical column to its index in the
// header row.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		canonical, ok := canonicalColumn(h)
		if !ok {
			continue
		}
		if _, seen := columns[canonical]; !seen {
			columns[canonical] = i
		}
	}

	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, col)
		}
	}
	return columns, nil
}

func canonicalColumn(header string) (string, bool) {
	folded := strings.ToLower(strings.TrimSpace(header))
	folded = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(folded)
	if canonical, ok := headerAliases[folded]; ok {
		return canonical, true
	}
	return "", false
}

func (p *Parser) buildRecord(row []string, columns map[string]int, source string, importedAt time.Time) *model.Record {
	cell := func(col string) string {
		idx := columns[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rec := model.Record{
		EmpID:      cell(colEmpID),
		EmpType:    cell(colEmpType),
		DevLogin:   loginValue(cell(colDevLogin)),
		UATLogin:   loginValue(cell(colUATLogin)),
		Status:     cell(colStatus),
		Flag:       cell(colFlag),
		Source:     source,
		ImportedAt: importedAt,
	}

	// Rows with no employee identity at all are padding or totals lines.
	if rec.EmpID == "" && rec.EmpType == "" {
		return nil
	}

	rec.ID = rec.GenerateHash()
	return &rec
}

// loginValue turns a raw login cell into a value or nil-for-absent.
func loginValue(raw string) *string {
	if missingLoginValues[strings.ToLower(raw)] {
		return nil
	}
	return &raw
}
