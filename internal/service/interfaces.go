// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"loginrecon/internal/model"
)

// RecordFilter defines filtering options for record queries.
type RecordFilter struct {
	Source string // restrict to records imported from this extract file
	Limit  int
	Offset int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Record operations
	SaveRecords(ctx context.Context, records []model.Record) error
	GetRecords(ctx context.Context, filter RecordFilter) ([]model.Record, error)
	CountRecords(ctx context.Context) (int, error)

	// Reconciliation run operations
	SaveRun(ctx context.Context, run *model.ReconRun, results []model.ReconciledRecord) error
	GetRun(ctx context.Context, id int64) (*model.ReconRun, error)
	GetLatestRun(ctx context.Context) (*model.ReconRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.ReconRun, error)
	GetResults(ctx context.Context, runID int64) ([]model.ReconciledRecord, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// ReportWriter exports a completed reconciliation run to an external
// destination (CSV file, Google Sheets, ...).
type ReportWriter interface {
	Write(ctx context.Context, run *model.ReconRun, results []model.ReconciledRecord) error
}

// RetryOptions configures retry behavior for external service calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
