// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Ingest errors.
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyExtract  = errors.New("extract contains no data rows")

	// Reconciliation errors.
	ErrNoRecords = errors.New("no records to reconcile")
	ErrNoRuns    = errors.New("no reconciliation runs recorded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)
