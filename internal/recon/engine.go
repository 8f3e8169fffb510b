package recon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"loginrecon/internal/common"
	"loginrecon/internal/model"
	"loginrecon/internal/service"

	"github.com/schollz/progressbar/v3"
)

// Reconcile runs the full two-pass pipeline over an in-memory record set:
// pass 1 decides eligibility per group, pass 2 keeps records that are both
// in an eligible group and flagged for comparison, classifies each kept
// record's login pair, and projects it to the output shape. Records
// failing the filter are dropped from the output entirely. Pure; row order
// in the output follows input order but is not part of the contract.
func Reconcile(records []model.Record) []model.ReconciledRecord {
	return project(records, GroupEligibility(records), nil)
}

// project is the second pass: filter, classify, and shape each surviving
// record. visit, when non-nil, is invoked once per input record regardless
// of whether it survives the filter.
func project(records []model.Record, eligibility map[model.GroupKey]bool, visit func()) []model.ReconciledRecord {
	var results []model.ReconciledRecord
	for _, rec := range records {
		if visit != nil {
			visit()
		}
		if !eligibility[rec.Key()] || rec.Flag != model.FlagSelected {
			continue
		}
		results = append(results, model.ReconciledRecord{
			EmpID:     rec.EmpID,
			EmpType:   rec.EmpType,
			DevLogin:  rec.DevLogin,
			UATLogin:  rec.UATLogin,
			Status:    rec.Status,
			Flag:      rec.Flag,
			MatchType: ClassifyLogins(rec.DevLogin, rec.UATLogin),
		})
	}
	return results
}

// Engine orchestrates reconciliation over stored records and persists the
// outcome as a run.
type Engine struct {
	storage      service.Storage
	progressOut  io.Writer
	showProgress bool
}

// Config holds configuration options for the reconciliation engine.
type Config struct {
	ProgressOut  io.Writer
	ShowProgress bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ShowProgress: true,
		ProgressOut:  os.Stderr,
	}
}

// New creates a new reconciliation engine with the given storage.
func New(storage service.Storage) *Engine {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates a new reconciliation engine with custom configuration.
func NewWithConfig(storage service.Storage, config Config) *Engine {
	out := config.ProgressOut
	if out == nil {
		out = os.Stderr
	}
	return &Engine{
		storage:      storage,
		showProgress: config.ShowProgress,
		progressOut:  out,
	}
}

// RunOptions controls a single engine run.
type RunOptions struct {
	Source string // restrict to records from one extract file
	DryRun bool   // classify but do not persist the run
}

// Run loads records, reconciles them, and (unless dry-run) persists the
// run and its results. Returns the run summary and the classified rows.
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*model.ReconRun, []model.ReconciledRecord, error) {
	startedAt := time.Now()

	records, err := e.storage.GetRecords(ctx, service.RecordFilter{Source: opts.Source})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, common.ErrNoRecords
	}

	slog.Info("Loaded records for reconciliation",
		"count", len(records),
		"source", opts.Source)

	eligibility := GroupEligibility(records)
	eligibleGroups := 0
	for _, ok := range eligibility {
		if ok {
			eligibleGroups++
		}
	}

	var bar *progressbar.ProgressBar
	if e.showProgress {
		bar = e.newProgressBar(len(records))
	}

	run := &model.ReconRun{
		StartedAt:      startedAt,
		Source:         opts.Source,
		TotalRecords:   len(records),
		TotalGroups:    len(eligibility),
		EligibleGroups: eligibleGroups,
	}

	results := project(records, eligibility, func() {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	for _, result := range results {
		switch result.MatchType {
		case model.MatchFull:
			run.FullMatches++
		case model.MatchPartial:
			run.PartialMatches++
		case model.MatchNone:
			run.NoMatches++
		}
	}

	run.CompletedAt = time.Now()

	if opts.DryRun {
		slog.Info("Dry run, skipping persistence", "results", len(results))
		return run, results, nil
	}

	if err := e.storage.SaveRun(ctx, run, results); err != nil {
		return nil, nil, fmt.Errorf("failed to save reconciliation run: %w", err)
	}

	slog.Info("Reconciliation run complete",
		"run_id", run.ID,
		"records", run.TotalRecords,
		"groups", run.TotalGroups,
		"eligible_groups", run.EligibleGroups,
		"results", len(results))

	return run, results, nil
}

func (e *Engine) newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.progressOut),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Reconciling logins...[reset]"),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(e.progressOut)
		}),
	)
}
