package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"loginrecon/internal/ingest"
	"loginrecon/internal/model"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import credential extracts from CSV files",
		Long: `Import employee credential extracts (CSV) into the local database.

Each extract must carry the columns emp_id, emp_type, dev_login, uat_login,
status, and flag. Header matching is case-insensitive and extra columns are
ignored. Re-importing the same rows is a no-op: rows are deduplicated by
content, so a row that already exists keeps the source file it was first
imported from, even when it reappears in a later extract. Use
'reconcile' without --source to cover rows regardless of which file
supplied them.

Examples:
  # Import a single extract
  loginrecon import ~/extracts/q3_credentials.csv

  # Import everything in a directory
  loginrecon import ~/extracts/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Parse and report without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("Importing credential extracts",
		"file_count", len(allFiles),
		"dry_run", dryRun)

	parser := ingest.NewParser()
	seen := make(map[string]bool)
	var allRecords []model.Record

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		records, err := parser.ParseFile(ctx, f, filepath.Base(filePath))
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", filePath, err)
		}

		added := 0
		for _, rec := range records {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			allRecords = append(allRecords, rec)
			added++
		}

		slog.Info("Parsed extract",
			"file", filepath.Base(filePath),
			"rows", len(records),
			"new", added)
	}

	if len(allRecords) == 0 {
		return fmt.Errorf("no records found to import")
	}

	if dryRun {
		slog.Info("Dry run, nothing saved", "records", len(allRecords))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if err := store.SaveRecords(ctx, allRecords); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	total, err := store.CountRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	slog.Info("Import complete",
		"imported", len(allRecords),
		"total_in_database", total)

	return nil
}
