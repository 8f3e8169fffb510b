package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"loginrecon/internal/model"
	"loginrecon/internal/report"
	"loginrecon/internal/service"
	"loginrecon/internal/sheets"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show or export a reconciliation run",
		Long: `Show the latest reconciliation run (or a specific one with --run) and
optionally export its classified rows.

Examples:
  loginrecon report                    # Summary of the latest run
  loginrecon report --results          # Include the result table
  loginrecon report --run 3            # A specific run
  loginrecon report --csv results.csv  # Export to CSV
  loginrecon report --sheets           # Export to Google Sheets`,
		RunE: runReport,
	}

	cmd.Flags().Int64("run", 0, "Run ID to report on (0 = latest)")
	cmd.Flags().Bool("results", false, "Print the classified rows")
	cmd.Flags().String("csv", "", "Export the result set to this CSV file")
	cmd.Flags().Bool("sheets", false, "Export the result set to Google Sheets")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	runID, _ := cmd.Flags().GetInt64("run")
	showResults, _ := cmd.Flags().GetBool("results")
	csvPath, _ := cmd.Flags().GetString("csv")
	toSheets, _ := cmd.Flags().GetBool("sheets")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	var run *model.ReconRun
	if runID > 0 {
		run, err = store.GetRun(ctx, runID)
	} else {
		run, err = store.GetLatestRun(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}

	results, err := store.GetResults(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	fmt.Println(report.RenderSummary(run))
	if showResults {
		fmt.Println()
		fmt.Println(report.RenderResults(results))
	}

	var writers []service.ReportWriter
	if csvPath != "" {
		writers = append(writers, &report.CSVWriter{Path: csvPath})
	}
	if toSheets {
		config := sheets.DefaultConfig()
		if envErr := config.LoadFromEnv(); envErr != nil {
			return fmt.Errorf("sheets export not configured: %w", envErr)
		}
		writer, sheetsErr := sheets.NewWriter(ctx, config)
		if sheetsErr != nil {
			return fmt.Errorf("failed to initialize sheets writer: %w", sheetsErr)
		}
		writers = append(writers, writer)
	}

	for _, writer := range writers {
		if err := writer.Write(ctx, run, results); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	if csvPath != "" {
		slog.Info("Exported results", "path", csvPath, "rows", len(results))
	}

	return nil
}
