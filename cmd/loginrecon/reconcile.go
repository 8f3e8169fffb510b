package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"loginrecon/internal/common"
	"loginrecon/internal/recon"
	"loginrecon/internal/report"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile imported credential records",
		Long: `Run the reconciliation pipeline over the imported records.

Records are grouped by (emp_id, emp_type). A group qualifies for comparison
when it contains both a Y-flagged and an N-flagged record and no terminated
record. Every qualifying Y-flagged record's login pair is then classified as
FULL_MATCH, PARTIAL_MATCH, or NO_MATCH, and the run is stored for reporting.

Examples:
  loginrecon reconcile                        # Reconcile all records
  loginrecon reconcile --source q3_creds.csv  # Only one extract
  loginrecon reconcile --dry-run              # Classify without persisting`,
		RunE: runReconcile,
	}

	cmd.Flags().StringP("source", "s", "", "Restrict to records imported from this extract file")
	cmd.Flags().Bool("dry-run", false, "Classify without saving the run")
	cmd.Flags().Bool("show-results", false, "Print the classified rows, not just the summary")

	_ = viper.BindPFlag("reconcile.source", cmd.Flags().Lookup("source"))
	_ = viper.BindPFlag("reconcile.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	source := viper.GetString("reconcile.source")
	dryRun := viper.GetBool("reconcile.dry_run")
	showResults, _ := cmd.Flags().GetBool("show-results")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	engine := recon.New(store)
	run, results, err := engine.Run(ctx, recon.RunOptions{
		Source: source,
		DryRun: dryRun,
	})
	if err != nil {
		if errors.Is(err, common.ErrNoRecords) {
			return fmt.Errorf("no records to reconcile - run 'loginrecon import' first")
		}
		return err
	}

	fmt.Println(report.RenderSummary(run))
	if showResults {
		fmt.Println()
		fmt.Println(report.RenderResults(results))
	}

	return nil
}
