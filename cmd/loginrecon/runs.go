package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"loginrecon/internal/cli"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past reconciliation runs",
		RunE:  runRuns,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println(cli.SubtleStyle.Render("no reconciliation runs recorded yet"))
		return nil
	}

	fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf("%-5s %-20s %-8s %-8s %-8s %-8s %s",
		"RUN", "COMPLETED", "RECORDS", "FULL", "PARTIAL", "NONE", "SOURCE")))
	for _, run := range runs {
		source := run.Source
		if source == "" {
			source = "-"
		}
		fmt.Printf("%-5d %-20s %-8d %-8d %-8d %-8d %s\n",
			run.ID,
			run.CompletedAt.Format("2006-01-02 15:04:05"),
			run.TotalRecords,
			run.FullMatches,
			run.PartialMatches,
			run.NoMatches,
			source)
	}

	return nil
}
