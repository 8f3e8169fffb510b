package report

import (
	"fmt"
	"strings"
	"time"

	"loginrecon/internal/cli"
	"loginrecon/internal/model"
)

// RenderSummary formats a run's headline numbers for the terminal.
func RenderSummary(run *model.ReconRun) string {
	var b strings.Builder

	title := fmt.Sprintf("Reconciliation run #%d", run.ID)
	if run.ID == 0 {
		title = "Reconciliation run (not persisted)"
	}
	b.WriteString(cli.TitleStyle.Render(title))
	b.WriteString("\n")
	if run.Source != "" {
		b.WriteString(cli.SubtleStyle.Render("source: "+run.Source) + "\n")
	}
	b.WriteString(fmt.Sprintf("  Records examined:  %d\n", run.TotalRecords))
	b.WriteString(fmt.Sprintf("  Groups:            %d (%d eligible)\n", run.TotalGroups, run.EligibleGroups))
	b.WriteString(fmt.Sprintf("  Rows classified:   %d\n", run.ResultCount()))
	b.WriteString("  " + cli.SuccessStyle.Render(fmt.Sprintf("Full matches:      %d", run.FullMatches)) + "\n")
	b.WriteString("  " + cli.WarningStyle.Render(fmt.Sprintf("Partial matches:   %d", run.PartialMatches)) + "\n")
	b.WriteString("  " + cli.ErrorStyle.Render(fmt.Sprintf("No matches:        %d", run.NoMatches)) + "\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("  completed in %s", run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))))

	return b.String()
}

// RenderResults formats the classified rows as an aligned table.
func RenderResults(results []model.ReconciledRecord) string {
	if len(results) == 0 {
		return cli.SubtleStyle.Render("no rows classified")
	}

	var b strings.Builder
	b.WriteString(cli.TableHeaderStyle.Render(fmt.Sprintf("%-10s %-8s %-20s %-20s %s", "EMP_ID", "TYPE", "DEV_LOGIN", "UAT_LOGIN", "MATCH")))
	b.WriteString("\n")

	for _, result := range results {
		line := fmt.Sprintf("%-10s %-8s %-20s %-20s ",
			result.EmpID,
			result.EmpType,
			loginCell(result.DevLogin),
			loginCell(result.UATLogin))
		b.WriteString(line)
		b.WriteString(cli.MatchStyle(result.MatchType).Render(string(result.MatchType)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
