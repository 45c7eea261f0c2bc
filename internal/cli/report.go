package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/riskibarqy/commander-stats/internal/usecase"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func renderReport(w io.Writer, report usecase.Report, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case outputJSON:
		out, err := sonic.ConfigStd.MarshalIndent(report, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode report")
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case outputTable, "":
		renderReportTable(w, report)
		return nil
	default:
		return errors.Newf("unknown output format %q", format)
	}
}

func renderReportTable(w io.Writer, report usecase.Report) {
	title := "Reconciliation " + report.RunID
	if report.DryRun {
		title += " (dry run)"
	}

	counts := table.NewWriter()
	counts.SetOutputMirror(w)
	counts.SetStyle(table.StyleLight)
	counts.SetTitle(title)
	counts.AppendHeader(table.Row{"Stage", "Built", "Inserted", "Rejected"})
	counts.AppendRows([]table.Row{
		{"rows", report.RowsRead, "", report.RowsSkipped},
		{"matches", report.MatchesBuilt, report.MatchesInserted, report.MatchesCollided},
		{"performances", report.PerformancesBuilt, report.PerformancesInserted, report.PerformancesUnresolved + report.PerformancesInvalid},
	})
	counts.AppendFooter(table.Row{"duration", report.Duration.Round(time.Millisecond).String(), "", ""})
	counts.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	counts.Render()

	fmt.Fprintf(w, "duplicate matches: %d, missing players: %d, malformed seats: %d\n",
		report.MatchesDuplicate, report.MissingPlayers, report.MalformedSeats)

	if len(report.Unresolved) == 0 {
		return
	}

	unresolved := table.NewWriter()
	unresolved.SetOutputMirror(w)
	unresolved.SetStyle(table.StyleLight)
	unresolved.SetTitle("Unresolved commanders")
	unresolved.AppendHeader(table.Row{"Name", "Occurrences", "Best candidate", "Score"})
	for _, item := range report.Unresolved {
		unresolved.AppendRow(table.Row{item.Name, item.Occurrences, item.BestCandidate, item.BestScore})
	}
	unresolved.Render()
}
