package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/MrJamesThe3rd/rentbook/internal/ingest"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(w, t.Render())
}

// printReport writes a sync or analysis report, one line per failed
// document after the totals.
func printReport(w io.Writer, r *ingest.Report) error {
	if jsonOut {
		return printJSON(w, r)
	}

	fmt.Fprintf(w, "Discovered:           %d\n", r.Discovered)
	fmt.Fprintf(w, "Statements created:   %d\n", r.StatementsCreated)
	fmt.Fprintf(w, "Transactions created: %d\n", r.TransactionsCreated)
	fmt.Fprintf(w, "Flagged for review:   %d\n", r.Flagged)
	fmt.Fprintf(w, "Skipped:              %d\n", r.Skipped)

	if len(r.Errors) == 0 {
		return nil
	}

	rows := make([][]string, len(r.Errors))
	for i, e := range r.Errors {
		rows[i] = []string{e.Document, e.Error}
	}

	fmt.Fprintln(w)
	printTable(w, []string{"Document", "Error"}, rows)

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
