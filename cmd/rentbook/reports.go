package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/rentbook/internal/app"
	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/money"
	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

var (
	year        int
	exportDir   string
	since       string
	flaggedOnly bool
	txLimit     int
)

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List the most recent transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			txs, err := a.Transactions.List(cmd.Context(), transaction.ListFilter{
				FlaggedOnly: flaggedOnly,
				Newest:      true,
				Limit:       txLimit,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), txs)
			}

			printTable(cmd.OutOrStdout(), transactionHeaders, transactionRows(txs))

			return nil
		})
	},
}

var taxprepCmd = &cobra.Command{
	Use:   "taxprep",
	Short: "Show deductible expenses per Schedule E category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			report, err := a.TaxPrep.Report(cmd.Context(), year)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), report)
			}

			rows := make([][]string, 0, len(report.Groups)+1)
			for _, g := range report.Groups {
				rows = append(rows, []string{string(g.Category), strconv.Itoa(g.Count), money.Format(g.Total)})
			}

			rows = append(rows, []string{"Total", "", money.Format(report.TotalDeductions)})

			fmt.Fprintf(cmd.OutOrStdout(), "Schedule E deductions for %d\n", report.Year)
			printTable(cmd.OutOrStdout(), []string{"Category", "Transactions", "Total"}, rows)

			return nil
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask for advice on the year's deductions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.RequireReasoning(); err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			suggestions, err := a.Advisor.Suggest(cmd.Context(), year)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), suggestions)
			}

			for _, s := range suggestions {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n  %s\n", s.Type, s.Title, s.Description)
			}

			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the year's deductions to an XLSX workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			path, err := a.Export.Export(cmd.Context(), year, exportDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

			return nil
		})
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show income, expenses and recent transactions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		windowStart := dashboard.YearStart(time.Now())

		if since != "" {
			t, err := time.Parse(time.DateOnly, since)
			if err != nil {
				return fmt.Errorf("invalid --since %q: want YYYY-MM-DD", since)
			}

			windowStart = t
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			sum, err := a.Dashboard.Summarize(cmd.Context(), windowStart)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), sum)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Since %s\n", sum.WindowStart.Format(time.DateOnly))
			fmt.Fprintf(w, "Income:   %s\n", money.Format(sum.IncomeTotal))
			fmt.Fprintf(w, "Expenses: %s\n", money.Format(sum.ExpenseTotal))
			fmt.Fprintf(w, "Net:      %s\n\n", money.Format(sum.Net))

			printTable(w, transactionHeaders, transactionRows(sum.Recent))

			return nil
		})
	},
}

var transactionHeaders = []string{"Date", "Property", "Vendor", "Category", "Amount", "Flag"}

func transactionRows(txs []*transaction.Transaction) [][]string {
	rows := make([][]string, len(txs))
	for i, tx := range txs {
		rows[i] = []string{
			tx.Date.Format(time.DateOnly),
			tx.PropertyName,
			deref(tx.Vendor),
			string(taxcategory.Normalize(tx.Category)),
			money.Format(tx.Amount),
			deref(tx.FlagReason),
		}
	}

	return rows
}

func init() {
	thisYear := time.Now().Year()

	for _, c := range []*cobra.Command{taxprepCmd, suggestCmd, exportCmd} {
		c.Flags().IntVar(&year, "year", thisYear, "Tax year")
	}

	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "Directory to write the workbook to")
	dashboardCmd.Flags().StringVar(&since, "since", "", "Start of the window (YYYY-MM-DD); defaults to January 1st")
	transactionsCmd.Flags().BoolVar(&flaggedOnly, "flagged", false, "Only transactions flagged for review")
	transactionsCmd.Flags().IntVar(&txLimit, "limit", 50, "Maximum number of transactions")
}
