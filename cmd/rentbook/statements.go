package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/rentbook/internal/app"
)

var (
	syncFolder     string
	analyzePending bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import new statement PDFs from the source folder",
	Long: `sync lists the source folder, imports every PDF that has no statement yet
and extracts its transactions. Documents that fail are reported and retried on
the next run; the others are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if syncFolder != "" {
			cfg.Source.FolderID = syncFolder
		}

		if err := cfg.RequireSync(); err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			report, err := a.Ingest.Sync(cmd.Context(), cfg.Source.FolderID)
			if err != nil {
				return err
			}

			return printReport(cmd.OutOrStdout(), report)
		})
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [statement-id]",
	Short: "Extract transactions from a stored statement's text",
	Long: `analyze re-runs extraction for a statement that has text but no
transactions, which is what a failed extraction leaves behind. With --pending
every such statement is analyzed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzePending == (len(args) == 1) {
			return errors.New("give either a statement id or --pending")
		}

		if err := cfg.RequireReasoning(); err != nil {
			return err
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			if analyzePending {
				report, err := a.Ingest.AnalyzePending(cmd.Context())
				if err != nil {
					return err
				}

				return printReport(cmd.OutOrStdout(), report)
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid statement id %q", args[0])
			}

			res, err := a.Ingest.AnalyzeStatement(cmd.Context(), id)
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d transactions (%d flagged)\n", res.TransactionsCreated, res.Flagged)

			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <statement-id>",
	Short: "Delete a statement's transactions so it can be analyzed again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid statement id %q", args[0])
		}

		return withApp(cmd.Context(), func(a *app.App) error {
			n, err := a.Ingest.ResetStatement(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d transactions\n", n)

			return nil
		})
	},
}

var statementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "List imported statements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app.App) error {
			summaries, err := a.Statements.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), summaries)
			}

			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				status := ""
				if s.NeedsAnalysis() {
					status = "needs analysis"
				}

				rows[i] = []string{
					s.ID.String(),
					s.Date.Format(time.DateOnly),
					s.FileName,
					s.PropertyName,
					strconv.Itoa(s.TransactionCount),
					status,
				}
			}

			printTable(cmd.OutOrStdout(), []string{"ID", "Date", "File", "Property", "Transactions", "Status"}, rows)

			return nil
		})
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncFolder, "folder", "", "Folder to sync instead of SOURCE_FOLDER_ID")
	analyzeCmd.Flags().BoolVar(&analyzePending, "pending", false, "Analyze every statement that has text but no transactions")
}
