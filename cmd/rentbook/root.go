package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/rentbook/internal/app"
	"github.com/MrJamesThe3rd/rentbook/internal/config"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
)

var (
	envFile  string
	logLevel string
	jsonOut  bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rentbook",
	Short: "Import rental statements and prepare Schedule E figures",
	Long: `rentbook syncs rental statement PDFs from Google Drive or Cloud Storage,
extracts their transactions and reports deductible expenses per tax category.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load(envFile)

		c, err := config.Load()
		if err != nil {
			return err
		}

		if logLevel != "" {
			c.Log.Level = logLevel
		}

		cfg = c
		log = logger.New(cfg.Log.Level, logger.FormatConsole)

		cmd.SetContext(logger.WithContext(cmd.Context(), log))

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to a .env file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		syncCmd,
		analyzeCmd,
		resetCmd,
		statementsCmd,
		transactionsCmd,
		taxprepCmd,
		suggestCmd,
		exportCmd,
		dashboardCmd,
		seedCmd,
		migrateCmd,
	)
}

// withApp builds the services for one command and closes them afterwards.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
