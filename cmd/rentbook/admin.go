package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/rentbook/internal/app"
	"github.com/MrJamesThe3rd/rentbook/internal/database"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create properties from a YAML file",
	Long: `seed reads a YAML file of the form

  properties:
    - name: Elm Street Duplex
      address: 12 Elm Street

and creates the properties that do not exist yet. Running it twice is safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(seedFile)
		if err != nil {
			return fmt.Errorf("opening seed file: %w", err)
		}
		defer f.Close()

		return withApp(cmd.Context(), func(a *app.App) error {
			res, err := a.Properties.Seed(cmd.Context(), f)
			if err != nil {
				return err
			}

			for _, p := range res.Created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", p.Name, p.ID)
			}

			if len(res.Skipped) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "already present: %s\n", strings.Join(res.Skipped, ", "))
			}

			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down|version>",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		connStr := cfg.ConnectionString()

		if args[0] == "version" {
			v, dirty, err := database.Version(connStr)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)

			return nil
		}

		status, err := database.Migrate(connStr, database.Direction(args[0]))
		if err != nil {
			return err
		}

		log.Info().Uint("before", status.Before).Uint("after", status.After).Msg("migrations applied")
		fmt.Fprintf(cmd.OutOrStdout(), "version %d -> %d (dirty: %t)\n", status.Before, status.After, status.Dirty)

		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "properties.yaml", "YAML file listing properties")
}
