// Command spellquiz is the maintenance CLI for the spelling practice store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spellquiz/internal/app"
	"spellquiz/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "spellquiz",
		Short:        "Spelling practice quiz maintenance tool",
		Long:         "Manage word sets, review practice results and back up the spelling practice store.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (overrides DB_PATH)")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newWordSetsCmd())
	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newDigestCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newSentencesCmd())
	rootCmd.AddCommand(newBackupCmd())
	return rootCmd
}

// openApp loads configuration, applies the --db flag and opens the store
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Database.Type = config.DatabaseSQLite
		cfg.Database.Path = p
	}

	logger := app.NewLogger(cfg.Log)
	a, err := app.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return a, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Migrations applied (%s)\n", a.DB.Dialect.Name())
			return nil
		},
	}
}
