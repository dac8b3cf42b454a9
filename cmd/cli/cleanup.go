package main

import (
	"context"

	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/fleetcart/catalog-service/internal/jobs"
	"github.com/spf13/cobra"
)

var (
	cleanupRunDays   int
	cleanupErrorDays int
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old ingestion runs and row errors",
	Long: `Remove ingestion bookkeeping past its retention window: finished runs
and the row-level errors recorded against them. Runs still in progress are
never touched.`,
	Example: `  catalog-service cleanup
  catalog-service cleanup --run-retention 30 --error-retention 7`,
	Args: cobra.NoArgs,
	RunE: runCleanupCmd,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	defaults := jobs.DefaultCleanupConfig()
	cleanupCmd.Flags().IntVar(&cleanupRunDays, "run-retention", defaults.RunRetentionDays, "Days to keep finished ingestion runs")
	cleanupCmd.Flags().IntVar(&cleanupErrorDays, "error-retention", defaults.ErrorRetentionDays, "Days to keep row-level ingestion errors")
}

func runCleanupCmd(cmd *cobra.Command, args []string) error {
	cfg := jobs.CleanupConfig{
		RunRetentionDays:   cleanupRunDays,
		ErrorRetentionDays: cleanupErrorDays,
	}

	return jobs.RunAllCleanupJobs(context.Background(), database.Pool(), cfg)
}
