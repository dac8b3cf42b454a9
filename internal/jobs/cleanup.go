// Package jobs holds maintenance jobs run on demand from the CLI.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// CleanupConfig configures retention policies for cleanup jobs
type CleanupConfig struct {
	RunRetentionDays   int
	ErrorRetentionDays int
}

// DefaultCleanupConfig returns sensible retention defaults
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RunRetentionDays:   90, // Finished runs kept for audit
		ErrorRetentionDays: 30, // Row errors are only useful while sheets get fixed
	}
}

// CleanupOldIngestionErrors removes row-level errors past retention.
// Errors outlive their usefulness once the offending sheet has been
// corrected and re-ingested
func CleanupOldIngestionErrors(ctx context.Context, db *pgxpool.Pool, cfg CleanupConfig) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -cfg.ErrorRetentionDays)

	result, err := db.Exec(ctx, `
		DELETE FROM ingestion_errors
		WHERE created_at < $1
	`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("cleanup old ingestion errors: %w", err)
	}

	rowsAffected := result.RowsAffected()
	log.Info().Int64("rows_deleted", rowsAffected).Time("cutoff", cutoffDate).Msg("Cleaned up old ingestion errors")

	return rowsAffected, nil
}

// CleanupOldIngestionRuns removes finished runs past retention along
// with any errors still attached to them. Running runs are never
// touched; the sweeper owns those
func CleanupOldIngestionRuns(ctx context.Context, db *pgxpool.Pool, cfg CleanupConfig) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -cfg.RunRetentionDays)

	_, err := db.Exec(ctx, `
		DELETE FROM ingestion_errors
		WHERE run_id IN (
			SELECT id FROM ingestion_runs
			WHERE status IN ('completed', 'failed', 'interrupted')
			  AND created_at < $1
		)
	`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("cleanup errors of old runs: %w", err)
	}

	result, err := db.Exec(ctx, `
		DELETE FROM ingestion_runs
		WHERE status IN ('completed', 'failed', 'interrupted')
		  AND created_at < $1
	`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("cleanup old ingestion runs: %w", err)
	}

	rowsAffected := result.RowsAffected()
	log.Info().Int64("rows_deleted", rowsAffected).Time("cutoff", cutoffDate).Msg("Cleaned up old ingestion runs")

	return rowsAffected, nil
}

// RunAllCleanupJobs runs all cleanup jobs in sequence. A failing job
// does not stop the others
func RunAllCleanupJobs(ctx context.Context, db *pgxpool.Pool, cfg CleanupConfig) error {
	var firstErr error

	if _, err := CleanupOldIngestionErrors(ctx, db, cfg); err != nil {
		log.Error().Err(err).Msg("Failed to clean up ingestion errors")
		firstErr = err
	}

	if _, err := CleanupOldIngestionRuns(ctx, db, cfg); err != nil {
		log.Error().Err(err).Msg("Failed to clean up ingestion runs")
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
