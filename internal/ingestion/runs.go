package ingestion

import (
	"context"
	"time"

	"github.com/fleetcart/catalog-service/internal/types"
)

// createRun inserts a new running ingestion_runs record
func (ing *Ingestor) createRun(ctx context.Context, source types.IngestionSource, totalFiles int) (int64, error) {
	var runID int64
	err := ing.pool.QueryRow(ctx, `
		INSERT INTO ingestion_runs (source, status, started_at, total_files, created_at)
		VALUES ($1, $2, $3, $4, $3)
		RETURNING id
	`, string(source), string(types.StatusRunning), time.Now(), totalFiles).Scan(&runID)
	return runID, err
}

// finishRun writes the final status and counters for a run
func (ing *Ingestor) finishRun(ctx context.Context, runID int64, result *RunResult) error {
	_, err := ing.pool.Exec(ctx, `
		UPDATE ingestion_runs
		SET status = $1,
		    completed_at = $2,
		    processed_files = $3,
		    total_rows = $4,
		    processed_rows = $5,
		    error_count = $6
		WHERE id = $7
	`, string(result.Status), time.Now(),
		result.ProcessedFiles, result.TotalRows, result.ProcessedRows,
		result.ErrorCount, runID)
	return err
}

// recordError captures one row-level failure. Failing to record is
// logged but never fails the run
func (ing *Ingestor) recordError(ctx context.Context, runID int64, filename string, rowNumber *int, errType types.IngestionErrorType, message string) {
	severity := types.SeverityError
	if errType == types.ErrorTypeValidation {
		severity = types.SeverityWarning
	}

	_, err := ing.pool.Exec(ctx, `
		INSERT INTO ingestion_errors (run_id, filename, row_number, error_type, error_message, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, runID, filename, rowNumber, string(errType), message, string(severity), time.Now())
	if err != nil {
		ing.logger.Warn().Err(err).Str("file", filename).Msg("Failed to record ingestion error")
	}
}

// MarkStaleRunsInterrupted flips runs stuck in 'running' older than the
// given age to 'interrupted'. Called by the sweeper at startup and on a
// timer so crashed runs do not stay running forever
func (ing *Ingestor) MarkStaleRunsInterrupted(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := ing.pool.Exec(ctx, `
		UPDATE ingestion_runs
		SET status = $1, completed_at = NOW()
		WHERE status = $2 AND started_at < $3
	`, string(types.StatusInterrupted), string(types.StatusRunning), time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
