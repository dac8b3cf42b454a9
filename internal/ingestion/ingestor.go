// Package ingestion loads dealer pricing sheets into the catalog:
// vehicles, pricing and incentive amounts, with per-run bookkeeping
// and row-level error capture.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/fleetcart/catalog-service/internal/parsers/csv"
	"github.com/fleetcart/catalog-service/internal/parsers/xlsx"
	"github.com/fleetcart/catalog-service/internal/types"
)

// Ingestor runs pricing-sheet ingestion against the catalog database
type Ingestor struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger

	// sem limits concurrent file processing
	sem *semaphore.Weighted
}

// New creates an Ingestor. maxConcurrent bounds how many files are
// parsed and persisted at once
func New(pool *pgxpool.Pool, maxConcurrent int) *Ingestor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Ingestor{
		pool:   pool,
		logger: log.With().Str("component", "ingestion").Logger(),
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// FileResult summarizes one processed pricing sheet
type FileResult struct {
	Filename  string `json:"filename"`
	TotalRows int    `json:"totalRows"`
	ValidRows int    `json:"validRows"`
	Persisted int    `json:"persisted"`
	Errors    int    `json:"errors"`
}

// RunResult summarizes a whole ingestion run
type RunResult struct {
	RunID          int64                 `json:"runId"`
	Status         types.IngestionStatus `json:"status"`
	Files          []FileResult          `json:"files"`
	ProcessedFiles int                   `json:"processedFiles"`
	TotalRows      int                   `json:"totalRows"`
	ProcessedRows  int                   `json:"processedRows"`
	ErrorCount     int                   `json:"errorCount"`
}

// Run ingests the given pricing-sheet files, recording progress in
// ingestion_runs and row failures in ingestion_errors. Files are
// processed concurrently up to the configured bound; a file that fails
// outright does not abort the others
func (ing *Ingestor) Run(ctx context.Context, source types.IngestionSource, paths []string) (*RunResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to ingest")
	}

	runID, err := ing.createRun(ctx, source, len(paths))
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion run: %w", err)
	}

	ing.logger.Info().
		Int64("run_id", runID).
		Int("files", len(paths)).
		Str("source", string(source)).
		Msg("Starting ingestion run")

	result := &RunResult{
		RunID: runID,
		Files: make([]FileResult, 0, len(paths)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, path := range paths {
		if err := ing.sem.Acquire(ctx, 1); err != nil {
			// Context cancelled mid-run
			break
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer ing.sem.Release(1)

			fr := ing.processFile(ctx, runID, path)

			mu.Lock()
			result.Files = append(result.Files, fr)
			result.ProcessedFiles++
			result.TotalRows += fr.TotalRows
			result.ProcessedRows += fr.Persisted
			result.ErrorCount += fr.Errors
			mu.Unlock()
		}(path)
	}

	wg.Wait()

	result.Status = types.StatusCompleted
	if ctx.Err() != nil {
		result.Status = types.StatusInterrupted
	} else if result.ProcessedRows == 0 && result.ErrorCount > 0 {
		result.Status = types.StatusFailed
	}

	if err := ing.finishRun(ctx, runID, result); err != nil {
		ing.logger.Warn().Err(err).Int64("run_id", runID).Msg("Failed to finalize ingestion run")
	}

	ing.logger.Info().
		Int64("run_id", runID).
		Str("status", string(result.Status)).
		Int("processed_rows", result.ProcessedRows).
		Int("errors", result.ErrorCount).
		Msg("Ingestion run finished")

	return result, nil
}

// processFile parses and persists one sheet
func (ing *Ingestor) processFile(ctx context.Context, runID int64, path string) FileResult {
	filename := filepath.Base(path)
	fr := FileResult{Filename: filename}

	content, err := os.ReadFile(path)
	if err != nil {
		ing.recordError(ctx, runID, filename, nil, types.ErrorTypeParse,
			fmt.Sprintf("failed to read file: %v", err))
		fr.Errors++
		return fr
	}

	parseResult, err := ing.parse(content, filename)
	if err != nil {
		ing.recordError(ctx, runID, filename, nil, types.ErrorTypeParse, err.Error())
		fr.Errors++
		return fr
	}

	fr.TotalRows = parseResult.TotalRows
	fr.ValidRows = parseResult.ValidRows

	for _, parseErr := range parseResult.Errors {
		ing.recordError(ctx, runID, filename, parseErr.RowNumber, types.ErrorTypeValidation, parseErr.Message)
		fr.Errors++
	}

	for _, row := range parseResult.Rows {
		if err := ing.persistRow(ctx, row); err != nil {
			ing.recordError(ctx, runID, filename, &row.RowNumber, types.ErrorTypePersist, err.Error())
			fr.Errors++
			continue
		}
		fr.Persisted++
	}

	observeFile(fr)

	ing.logger.Info().
		Str("file", filename).
		Int("valid_rows", fr.ValidRows).
		Int("persisted", fr.Persisted).
		Int("errors", fr.Errors).
		Msg("Processed pricing sheet")

	return fr
}

// parse picks a parser by file extension
func (ing *Ingestor) parse(content []byte, filename string) (*types.ParseResult, error) {
	switch FileTypeOf(filename) {
	case types.FileTypeCSV:
		return csv.NewParser(csv.DefaultOptions()).Parse(content)
	case types.FileTypeXLSX:
		return xlsx.NewParser(xlsx.DefaultOptions()).Parse(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// FileTypeOf maps a filename extension to a sheet type
func FileTypeOf(filename string) types.FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return types.FileTypeCSV
	case ".xlsx", ".xlsm":
		return types.FileTypeXLSX
	default:
		return ""
	}
}
