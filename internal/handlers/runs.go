package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/fleetcart/catalog-service/internal/database"
)

// ListRunsRequest represents query parameters for listing ingestion runs
type ListRunsRequest struct {
	Status string `form:"status" json:"status" jsonschema:"enum=pending,enum=running,enum=completed,enum=failed,enum=interrupted"`
	Limit  int    `form:"limit" json:"limit" binding:"min=0,max=100" jsonschema:"minimum=1,maximum=100"`
	Offset int    `form:"offset" json:"offset" binding:"min=0" jsonschema:"minimum=0"`
}

// ListRunsResponse represents the response for listing ingestion runs
type ListRunsResponse struct {
	Runs  []IngestionRun `json:"runs" jsonschema:"required"`
	Total int            `json:"total" jsonschema:"required"`
}

// IngestionRun represents an ingestion run response
type IngestionRun struct {
	ID             int64      `json:"id" jsonschema:"required"`
	Source         string     `json:"source" jsonschema:"required"`
	Status         string     `json:"status" jsonschema:"required,enum=pending,enum=running,enum=completed,enum=failed,enum=interrupted"`
	StartedAt      *time.Time `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	TotalFiles     *int       `json:"totalFiles"`
	ProcessedFiles *int       `json:"processedFiles"`
	TotalRows      *int       `json:"totalRows"`
	ProcessedRows  *int       `json:"processedRows"`
	ErrorCount     *int       `json:"errorCount"`
	Metadata       *string    `json:"metadata"`
	CreatedAt      time.Time  `json:"createdAt" jsonschema:"required"`
}

// ListRuns returns a paginated list of pricing-sheet ingestion runs
// @Summary List ingestion runs
// @Description Returns a paginated list of pricing-sheet ingestion runs with an optional status filter
// @Tags ingestion
// @Accept json
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, running, completed, failed, interrupted)
// @Param limit query int false "Number of items to return" default(20) minimum(1) maximum(100)
// @Param offset query int false "Number of items to skip" default(0) minimum(0)
// @Success 200 {object} ListRunsResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/ingestion/runs [get]
func ListRuns(c *gin.Context) {
	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	if req.Limit == 0 {
		req.Limit = 20
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	// Build query with dynamic filters
	query := `
		SELECT id, source, status, started_at, completed_at,
		       total_files, processed_files, total_rows, processed_rows,
		       error_count, metadata, created_at
		FROM ingestion_runs
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if req.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, req.Status)
		argIdx++
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM ingestion_runs WHERE 1=1"
	countArgs := []interface{}{}
	if req.Status != "" {
		countQuery += " AND status = $1"
		countArgs = append(countArgs, req.Status)
	}

	var total int
	err := pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count runs"})
		return
	}

	// Add ordering and pagination
	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch runs"})
		return
	}
	defer rows.Close()

	runs := []IngestionRun{}
	for rows.Next() {
		var run IngestionRun
		err := rows.Scan(
			&run.ID, &run.Source, &run.Status,
			&run.StartedAt, &run.CompletedAt, &run.TotalFiles, &run.ProcessedFiles,
			&run.TotalRows, &run.ProcessedRows, &run.ErrorCount,
			&run.Metadata, &run.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan run"})
			return
		}
		runs = append(runs, run)
	}

	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating runs"})
		return
	}

	c.JSON(http.StatusOK, ListRunsResponse{
		Runs:  runs,
		Total: total,
	})
}

// GetRun returns a single ingestion run by ID
// @Summary Get ingestion run
// @Description Returns a single pricing-sheet ingestion run by its ID
// @Tags ingestion
// @Accept json
// @Produce json
// @Param runId path int true "Run ID"
// @Success 200 {object} IngestionRun
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Run not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/ingestion/runs/{runId} [get]
func GetRun(c *gin.Context) {
	runID, ok := pathID(c, "runId")
	if !ok {
		return
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	query := `
		SELECT id, source, status, started_at, completed_at,
		       total_files, processed_files, total_rows, processed_rows,
		       error_count, metadata, created_at
		FROM ingestion_runs
		WHERE id = $1
	`

	var run IngestionRun
	err := pool.QueryRow(ctx, query, runID).Scan(
		&run.ID, &run.Source, &run.Status,
		&run.StartedAt, &run.CompletedAt, &run.TotalFiles, &run.ProcessedFiles,
		&run.TotalRows, &run.ProcessedRows, &run.ErrorCount,
		&run.Metadata, &run.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListRunErrorsRequest represents query parameters for listing run errors
type ListRunErrorsRequest struct {
	Limit  int `form:"limit" json:"limit" binding:"min=0,max=100" jsonschema:"minimum=1,maximum=100"`
	Offset int `form:"offset" json:"offset" binding:"min=0" jsonschema:"minimum=0"`
}

// ListRunErrorsResponse represents the response for listing run errors
type ListRunErrorsResponse struct {
	Errors []database.IngestionError `json:"errors" jsonschema:"required"`
	Total  int                       `json:"total" jsonschema:"required"`
}

// ListRunErrors returns a paginated list of row-level errors for a run
// @Summary List ingestion errors
// @Description Returns a paginated list of row-level errors for a specific ingestion run
// @Tags ingestion
// @Accept json
// @Produce json
// @Param runId path int true "Run ID"
// @Param limit query int false "Number of items to return" default(50) minimum(1) maximum(100)
// @Param offset query int false "Number of items to skip" default(0) minimum(0)
// @Success 200 {object} ListRunErrorsResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /internal/ingestion/runs/{runId}/errors [get]
func ListRunErrors(c *gin.Context) {
	runID, ok := pathID(c, "runId")
	if !ok {
		return
	}

	var req ListRunErrorsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	if req.Limit == 0 {
		req.Limit = 50
	}

	pool := database.Pool()
	ctx := c.Request.Context()

	// Get total count
	var total int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM ingestion_errors WHERE run_id = $1", runID).Scan(&total)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count errors"})
		return
	}

	// Get errors with pagination
	query := `
		SELECT id, run_id, filename, row_number, error_type, error_message,
		       severity, created_at
		FROM ingestion_errors
		WHERE run_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := pool.Query(ctx, query, runID, req.Limit, req.Offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch errors"})
		return
	}
	defer rows.Close()

	runErrors := []database.IngestionError{}
	for rows.Next() {
		var e database.IngestionError
		err := rows.Scan(
			&e.ID, &e.RunID, &e.Filename, &e.RowNumber,
			&e.ErrorType, &e.ErrorMessage, &e.Severity, &e.CreatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan error"})
			return
		}
		runErrors = append(runErrors, e)
	}

	if rows.Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error iterating errors"})
		return
	}

	c.JSON(http.StatusOK, ListRunErrorsResponse{
		Errors: runErrors,
		Total:  total,
	})
}
