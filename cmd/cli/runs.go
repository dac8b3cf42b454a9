package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/spf13/cobra"
)

var (
	runsStatus string
	runsLimit  int
	runsOutput string
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent ingestion runs",
	Long: `List recent pricing-sheet ingestion runs and their outcomes: status,
file and row counts, and how many row errors were recorded. Use --status to
narrow to a single run state.`,
	Example: `  catalog-service runs
  catalog-service runs --status failed
  catalog-service runs --limit 50 --output json`,
	Args: cobra.NoArgs,
	RunE: runRunsCmd,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsStatus, "status", "", "Filter by status: pending, running, completed, failed, interrupted")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().StringVar(&runsOutput, "output", "table", "Output format: table or json")
}

func runRunsCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	pool := database.Pool()

	query := `
		SELECT id, source, status, started_at, completed_at,
		       total_files, processed_files, processed_rows, error_count
		FROM ingestion_runs
		WHERE 1=1
	`
	queryArgs := []interface{}{}
	argIdx := 1

	if runsStatus != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		queryArgs = append(queryArgs, runsStatus)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argIdx)
	queryArgs = append(queryArgs, runsLimit)

	rows, err := pool.Query(ctx, query, queryArgs...)
	if err != nil {
		return fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	type runRow struct {
		ID             int64      `json:"id"`
		Source         string     `json:"source"`
		Status         string     `json:"status"`
		StartedAt      *time.Time `json:"startedAt"`
		CompletedAt    *time.Time `json:"completedAt"`
		TotalFiles     *int       `json:"totalFiles"`
		ProcessedFiles *int       `json:"processedFiles"`
		ProcessedRows  *int       `json:"processedRows"`
		ErrorCount     *int       `json:"errorCount"`
	}

	var runs []runRow
	for rows.Next() {
		var r runRow
		if err := rows.Scan(
			&r.ID, &r.Source, &r.Status, &r.StartedAt, &r.CompletedAt,
			&r.TotalFiles, &r.ProcessedFiles, &r.ProcessedRows, &r.ErrorCount,
		); err != nil {
			return fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating runs: %w", rows.Err())
	}

	if strings.ToLower(runsOutput) == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No ingestion runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tSTATUS\tSTARTED\tFILES\tROWS\tERRORS")
	fmt.Fprintln(w, "--\t------\t------\t-------\t-----\t----\t------")

	for _, r := range runs {
		started := "-"
		if r.StartedAt != nil {
			started = r.StartedAt.Format("2006-01-02 15:04:05")
		}
		files := "-"
		if r.ProcessedFiles != nil && r.TotalFiles != nil {
			files = fmt.Sprintf("%d/%d", *r.ProcessedFiles, *r.TotalFiles)
		}
		rowsDone := "-"
		if r.ProcessedRows != nil {
			rowsDone = fmt.Sprintf("%d", *r.ProcessedRows)
		}
		errCount := "-"
		if r.ErrorCount != nil {
			errCount = fmt.Sprintf("%d", *r.ErrorCount)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Source, r.Status, started, files, rowsDone, errCount)
	}

	w.Flush()
	return nil
}
