package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/fleetcart/catalog-service/internal/database"
	"github.com/fleetcart/catalog-service/internal/ingestion"
	"github.com/fleetcart/catalog-service/internal/types"
	"github.com/spf13/cobra"
)

var ingestConcurrency int

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest dealer pricing sheets into the catalog",
	Long: `Ingest one or more dealer pricing sheets (CSV or XLSX) into the catalog
database. Each sheet is parsed, validated and upserted row by row; vehicles are
matched by spec number, so re-ingesting a sheet updates pricing in place. Row
failures are recorded against the ingestion run and do not abort the rest of
the sheet.

Directories are expanded to the sheet files they contain.`,
	Example: `  catalog-service ingest ./sheets/2026-sedans.csv
  catalog-service ingest ./sheets/2026-trucks.xlsx ./sheets/2026-vans.xlsx
  catalog-service ingest ./sheets/ --concurrency 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngestCmd,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestConcurrency, "concurrency", 0, "Max files processed at once (default from config)")
}

func runIngestCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	paths, err := expandSheetPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no ingestable files found (need .csv, .txt, .xlsx or .xlsm)")
	}

	concurrency := cfg.Ingestion.MaxConcurrentFiles
	if ingestConcurrency > 0 {
		concurrency = ingestConcurrency
	}

	logger.Info().Int("files", len(paths)).Int("concurrency", concurrency).Msg("Starting ingestion")

	ingestor := ingestion.New(database.Pool(), concurrency)
	result, err := ingestor.Run(ctx, types.SourceCLI, paths)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	displayRunResult(result)

	if result.Status == types.StatusFailed {
		return fmt.Errorf("ingestion run %d failed", result.RunID)
	}
	return nil
}

// expandSheetPaths resolves arguments to ingestable files, walking
// directories one level deep
func expandSheetPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}

		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ingestion.FileTypeOf(entry.Name()) == "" {
				continue
			}
			paths = append(paths, filepath.Join(arg, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func displayRunResult(result *ingestion.RunResult) {
	fmt.Printf("\nIngestion Run %d (%s)\n\n", result.RunID, result.Status)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FILE\tROWS\tVALID\tPERSISTED\tERRORS")
	fmt.Fprintln(w, "----\t----\t-----\t---------\t------")

	for _, f := range result.Files {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", f.Filename, f.TotalRows, f.ValidRows, f.Persisted, f.Errors)
	}

	fmt.Fprintln(w, "----\t----\t-----\t---------\t------")
	fmt.Fprintf(w, "TOTAL\t%d\t\t%d\t%d\n", result.TotalRows, result.ProcessedRows, result.ErrorCount)
	w.Flush()
}
