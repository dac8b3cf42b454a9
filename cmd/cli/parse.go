package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fleetcart/catalog-service/internal/ingestion"
	"github.com/fleetcart/catalog-service/internal/parsers/csv"
	"github.com/fleetcart/catalog-service/internal/parsers/xlsx"
	"github.com/fleetcart/catalog-service/internal/types"
	"github.com/spf13/cobra"
)

var parseOutput string

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a pricing sheet without persisting it",
	Long: `Parse a local dealer pricing sheet (CSV or XLSX) and report what ingestion
would see: row counts, validation errors and a sample of the parsed vehicles.
Nothing is written to the database, so this is the way to vet a new sheet
format before ingesting it.`,
	Example: `  catalog-service parse ./sheets/2026-sedans.csv
  catalog-service parse ./sheets/2026-trucks.xlsx --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	logger.Info().Str("file", filePath).Msg("Reading file")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	logger.Info().Str("file", filePath).Msgf("Read %d bytes", len(content))

	var result *types.ParseResult
	switch ingestion.FileTypeOf(filePath) {
	case types.FileTypeCSV:
		result, err = csv.NewParser(csv.DefaultOptions()).Parse(content)
	case types.FileTypeXLSX:
		result, err = xlsx.NewParser(xlsx.DefaultOptions()).Parse(content)
	default:
		return fmt.Errorf("unsupported file type: %s (need .csv, .txt, .xlsx or .xlsm)", filePath)
	}
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	switch strings.ToLower(parseOutput) {
	case "json":
		return outputParseJSON(result)
	case "table":
		outputParseTable(filePath, result)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}

	return nil
}

func outputParseTable(filePath string, result *types.ParseResult) {
	fmt.Printf("\nParse Results for %s\n", filePath)
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Metric\tValue\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Total Rows\t%d\n", result.TotalRows)
	fmt.Fprintf(w, "Valid Rows\t%d\n", result.ValidRows)
	fmt.Fprintf(w, "Invalid Rows\t%d\n", result.TotalRows-result.ValidRows)
	fmt.Fprintf(w, "Errors\t%d\n", len(result.Errors))
	fmt.Fprintf(w, "Warnings\t%d\n", len(result.Warnings))
	w.Flush()

	// Show first few errors if any
	if len(result.Errors) > 0 {
		fmt.Printf("\nFirst %d Errors:\n", min(len(result.Errors), 10))
		fmt.Println(strings.Repeat("-", 60))
		for i, err := range result.Errors {
			if i >= 10 {
				break
			}
			rowNum := "-"
			if err.RowNumber != nil {
				rowNum = fmt.Sprintf("%d", *err.RowNumber)
			}
			field := "-"
			if err.Field != nil {
				field = *err.Field
			}
			fmt.Printf("Row %s, Field '%s': %s\n", rowNum, field, err.Message)
		}
		if len(result.Errors) > 10 {
			fmt.Printf("... and %d more errors\n", len(result.Errors)-10)
		}
	}

	// Show sample of valid rows
	if len(result.Rows) > 0 {
		fmt.Printf("\nSample Rows (first %d):\n", min(len(result.Rows), 5))
		fmt.Println(strings.Repeat("-", 60))
		for i, row := range result.Rows {
			if i >= 5 {
				break
			}
			fmt.Printf("%d. #%s %d %s %s %s (MSRP %s, Dealer Net %s)\n",
				i+1, row.SpecNumber, row.Year, row.Make, row.Model, row.Trim,
				csv.FormatAmount(row.MSRP), csv.FormatAmount(row.DealerNet))
		}
	}
}

func outputParseJSON(result *types.ParseResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
