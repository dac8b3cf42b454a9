package csv

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fleetcart/catalog-service/internal/parsers/charset"
	"github.com/fleetcart/catalog-service/internal/types"
)

// Parser implements pricing-sheet CSV parsing with encoding detection
// and header-based column mapping
type Parser struct {
	options CsvParserOptions

	// Alternative mapping for fallback
	alternativeMapping *CsvColumnMapping
}

// NewParser creates a new CSV parser with the given options
func NewParser(options CsvParserOptions) *Parser {
	if options.QuoteChar == 0 {
		options.QuoteChar = '"'
	}
	return &Parser{
		options: options,
	}
}

// SetAlternativeMapping sets an alternative column mapping to try if the primary fails
func (p *Parser) SetAlternativeMapping(mapping *CsvColumnMapping) {
	p.alternativeMapping = mapping
}

// Parse parses CSV pricing-sheet content into normalized rows
func (p *Parser) Parse(content []byte) (*types.ParseResult, error) {
	opts := p.resolveOptions()

	// Detect encoding if not set
	if opts.Encoding == "" {
		detected := charset.DetectEncoding(content)
		opts.Encoding = CsvEncoding(detected)
	}

	// Decode content to UTF-8
	decoded, err := charset.Decode(content, charset.Encoding(opts.Encoding))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	// Detect delimiter if not set
	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
	}

	rawRows := p.parseCSV(decoded, opts)
	if len(rawRows) == 0 {
		return &types.ParseResult{
			TotalRows: 0,
			ValidRows: 0,
		}, nil
	}

	// Extract headers if present
	headers := make([]string, 0)
	dataStartRow := 0
	if opts.HasHeader {
		headers = rawRows[0]
		dataStartRow = 1
	}

	columnIndices, err := p.buildColumnIndices(headers, opts.ColumnMapping)
	if err != nil {
		return &types.ParseResult{
			Errors: []types.ParseError{
				{
					Field:   nil,
					Message: err.Error(),
				},
			},
			TotalRows: len(rawRows) - dataStartRow,
		}, nil
	}

	result := &types.ParseResult{
		TotalRows: 0,
		ValidRows: 0,
		Rows:      make([]types.PricingRow, 0),
		Errors:    make([]types.ParseError, 0),
		Warnings:  make([]types.ParseWarning, 0),
	}

	for i := dataStartRow; i < len(rawRows); i++ {
		rawRow := rawRows[i]
		rowNumber := i + 1

		// Skip empty rows
		if opts.SkipEmptyRows && isEmptyRow(rawRow) {
			continue
		}

		result.TotalRows++

		row, errs := p.mapRowToPricing(rawRow, rowNumber, columnIndices)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}

		result.Rows = append(result.Rows, *row)
		result.ValidRows++
	}

	// If no valid rows and we have an alternative mapping, try it
	if result.ValidRows == 0 && p.alternativeMapping != nil {
		altOpts := p.options
		altOpts.ColumnMapping = p.alternativeMapping
		altParser := NewParser(altOpts)
		return altParser.Parse(content)
	}

	return result, nil
}

// parseCSV parses CSV content into raw rows
func (p *Parser) parseCSV(content string, opts CsvParserOptions) [][]string {
	lines := splitLines(content)
	rows := make([][]string, 0, len(lines))

	delimRune := rune(opts.Delimiter[0])

	for _, line := range lines {
		if line == "" {
			continue
		}

		fields := SplitCSVLine(line, delimRune, opts.QuoteChar)

		trimmed := make([]string, len(fields))
		for i, f := range fields {
			trimmed[i] = strings.TrimSpace(f)
		}

		rows = append(rows, trimmed)
	}

	return rows
}

// normalizeHeader flattens spacing, underscores and case for matching
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// buildColumnIndices builds a map of field names to column indices
func (p *Parser) buildColumnIndices(headers []string, mapping *CsvColumnMapping) (map[string]int, error) {
	if mapping == nil {
		return nil, fmt.Errorf("no column mapping provided")
	}

	indices := make(map[string]int)

	resolveIndex := func(field string, value *string, required bool) error {
		if value == nil {
			if required {
				return fmt.Errorf("required field %s not in mapping", field)
			}
			return nil
		}

		// A numeric mapping value is a column position
		if idx, err := strconv.Atoi(strings.TrimSpace(*value)); err == nil {
			if idx < 0 {
				return fmt.Errorf("invalid column index for %s: %s", field, *value)
			}
			indices[field] = idx
			return nil
		}

		// Exact case-insensitive match first
		idx := -1
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(*value)) {
				idx = i
				break
			}
		}

		// Fallback: whitespace/underscore-insensitive match
		if idx == -1 {
			wanted := normalizeHeader(*value)
			for i, h := range headers {
				if normalizeHeader(h) == wanted {
					log.Warn().Str("mapping", *value).Str("header", h).Msg("Fuzzy header match")
					idx = i
					break
				}
			}
		}

		if idx == -1 {
			if required {
				return fmt.Errorf("column '%s' for field '%s' not found in headers", *value, field)
			}
			// Optional field not found - that's ok
			return nil
		}

		indices[field] = idx
		return nil
	}

	// Required fields
	if err := resolveIndex("specNumber", &mapping.SpecNumber, true); err != nil {
		return nil, err
	}
	if err := resolveIndex("year", &mapping.Year, true); err != nil {
		return nil, err
	}
	if err := resolveIndex("make", &mapping.Make, true); err != nil {
		return nil, err
	}
	if err := resolveIndex("model", &mapping.Model, true); err != nil {
		return nil, err
	}
	if err := resolveIndex("trim", &mapping.Trim, true); err != nil {
		return nil, err
	}
	if err := resolveIndex("msrp", &mapping.MSRP, true); err != nil {
		return nil, err
	}
	if err := resolveIndex("dealerNet", &mapping.DealerNet, true); err != nil {
		return nil, err
	}

	// Optional fields
	resolveIndex("bodyType", mapping.BodyType, false)
	resolveIndex("driveType", mapping.DriveType, false)
	resolveIndex("factoryInvoice", mapping.FactoryInvoice, false)
	resolveIndex("level3Incentive", mapping.Level3Incentive, false)
	resolveIndex("level4Incentive", mapping.Level4Incentive, false)

	return indices, nil
}

// mapRowToPricing maps a raw CSV row to a PricingRow
func (p *Parser) mapRowToPricing(rawRow []string, rowNumber int, indices map[string]int) (*types.PricingRow, []types.ParseError) {
	var errors []types.ParseError

	getValue := func(field string) *string {
		idx, ok := indices[field]
		if !ok || idx >= len(rawRow) {
			return nil
		}
		val := strings.TrimSpace(rawRow[idx])
		if val == "" {
			return nil
		}
		return &val
	}

	addError := func(field, message string, original *string) {
		errors = append(errors, types.ParseError{
			RowNumber:     &rowNumber,
			Field:         types.StringPtr(field),
			Message:       message,
			OriginalValue: original,
		})
	}

	requireString := func(field string) string {
		if v := getValue(field); v != nil {
			return *v
		}
		addError(field, fmt.Sprintf("%s is required", field), nil)
		return ""
	}

	requireAmount := func(field string) int64 {
		v := getValue(field)
		if v == nil {
			addError(field, fmt.Sprintf("%s is required", field), nil)
			return 0
		}
		parsed, err := ParseAmount(*v)
		if err != nil {
			addError(field, "Invalid amount value", v)
			return 0
		}
		return parsed
	}

	optionalAmount := func(field string) *int64 {
		v := getValue(field)
		if v == nil {
			return nil
		}
		parsed, err := ParseAmount(*v)
		if err != nil {
			addError(field, "Invalid amount value", v)
			return nil
		}
		return &parsed
	}

	specNumber := requireString("specNumber")
	makeName := requireString("make")
	modelName := requireString("model")
	trimName := requireString("trim")

	year := 0
	if yearStr := getValue("year"); yearStr != nil {
		parsed, err := strconv.Atoi(strings.TrimSpace(*yearStr))
		if err != nil || parsed < 1980 || parsed > 2100 {
			addError("year", "Invalid model year", yearStr)
		} else {
			year = parsed
		}
	} else {
		addError("year", "year is required", nil)
	}

	msrp := requireAmount("msrp")
	dealerNet := requireAmount("dealerNet")
	factoryInvoice := optionalAmount("factoryInvoice")
	level3 := optionalAmount("level3Incentive")
	level4 := optionalAmount("level4Incentive")

	if len(errors) > 0 {
		return nil, errors
	}

	// Invoice defaults to dealer net when the sheet omits it
	invoice := dealerNet
	if factoryInvoice != nil {
		invoice = *factoryInvoice
	}

	rawDataJSON, _ := json.Marshal(rawRow)

	row := &types.PricingRow{
		SpecNumber:      specNumber,
		Year:            year,
		Make:            makeName,
		Model:           modelName,
		Trim:            trimName,
		BodyType:        getValue("bodyType"),
		DriveType:       getValue("driveType"),
		MSRP:            msrp,
		FactoryInvoice:  invoice,
		DealerNet:       dealerNet,
		Level3Incentive: level3,
		Level4Incentive: level4,
		RowNumber:       rowNumber,
		RawData:         string(rawDataJSON),
	}

	return row, nil
}

// resolveOptions returns options with defaults filled in
func (p *Parser) resolveOptions() CsvParserOptions {
	opts := p.options
	if opts.ColumnMapping == nil {
		opts.ColumnMapping = DefaultColumnMapping()
	}
	if opts.QuoteChar == 0 {
		opts.QuoteChar = '"'
	}
	return opts
}

// splitLines splits content into lines handling different line endings
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// isEmptyRow checks if a row is empty
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
