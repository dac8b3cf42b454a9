package xlsx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fleetcart/catalog-service/internal/parsers/csv"
	"github.com/fleetcart/catalog-service/internal/types"
)

// Parser is an XLSX pricing-sheet parser
type Parser struct {
	options    XlsxParserOptions
	altMapping *XlsxColumnMapping
}

// NewParser creates a new XLSX parser
func NewParser(options XlsxParserOptions) *Parser {
	opts := DefaultOptions()

	if options.ColumnMapping != nil {
		opts.ColumnMapping = options.ColumnMapping
	}
	opts.HasHeader = options.HasHeader
	opts.HeaderRowCount = options.HeaderRowCount
	opts.SkipEmptyRows = options.SkipEmptyRows
	if options.SheetNameOrIndex != nil {
		opts.SheetNameOrIndex = options.SheetNameOrIndex
	}

	return &Parser{
		options: opts,
	}
}

// SetAlternativeMapping sets an alternative column mapping to try if the primary fails
func (p *Parser) SetAlternativeMapping(mapping *XlsxColumnMapping) {
	p.altMapping = mapping
}

// Parse parses XLSX pricing-sheet content into normalized rows
func (p *Parser) Parse(content []byte) (*types.ParseResult, error) {
	result, err := p.parseWithMapping(content, p.options.ColumnMapping)
	if err != nil {
		return nil, err
	}

	// If no valid rows and we have an alternative mapping, try it
	if result.ValidRows == 0 && p.altMapping != nil {
		altResult, altErr := p.parseWithMapping(content, p.altMapping)
		if altErr == nil && altResult.ValidRows > 0 {
			return altResult, nil
		}
	}

	return result, nil
}

// parseWithMapping parses content using the specified column mapping
func (p *Parser) parseWithMapping(content []byte, mapping *XlsxColumnMapping) (*types.ParseResult, error) {
	result := &types.ParseResult{
		Rows:     make([]types.PricingRow, 0),
		Errors:   make([]types.ParseError, 0),
		Warnings: make([]types.ParseWarning, 0),
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		result.Errors = append(result.Errors, types.ParseError{
			Message: fmt.Sprintf("Failed to parse Excel file: %v", err),
		})
		return result, nil
	}
	defer f.Close()

	sheetName, err := p.selectSheet(f)
	if err != nil {
		result.Errors = append(result.Errors, types.ParseError{
			Message: err.Error(),
		})
		return result, nil
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		result.Errors = append(result.Errors, types.ParseError{
			Message: fmt.Sprintf("Failed to read worksheet: %v", err),
		})
		return result, nil
	}

	if len(rows) == 0 {
		result.Warnings = append(result.Warnings, types.ParseWarning{
			Message: "Excel file is empty",
		})
		return result, nil
	}

	// Extract headers if present
	var headers []string
	dataStartRow := p.options.HeaderRowCount

	if p.options.HasHeader {
		headers = make([]string, len(rows[0]))
		for i, cell := range rows[0] {
			headers[i] = strings.TrimSpace(cell)
		}
		if dataStartRow == 0 {
			dataStartRow = 1
		}
	}

	if len(rows) > dataStartRow {
		result.TotalRows = len(rows) - dataStartRow
	}

	if mapping == nil {
		result.Errors = append(result.Errors, types.ParseError{
			Message: "No column mapping provided. Cannot map Excel columns to pricing fields.",
		})
		return result, nil
	}

	indices, err := p.buildColumnIndices(headers, mapping)
	if err != nil {
		result.Errors = append(result.Errors, types.ParseError{
			Message: err.Error(),
		})
		return result, nil
	}

	for i := dataStartRow; i < len(rows); i++ {
		rawRow := rows[i]
		rowNumber := i + 1 // 1-based for user-facing

		if p.options.SkipEmptyRows && isEmptyRow(rawRow) {
			continue
		}

		row, rowErrors := p.mapRowToPricing(rawRow, rowNumber, indices)
		result.Errors = append(result.Errors, rowErrors...)

		if row != nil {
			result.Rows = append(result.Rows, *row)
		}
	}

	result.ValidRows = len(result.Rows)
	return result, nil
}

// selectSheet selects the appropriate sheet from the workbook
func (p *Parser) selectSheet(f *excelize.File) (string, error) {
	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	if p.options.SheetNameOrIndex == nil {
		return sheetList[0], nil
	}

	switch v := p.options.SheetNameOrIndex.(type) {
	case int:
		if v >= len(sheetList) {
			return "", fmt.Errorf("sheet index %d not found. Workbook has %d sheets", v, len(sheetList))
		}
		return sheetList[v], nil
	case string:
		for _, name := range sheetList {
			if name == v {
				return name, nil
			}
		}
		return "", fmt.Errorf("sheet %q not found. Available sheets: %s", v, strings.Join(sheetList, ", "))
	default:
		return sheetList[0], nil
	}
}

// buildColumnIndices builds resolved column indices from the mapping
func (p *Parser) buildColumnIndices(headers []string, mapping *XlsxColumnMapping) (*ResolvedColumnIndices, error) {
	indices := NewResolvedColumnIndices()

	resolveIndex := func(col *XlsxColumnIndex) int {
		if col == nil {
			return InvalidIndex
		}

		if col.IsNumeric() {
			return *col.Index
		}

		if col.IsHeader() {
			headerLower := strings.ToLower(strings.TrimSpace(*col.Header))
			for i, h := range headers {
				if strings.ToLower(strings.TrimSpace(h)) == headerLower {
					return i
				}
			}
		}

		return InvalidIndex
	}

	// Required fields
	required := []struct {
		name string
		col  *XlsxColumnIndex
		dst  *int
	}{
		{"specNumber", &mapping.SpecNumber, &indices.SpecNumber},
		{"year", &mapping.Year, &indices.Year},
		{"make", &mapping.Make, &indices.Make},
		{"model", &mapping.Model, &indices.Model},
		{"trim", &mapping.Trim, &indices.Trim},
		{"msrp", &mapping.MSRP, &indices.MSRP},
		{"dealerNet", &mapping.DealerNet, &indices.DealerNet},
	}
	for _, r := range required {
		*r.dst = resolveIndex(r.col)
		if *r.dst == InvalidIndex {
			return nil, fmt.Errorf("column mapping missing required field: %s", r.name)
		}
	}

	// Optional fields
	indices.BodyType = resolveIndex(mapping.BodyType)
	indices.DriveType = resolveIndex(mapping.DriveType)
	indices.FactoryInvoice = resolveIndex(mapping.FactoryInvoice)
	indices.Level3Incentive = resolveIndex(mapping.Level3Incentive)
	indices.Level4Incentive = resolveIndex(mapping.Level4Incentive)

	return &indices, nil
}

// mapRowToPricing maps a raw worksheet row to a PricingRow
func (p *Parser) mapRowToPricing(rawRow []string, rowNumber int, indices *ResolvedColumnIndices) (*types.PricingRow, []types.ParseError) {
	var errors []types.ParseError

	getValue := func(idx int) string {
		if idx == InvalidIndex || idx >= len(rawRow) {
			return ""
		}
		return strings.TrimSpace(rawRow[idx])
	}

	addError := func(field, message, original string) {
		e := types.ParseError{
			RowNumber: types.IntPtr(rowNumber),
			Field:     types.StringPtr(field),
			Message:   message,
		}
		if original != "" {
			e.OriginalValue = types.StringPtr(original)
		}
		errors = append(errors, e)
	}

	requireString := func(field string, idx int) string {
		v := getValue(idx)
		if v == "" {
			addError(field, fmt.Sprintf("%s is required", field), "")
		}
		return v
	}

	requireAmount := func(field string, idx int) int64 {
		v := getValue(idx)
		if v == "" {
			addError(field, fmt.Sprintf("%s is required", field), "")
			return 0
		}
		parsed, err := csv.ParseAmount(v)
		if err != nil {
			addError(field, "Invalid amount value", v)
			return 0
		}
		return parsed
	}

	optionalAmount := func(field string, idx int) *int64 {
		v := getValue(idx)
		if v == "" {
			return nil
		}
		parsed, err := csv.ParseAmount(v)
		if err != nil {
			addError(field, "Invalid amount value", v)
			return nil
		}
		return &parsed
	}

	specNumber := requireString("specNumber", indices.SpecNumber)
	makeName := requireString("make", indices.Make)
	modelName := requireString("model", indices.Model)
	trimName := requireString("trim", indices.Trim)

	year := 0
	if yearStr := getValue(indices.Year); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1980 || parsed > 2100 {
			addError("year", "Invalid model year", yearStr)
		} else {
			year = parsed
		}
	} else {
		addError("year", "year is required", "")
	}

	msrp := requireAmount("msrp", indices.MSRP)
	dealerNet := requireAmount("dealerNet", indices.DealerNet)
	factoryInvoice := optionalAmount("factoryInvoice", indices.FactoryInvoice)
	level3 := optionalAmount("level3Incentive", indices.Level3Incentive)
	level4 := optionalAmount("level4Incentive", indices.Level4Incentive)

	if len(errors) > 0 {
		return nil, errors
	}

	invoice := dealerNet
	if factoryInvoice != nil {
		invoice = *factoryInvoice
	}

	var bodyType, driveType *string
	if v := getValue(indices.BodyType); v != "" {
		bodyType = &v
	}
	if v := getValue(indices.DriveType); v != "" {
		driveType = &v
	}

	rawDataJSON, _ := json.Marshal(rawRow)

	return &types.PricingRow{
		SpecNumber:      specNumber,
		Year:            year,
		Make:            makeName,
		Model:           modelName,
		Trim:            trimName,
		BodyType:        bodyType,
		DriveType:       driveType,
		MSRP:            msrp,
		FactoryInvoice:  invoice,
		DealerNet:       dealerNet,
		Level3Incentive: level3,
		Level4Incentive: level4,
		RowNumber:       rowNumber,
		RawData:         string(rawDataJSON),
	}, nil
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
