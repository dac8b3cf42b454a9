package types

import "time"

// FileType represents supported pricing sheet file types
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// PricingRow represents a normalized row from a dealer pricing sheet
type PricingRow struct {
	SpecNumber      string  `json:"specNumber"`
	Year            int     `json:"year"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Trim            string  `json:"trim"`
	BodyType        *string `json:"bodyType,omitempty"`
	DriveType       *string `json:"driveType,omitempty"`
	MSRP            int64   `json:"msrp"`
	FactoryInvoice  int64   `json:"factoryInvoice"`
	DealerNet       int64   `json:"dealerNet"`
	Level3Incentive *int64  `json:"level3Incentive,omitempty"`
	Level4Incentive *int64  `json:"level4Incentive,omitempty"`
	RowNumber       int     `json:"rowNumber"`
	RawData         string  `json:"rawData"`
}

// ParseError represents a parsing error
type ParseError struct {
	RowNumber     *int    `json:"rowNumber,omitempty"`
	Field         *string `json:"field,omitempty"`
	Message       string  `json:"message"`
	OriginalValue *string `json:"originalValue,omitempty"`
}

// ParseWarning represents a parsing warning
type ParseWarning struct {
	RowNumber *int    `json:"rowNumber,omitempty"`
	Field     *string `json:"field,omitempty"`
	Message   string  `json:"message"`
}

// ParseResult represents result of parsing one pricing sheet
type ParseResult struct {
	Rows      []PricingRow   `json:"rows"`
	Errors    []ParseError   `json:"errors,omitempty"`
	Warnings  []ParseWarning `json:"warnings,omitempty"`
	TotalRows int            `json:"totalRows"`
	ValidRows int            `json:"validRows"`
}

// IngestionSource represents source of an ingestion run
type IngestionSource string

const (
	SourceCLI IngestionSource = "cli"
	SourceAPI IngestionSource = "api"
)

// IngestionStatus represents status of an ingestion run
type IngestionStatus string

const (
	StatusPending     IngestionStatus = "pending"
	StatusRunning     IngestionStatus = "running"
	StatusCompleted   IngestionStatus = "completed"
	StatusFailed      IngestionStatus = "failed"
	StatusInterrupted IngestionStatus = "interrupted"
)

// ErrorSeverity represents severity levels
type ErrorSeverity string

const (
	SeverityWarning ErrorSeverity = "warning"
	SeverityError   ErrorSeverity = "error"
)

// IngestionErrorType represents error types for ingestion errors
type IngestionErrorType string

const (
	ErrorTypeParse      IngestionErrorType = "parse"
	ErrorTypeValidation IngestionErrorType = "validation"
	ErrorTypePersist    IngestionErrorType = "persist"
	ErrorTypeUnknown    IngestionErrorType = "unknown"
)

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int
func IntPtr(i int) *int {
	return &i
}

// Int64Ptr returns a pointer to the given int64
func Int64Ptr(i int64) *int64 {
	return &i
}

// TimePtr returns a pointer to the given time
func TimePtr(t time.Time) *time.Time {
	return &t
}
