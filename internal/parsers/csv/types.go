package csv

// CsvDelimiter represents supported CSV delimiters
type CsvDelimiter string

const (
	DelimiterComma     CsvDelimiter = ","
	DelimiterSemicolon CsvDelimiter = ";"
	DelimiterTab       CsvDelimiter = "\t"
)

// CsvEncoding represents supported encodings
type CsvEncoding string

const (
	EncodingUTF8        CsvEncoding = "utf-8"
	EncodingWindows1252 CsvEncoding = "windows-1252"
	EncodingISO88591    CsvEncoding = "iso-8859-1"
)

// CsvColumnMapping maps PricingRow field names to CSV column indices or header names
type CsvColumnMapping struct {
	SpecNumber      string  `json:"specNumber"`
	Year            string  `json:"year"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Trim            string  `json:"trim"`
	BodyType        *string `json:"bodyType,omitempty"`
	DriveType       *string `json:"driveType,omitempty"`
	MSRP            string  `json:"msrp"`
	FactoryInvoice  *string `json:"factoryInvoice,omitempty"`
	DealerNet       string  `json:"dealerNet"`
	Level3Incentive *string `json:"level3Incentive,omitempty"`
	Level4Incentive *string `json:"level4Incentive,omitempty"`
}

// DefaultColumnMapping returns the header names used by standard dealer sheets
func DefaultColumnMapping() *CsvColumnMapping {
	bodyType := "Body Type"
	driveType := "Drive Type"
	invoice := "Factory Dealer Invoice"
	level3 := "Level 3 Incentive"
	level4 := "Level 4 Incentive"
	return &CsvColumnMapping{
		SpecNumber:      "Spec Number",
		Year:            "Year",
		Make:            "Make",
		Model:           "Model",
		Trim:            "Trim",
		BodyType:        &bodyType,
		DriveType:       &driveType,
		MSRP:            "MSRP",
		FactoryInvoice:  &invoice,
		DealerNet:       "Dealer Net",
		Level3Incentive: &level3,
		Level4Incentive: &level4,
	}
}

// CsvParserOptions represents CSV parser options
type CsvParserOptions struct {
	Delimiter     CsvDelimiter      `json:"delimiter,omitempty"`
	Encoding      CsvEncoding       `json:"encoding,omitempty"`
	HasHeader     bool              `json:"hasHeader,omitempty"`
	ColumnMapping *CsvColumnMapping `json:"columnMapping,omitempty"`
	SkipEmptyRows bool              `json:"skipEmptyRows,omitempty"`
	QuoteChar     rune              `json:"quoteChar,omitempty"`
}

// DefaultOptions returns default CSV parser options
func DefaultOptions() CsvParserOptions {
	return CsvParserOptions{
		Delimiter:     DelimiterComma,
		Encoding:      EncodingUTF8,
		HasHeader:     true,
		ColumnMapping: DefaultColumnMapping(),
		SkipEmptyRows: true,
		QuoteChar:     '"',
	}
}
