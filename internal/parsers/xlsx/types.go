package xlsx

// InvalidIndex marks a column that could not be resolved
const InvalidIndex = -1

// XlsxColumnIndex identifies a column either by 0-based position or header name
type XlsxColumnIndex struct {
	Index  *int    `json:"index,omitempty"`
	Header *string `json:"header,omitempty"`
}

// NewNumericIndex creates a column index from a numeric position
func NewNumericIndex(index int) XlsxColumnIndex {
	return XlsxColumnIndex{Index: &index}
}

// NewHeaderIndex creates a column index from a header name
func NewHeaderIndex(header string) XlsxColumnIndex {
	return XlsxColumnIndex{Header: &header}
}

// IsNumeric reports whether the column is identified by position
func (c *XlsxColumnIndex) IsNumeric() bool {
	return c != nil && c.Index != nil
}

// IsHeader reports whether the column is identified by header name
func (c *XlsxColumnIndex) IsHeader() bool {
	return c != nil && c.Header != nil
}

func headerIndexPtr(name string) *XlsxColumnIndex {
	idx := NewHeaderIndex(name)
	return &idx
}

// XlsxColumnMapping maps PricingRow fields to worksheet columns
type XlsxColumnMapping struct {
	SpecNumber      XlsxColumnIndex  `json:"specNumber"`
	Year            XlsxColumnIndex  `json:"year"`
	Make            XlsxColumnIndex  `json:"make"`
	Model           XlsxColumnIndex  `json:"model"`
	Trim            XlsxColumnIndex  `json:"trim"`
	BodyType        *XlsxColumnIndex `json:"bodyType,omitempty"`
	DriveType       *XlsxColumnIndex `json:"driveType,omitempty"`
	MSRP            XlsxColumnIndex  `json:"msrp"`
	FactoryInvoice  *XlsxColumnIndex `json:"factoryInvoice,omitempty"`
	DealerNet       XlsxColumnIndex  `json:"dealerNet"`
	Level3Incentive *XlsxColumnIndex `json:"level3Incentive,omitempty"`
	Level4Incentive *XlsxColumnIndex `json:"level4Incentive,omitempty"`
}

// DefaultColumnMapping returns the header names used by standard dealer workbooks
func DefaultColumnMapping() *XlsxColumnMapping {
	return &XlsxColumnMapping{
		SpecNumber:      NewHeaderIndex("Spec Number"),
		Year:            NewHeaderIndex("Year"),
		Make:            NewHeaderIndex("Make"),
		Model:           NewHeaderIndex("Model"),
		Trim:            NewHeaderIndex("Trim"),
		BodyType:        headerIndexPtr("Body Type"),
		DriveType:       headerIndexPtr("Drive Type"),
		MSRP:            NewHeaderIndex("MSRP"),
		FactoryInvoice:  headerIndexPtr("Factory Dealer Invoice"),
		DealerNet:       NewHeaderIndex("Dealer Net"),
		Level3Incentive: headerIndexPtr("Level 3 Incentive"),
		Level4Incentive: headerIndexPtr("Level 4 Incentive"),
	}
}

// ResolvedColumnIndices holds the resolved worksheet position for each field
type ResolvedColumnIndices struct {
	SpecNumber      int
	Year            int
	Make            int
	Model           int
	Trim            int
	BodyType        int
	DriveType       int
	MSRP            int
	FactoryInvoice  int
	DealerNet       int
	Level3Incentive int
	Level4Incentive int
}

// NewResolvedColumnIndices returns indices with every field unresolved
func NewResolvedColumnIndices() ResolvedColumnIndices {
	return ResolvedColumnIndices{
		SpecNumber:      InvalidIndex,
		Year:            InvalidIndex,
		Make:            InvalidIndex,
		Model:           InvalidIndex,
		Trim:            InvalidIndex,
		BodyType:        InvalidIndex,
		DriveType:       InvalidIndex,
		MSRP:            InvalidIndex,
		FactoryInvoice:  InvalidIndex,
		DealerNet:       InvalidIndex,
		Level3Incentive: InvalidIndex,
		Level4Incentive: InvalidIndex,
	}
}

// XlsxParserOptions represents XLSX parser options
type XlsxParserOptions struct {
	ColumnMapping    *XlsxColumnMapping `json:"columnMapping,omitempty"`
	HasHeader        bool               `json:"hasHeader,omitempty"`
	HeaderRowCount   int                `json:"headerRowCount,omitempty"`
	SkipEmptyRows    bool               `json:"skipEmptyRows,omitempty"`
	SheetNameOrIndex interface{}        `json:"sheetNameOrIndex,omitempty"`
}

// DefaultOptions returns default XLSX parser options
func DefaultOptions() XlsxParserOptions {
	return XlsxParserOptions{
		ColumnMapping: DefaultColumnMapping(),
		HasHeader:     true,
		SkipEmptyRows: true,
	}
}
