package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetcart/catalog-service/internal/types"
)

func TestFileTypeOf(t *testing.T) {
	tests := []struct {
		filename string
		expected types.FileType
	}{
		{"fleet_pricing_2024.csv", types.FileTypeCSV},
		{"FLEET_PRICING.CSV", types.FileTypeCSV},
		{"dealer_net_q3.xlsx", types.FileTypeXLSX},
		{"sheet.xlsm", types.FileTypeXLSX},
		{"export.txt", types.FileTypeCSV},
		{"notes.pdf", types.FileType("")},
		{"no_extension", types.FileType("")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FileTypeOf(tt.filename), tt.filename)
	}
}

func TestParsePicksCSVParser(t *testing.T) {
	ing := New(nil, 2)

	content := []byte("Spec Number,Year,Make,Model,Trim,MSRP,Dealer Net\n" +
		"FL-1,2024,Nissan,Altima,SV,28140,26200\n")

	result, err := ing.parse(content, "pricing.csv")
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ValidRows)
}

func TestParseRejectsUnknownType(t *testing.T) {
	ing := New(nil, 2)

	_, err := ing.parse([]byte("whatever"), "pricing.pdf")
	assert.Error(t, err)
}
