package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"42500", 42500},
		{"42,500", 42500},
		{"42500.00", 42500},
		{"$42,500", 42500},
		{"$42,500.00 USD", 42500},
		{"42.500,00", 42500},
		{"1,500", 1500},
		{"0", 0},
		{"(2,500)", -2500},
		{"-750", -750},
		{"28140.49", 28140},
		{"28140.50", 28141},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "N/A", "TBD", "$"} {
		_, err := ParseAmount(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "42,500", FormatAmount(42500))
	assert.Equal(t, "500", FormatAmount(500))
	assert.Equal(t, "1,234,567", FormatAmount(1234567))
	assert.Equal(t, "-2,500", FormatAmount(-2500))
	assert.Equal(t, "0", FormatAmount(0))
}
