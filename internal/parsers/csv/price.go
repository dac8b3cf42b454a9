package csv

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

var currencySuffix = regexp.MustCompile(`\s*(USD|CAD|EUR)\s*$`)

// ParseAmount parses a price string to whole currency units (int64)
// Handles various formats: "42500", "42,500", "42500.00", "$42,500 USD"
func ParseAmount(value string) (int64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty amount value")
	}

	// Remove currency symbols and whitespace
	cleaned := strings.TrimSpace(value)
	cleaned = strings.Map(func(r rune) rune {
		if r == '$' || r == '€' || r == '£' || r == ' ' {
			return -1
		}
		return r
	}, cleaned)

	// Remove trailing currency codes
	cleaned = strings.ToUpper(cleaned)
	cleaned = currencySuffix.ReplaceAllString(cleaned, "")

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value found")
	}

	negative := false
	if strings.HasPrefix(cleaned, "-") || strings.HasPrefix(cleaned, "(") {
		// Accounting sheets mark negatives with parentheses
		negative = true
		cleaned = strings.Trim(cleaned, "-()")
	}

	// Determine decimal separator. If a comma follows the last dot the
	// sheet uses European formatting, otherwise commas are thousands
	// separators
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	if lastComma > lastDot {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else if lastDot > lastComma {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	result, err := parseFloat(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount format: %w", err)
	}

	amount := int64(math.Round(result))
	if negative {
		amount = -amount
	}
	return amount, nil
}

// parseFloat safely parses a float with better error handling
func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	hasDigit := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return 0, fmt.Errorf("no digits found")
	}

	var result float64
	_, err := fmt.Sscanf(s, "%f", &result)
	if err != nil {
		return 0, err
	}

	return result, nil
}

// FormatAmount formats whole currency units with thousands separators (e.g. 42500 -> "42,500")
func FormatAmount(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%d", amount)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}

	if negative {
		return "-" + s
	}
	return s
}
