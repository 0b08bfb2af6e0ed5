package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToBool converts scraped availability values to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "TRUE").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	case []byte:
		s := string(v)
		return s == "1" || strings.EqualFold(s, "true")
	default:
		return false
	}
}

// ParseMoney converts a scraped price string to a decimal value.
// Currency symbols, thousands separators and surrounding whitespace are
// stripped. Placeholder values ("N/A", "", "-") report ok=false.
func ParseMoney(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	if s == "" || s == "-" || strings.EqualFold(s, "n/a") {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePercent converts a scraped discount string ("25% off", "25") to an int.
// Placeholder values report ok=false.
func ParsePercent(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "n/a") {
		return 0, false
	}

	// Keep the leading numeric run; discards "% off" style suffixes.
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9') {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
