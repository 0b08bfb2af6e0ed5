package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"int one", 1, true},
		{"int zero", 0, false},
		{"string true", "true", true},
		{"string TRUE", "TRUE", true},
		{"string one", "1", true},
		{"string false", "false", false},
		{"bytes true", []byte("true"), true},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToBool(tt.input))
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"plain", "100", "100", true},
		{"decimal", "89.97", "89.97", true},
		{"currency symbol", "$120.00", "120", true},
		{"thousands separator", "1,150.00", "1150", true},
		{"whitespace", "  99.99 ", "99.99", true},
		{"not available", "N/A", "0", false},
		{"empty", "", "0", false},
		{"dash", "-", "0", false},
		{"garbage", "free", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseMoney(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, d.Equal(decimal.RequireFromString(tt.expected)), "got %s", d)
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		ok       bool
	}{
		{"plain", "25", 25, true},
		{"with suffix", "25% off", 25, true},
		{"zero", "0", 0, true},
		{"not available", "N/A", 0, false},
		{"empty", "", 0, false},
		{"no digits", "off", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := ParsePercent(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}
