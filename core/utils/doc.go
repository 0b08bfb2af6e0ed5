// Package utils provides common utility functions for the catalog tracker.
// It includes tolerant conversion helpers for the raw values the scraper
// emits (availability flags, price strings with currency symbols, discount
// percentages with suffixes).
package utils
