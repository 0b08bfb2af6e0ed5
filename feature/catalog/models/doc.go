// Package models defines the GORM row types for the five catalog tables:
// the four current-state tables (main_products, fit_variations,
// color_variations, size_availability) and the append-only
// historical_changes log.
//
// The schema is externally owned and fixed; these structs map to it exactly.
// Money columns use decimal(10,2) backed by shopspring/decimal so price
// comparisons are exact. Conversion helpers translate between row types and
// the snapshot / reconcile value types so the engine never imports GORM.
package models
