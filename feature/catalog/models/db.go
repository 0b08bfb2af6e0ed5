package models

import (
	"time"

	"catalog-tracker/core/reconcile"
	"catalog-tracker/core/snapshot"

	"github.com/shopspring/decimal"
)

// MainProduct represents the 'main_products' current-state table.
type MainProduct struct {
	MainProductID string `gorm:"column:main_product_id;primaryKey" csv:"main_product_id" json:"main_product_id"`
	Name          string `gorm:"column:name" csv:"name" json:"name"`
	Category      string `gorm:"column:category" csv:"category" json:"category"`
	BaseURL       string `gorm:"column:base_url" csv:"base_url" json:"base_url"`
	Tag           string `gorm:"column:tag" csv:"tag" json:"tag"`
}

// TableName overrides the table name.
func (MainProduct) TableName() string {
	return "main_products"
}

// FromProductRecord converts a snapshot record to the row form.
func FromProductRecord(p snapshot.ProductRecord) MainProduct {
	return MainProduct{
		MainProductID: p.MainProductID,
		Name:          p.Name,
		Category:      p.Category,
		BaseURL:       p.BaseURL,
		Tag:           p.Tag,
	}
}

// FitVariation represents the 'fit_variations' current-state table.
type FitVariation struct {
	UniqueFitID   string `gorm:"column:unique_fit_id;primaryKey" csv:"unique_fit_id" json:"unique_fit_id"`
	MainProductID string `gorm:"column:main_product_id;index" csv:"main_product_id" json:"main_product_id"`
	FitProductID  string `gorm:"column:fit_product_id" csv:"fit_product_id" json:"fit_product_id"`
	FitName       string `gorm:"column:fit_name" csv:"fit_name" json:"fit_name"`
}

// TableName overrides the table name.
func (FitVariation) TableName() string {
	return "fit_variations"
}

// FromFitRecord converts a snapshot record to the row form.
func FromFitRecord(f snapshot.FitRecord) FitVariation {
	return FitVariation{
		UniqueFitID:   f.UniqueFitID,
		MainProductID: f.MainProductID,
		FitProductID:  f.FitProductID,
		FitName:       f.FitName,
	}
}

// ColorVariation represents the 'color_variations' current-state table.
type ColorVariation struct {
	UniqueColorID  string `gorm:"column:unique_color_id;primaryKey" csv:"unique_color_id" json:"unique_color_id"`
	UniqueFitID    string `gorm:"column:unique_fit_id;index" csv:"unique_fit_id" json:"unique_fit_id"`
	MainProductID  string `gorm:"column:main_product_id;index" csv:"main_product_id" json:"main_product_id"`
	ColorProductID string `gorm:"column:color_product_id" csv:"color_product_id" json:"color_product_id"`
	ColorName      string `gorm:"column:color_name" csv:"color_name" json:"color_name"`
	ColorImageURL  string `gorm:"column:color_image_url" csv:"color_image_url" json:"color_image_url"`
	ColorURL       string `gorm:"column:color_url" csv:"color_url" json:"color_url"`
	Style          string `gorm:"column:style" csv:"style" json:"style"`
	Shown          bool   `gorm:"column:shown" csv:"shown" json:"shown"` // tinyint(1)
}

// TableName overrides the table name.
func (ColorVariation) TableName() string {
	return "color_variations"
}

// FromColorRecord converts a snapshot record to the row form.
func FromColorRecord(c snapshot.ColorRecord) ColorVariation {
	return ColorVariation{
		UniqueColorID:  c.UniqueColorID,
		UniqueFitID:    c.UniqueFitID,
		MainProductID:  c.MainProductID,
		ColorProductID: c.ColorProductID,
		ColorName:      c.ColorName,
		ColorImageURL:  c.ColorImageURL,
		ColorURL:       c.ColorURL,
		Style:          c.Style,
		Shown:          c.Shown,
	}
}

// SizeAvailability represents the 'size_availability' current-state table.
// Rows are overwritten on every reconciliation pass; they always reflect the
// latest known state.
type SizeAvailability struct {
	UniqueSizeID    string          `gorm:"column:unique_size_id;primaryKey" csv:"unique_size_id" json:"unique_size_id"`
	UniqueColorID   string          `gorm:"column:unique_color_id;index" csv:"unique_color_id" json:"unique_color_id"`
	UniqueFitID     string          `gorm:"column:unique_fit_id" csv:"unique_fit_id" json:"unique_fit_id"`
	ColorProductID  string          `gorm:"column:color_product_id" csv:"color_product_id" json:"color_product_id"`
	MainProductID   string          `gorm:"column:main_product_id;index" csv:"main_product_id" json:"main_product_id"`
	ColorName       string          `gorm:"column:color_name" csv:"color_name" json:"color_name"`
	FitName         string          `gorm:"column:fit_name" csv:"fit_name" json:"fit_name"`
	Size            string          `gorm:"column:size" csv:"size" json:"size"`
	SizeLabel       string          `gorm:"column:size_label" csv:"size_label" json:"size_label"`
	Available       bool            `gorm:"column:available" csv:"available" json:"available"` // tinyint(1)
	Price           decimal.Decimal `gorm:"column:price;type:decimal(10,2)" csv:"price" json:"price"`
	OriginalPrice   decimal.Decimal `gorm:"column:original_price;type:decimal(10,2)" csv:"original_price" json:"original_price"`
	DiscountPercent int             `gorm:"column:discount_percent" csv:"discount_percent" json:"discount_percent"`
}

// TableName overrides the table name.
func (SizeAvailability) TableName() string {
	return "size_availability"
}

// FromSizeRow converts a validated snapshot row to the row form.
func FromSizeRow(r snapshot.RawSizeRow) SizeAvailability {
	return SizeAvailability{
		UniqueSizeID:    r.UniqueSizeID,
		UniqueColorID:   r.UniqueColorID,
		UniqueFitID:     r.UniqueFitID,
		ColorProductID:  r.ColorProductID,
		MainProductID:   r.ProductKey(),
		ColorName:       r.ColorName,
		FitName:         r.FitName,
		Size:            r.Size,
		SizeLabel:       r.SizeLabel,
		Available:       r.Available,
		Price:           r.Price,
		OriginalPrice:   r.OriginalPrice,
		DiscountPercent: r.DiscountPercent,
	}
}

// ToSizeRow converts the stored row back to the comparable snapshot form.
func (s SizeAvailability) ToSizeRow() snapshot.RawSizeRow {
	return snapshot.RawSizeRow{
		UniqueSizeID:    s.UniqueSizeID,
		UniqueColorID:   s.UniqueColorID,
		UniqueFitID:     s.UniqueFitID,
		ColorProductID:  s.ColorProductID,
		MainProductID:   s.MainProductID,
		ColorName:       s.ColorName,
		FitName:         s.FitName,
		Size:            s.Size,
		SizeLabel:       s.SizeLabel,
		Available:       s.Available,
		Price:           s.Price,
		OriginalPrice:   s.OriginalPrice,
		DiscountPercent: s.DiscountPercent,
	}
}

// HistoricalChange represents the 'historical_changes' append-only table.
// The primary key is a surrogate change_id so one size row can accumulate
// any number of events; unique_size_id is an indexed column.
type HistoricalChange struct {
	ChangeID         string          `gorm:"column:change_id;primaryKey" csv:"change_id" json:"change_id"`
	UniqueSizeID     string          `gorm:"column:unique_size_id;index" csv:"unique_size_id" json:"unique_size_id"`
	UniqueColorID    string          `gorm:"column:unique_color_id" csv:"unique_color_id" json:"unique_color_id"`
	ColorProductID   string          `gorm:"column:color_product_id" csv:"color_product_id" json:"color_product_id"`
	Size             string          `gorm:"column:size" csv:"size" json:"size"`
	SizeLabel        string          `gorm:"column:size_label" csv:"size_label" json:"size_label"`
	CaptureTimestamp time.Time       `gorm:"column:capture_timestamp;index" csv:"capture_timestamp" json:"capture_timestamp"`
	Available        bool            `gorm:"column:available" csv:"available" json:"available"` // tinyint(1)
	Price            decimal.Decimal `gorm:"column:price;type:decimal(10,2)" csv:"price" json:"price"`
	OriginalPrice    decimal.Decimal `gorm:"column:original_price;type:decimal(10,2)" csv:"original_price" json:"original_price"`
	DiscountPercent  int             `gorm:"column:discount_percent" csv:"discount_percent" json:"discount_percent"`
	ChangeType       string          `gorm:"column:change_type" csv:"change_type" json:"change_type"`
}

// TableName overrides the table name.
func (HistoricalChange) TableName() string {
	return "historical_changes"
}

// FromChangeEvent converts an engine event to the row form.
func FromChangeEvent(ev reconcile.HistoricalChange) HistoricalChange {
	return HistoricalChange{
		ChangeID:         ev.ChangeID,
		UniqueSizeID:     ev.UniqueSizeID,
		UniqueColorID:    ev.UniqueColorID,
		ColorProductID:   ev.ColorProductID,
		Size:             ev.Size,
		SizeLabel:        ev.SizeLabel,
		CaptureTimestamp: ev.Timestamp,
		Available:        ev.Available,
		Price:            ev.Price,
		OriginalPrice:    ev.OriginalPrice,
		DiscountPercent:  ev.DiscountPercent,
		ChangeType:       string(ev.ChangeType),
	}
}

// ToChangeEvent converts the stored row back to the engine form.
func (h HistoricalChange) ToChangeEvent() reconcile.HistoricalChange {
	return reconcile.HistoricalChange{
		ChangeID:        h.ChangeID,
		UniqueSizeID:    h.UniqueSizeID,
		UniqueColorID:   h.UniqueColorID,
		ColorProductID:  h.ColorProductID,
		Size:            h.Size,
		SizeLabel:       h.SizeLabel,
		Timestamp:       h.CaptureTimestamp,
		Available:       h.Available,
		Price:           h.Price,
		OriginalPrice:   h.OriginalPrice,
		DiscountPercent: h.DiscountPercent,
		ChangeType:      reconcile.ChangeType(h.ChangeType),
	}
}
