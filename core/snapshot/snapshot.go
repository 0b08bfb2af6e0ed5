package snapshot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RawSizeRow is one size-level record as produced by the scraper. The
// scraper is an untrusted producer; rows pass through Build before any of
// them reach storage or the reconciler.
type RawSizeRow struct {
	UniqueSizeID    string          `csv:"unique_size_id" json:"unique_size_id"`
	UniqueColorID   string          `csv:"unique_color_id" json:"unique_color_id"`
	UniqueFitID     string          `csv:"unique_fit_id" json:"unique_fit_id"`
	ColorProductID  string          `csv:"color_product_id" json:"color_product_id"`
	MainProductID   string          `csv:"main_product_id" json:"main_product_id"`
	ColorName       string          `csv:"color_name" json:"color_name"`
	FitName         string          `csv:"fit_name" json:"fit_name"`
	Size            string          `csv:"size" json:"size"`
	SizeLabel       string          `csv:"size_label" json:"size_label"`
	Available       bool            `csv:"available" json:"available"`
	Price           decimal.Decimal `csv:"price" json:"price"`
	OriginalPrice   decimal.Decimal `csv:"original_price" json:"original_price"`
	DiscountPercent int             `csv:"discount_percent" json:"discount_percent"`
}

// ProductKey returns the owning main product id. Some scrape paths omit the
// denormalized column; the id convention keys size rows as
// <main_product_id>_<...>, so the first segment is authoritative.
func (r RawSizeRow) ProductKey() string {
	if r.MainProductID != "" {
		return r.MainProductID
	}
	if i := strings.Index(r.UniqueSizeID, "_"); i > 0 {
		return r.UniqueSizeID[:i]
	}
	return r.UniqueSizeID
}

// ProductRecord is one main product observed in the pass.
type ProductRecord struct {
	MainProductID string `csv:"main_product_id" json:"main_product_id"`
	Name          string `csv:"name" json:"name"`
	Category      string `csv:"category" json:"category"`
	BaseURL       string `csv:"base_url" json:"base_url"`
	Tag           string `csv:"tag" json:"tag"`
}

// FitRecord is one fit variation observed in the pass.
type FitRecord struct {
	UniqueFitID   string `csv:"unique_fit_id" json:"unique_fit_id"`
	MainProductID string `csv:"main_product_id" json:"main_product_id"`
	FitProductID  string `csv:"fit_product_id" json:"fit_product_id"`
	FitName       string `csv:"fit_name" json:"fit_name"`
}

// ColorRecord is one color variation observed in the pass.
type ColorRecord struct {
	UniqueColorID  string `csv:"unique_color_id" json:"unique_color_id"`
	UniqueFitID    string `csv:"unique_fit_id" json:"unique_fit_id"`
	MainProductID  string `csv:"main_product_id" json:"main_product_id"`
	ColorProductID string `csv:"color_product_id" json:"color_product_id"`
	ColorName      string `csv:"color_name" json:"color_name"`
	ColorImageURL  string `csv:"color_image_url" json:"color_image_url"`
	ColorURL       string `csv:"color_url" json:"color_url"`
	Style          string `csv:"style" json:"style"`
	Shown          bool   `csv:"shown" json:"shown"`
}

// ValidationError describes one rejected raw row. The row is dropped; the
// caller decides whether to log or fail.
type ValidationError struct {
	UniqueSizeID string
	Field        string
	Reason       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid size row %q: %s: %s", e.UniqueSizeID, e.Field, e.Reason)
}

// Snapshot is one complete scrape pass, validated and deduplicated, keyed
// by unique_size_id.
type Snapshot struct {
	rows     map[string]RawSizeRow
	products []ProductRecord
	fits     []FitRecord
	colors   []ColorRecord
}

// Build validates and deduplicates raw size rows into a Snapshot.
//
// Rows missing unique_size_id or unique_color_id, with a negative price, or
// with a discount outside [0, 100] are rejected and returned as validation
// errors; the remaining rows proceed. Duplicate unique_size_ids keep the
// last-observed row (last-write-wins within a pass), deterministic given
// input order.
func Build(rows []RawSizeRow) (*Snapshot, []ValidationError) {
	snap := &Snapshot{
		rows: make(map[string]RawSizeRow, len(rows)),
	}
	var rejected []ValidationError

	for _, r := range rows {
		if err := validate(r); err != nil {
			rejected = append(rejected, *err)
			continue
		}
		snap.rows[r.UniqueSizeID] = r
	}

	return snap, rejected
}

func validate(r RawSizeRow) *ValidationError {
	if r.UniqueSizeID == "" {
		return &ValidationError{Field: "unique_size_id", Reason: "missing"}
	}
	if r.UniqueColorID == "" {
		return &ValidationError{UniqueSizeID: r.UniqueSizeID, Field: "unique_color_id", Reason: "missing"}
	}
	if r.Price.IsNegative() {
		return &ValidationError{UniqueSizeID: r.UniqueSizeID, Field: "price", Reason: "negative"}
	}
	if r.OriginalPrice.IsNegative() {
		return &ValidationError{UniqueSizeID: r.UniqueSizeID, Field: "original_price", Reason: "negative"}
	}
	if r.DiscountPercent < 0 || r.DiscountPercent > 100 {
		return &ValidationError{UniqueSizeID: r.UniqueSizeID, Field: "discount_percent", Reason: "outside [0, 100]"}
	}
	return nil
}

// AttachProducts records the main products observed in the pass, deduplicated
// by main_product_id with last-write-wins.
func (s *Snapshot) AttachProducts(products []ProductRecord) {
	s.products = dedupeByKey(products, func(p ProductRecord) string { return p.MainProductID })
}

// AttachFits records the fit variations observed in the pass.
func (s *Snapshot) AttachFits(fits []FitRecord) {
	s.fits = dedupeByKey(fits, func(f FitRecord) string { return f.UniqueFitID })
}

// AttachColors records the color variations observed in the pass.
func (s *Snapshot) AttachColors(colors []ColorRecord) {
	s.colors = dedupeByKey(colors, func(c ColorRecord) string { return c.UniqueColorID })
}

// SizeRows returns each surviving size row exactly once, sorted by
// unique_size_id for deterministic traversal.
func (s *Snapshot) SizeRows() []RawSizeRow {
	ids := make([]string, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([]RawSizeRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, s.rows[id])
	}
	return rows
}

// Lookup returns the size row for the given unique_size_id.
func (s *Snapshot) Lookup(uniqueSizeID string) (RawSizeRow, bool) {
	r, ok := s.rows[uniqueSizeID]
	return r, ok
}

// Len returns the number of surviving size rows.
func (s *Snapshot) Len() int {
	return len(s.rows)
}

// ProductIDs returns the distinct main product ids covered by this pass,
// sorted. This is the reconciliation scope: only size rows belonging to
// these products are candidates for removal detection.
func (s *Snapshot) ProductIDs() []string {
	seen := make(map[string]struct{})
	for _, r := range s.rows {
		seen[r.ProductKey()] = struct{}{}
	}
	for _, p := range s.products {
		seen[p.MainProductID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Products returns the main products observed in the pass.
func (s *Snapshot) Products() []ProductRecord { return s.products }

// Fits returns the fit variations observed in the pass.
func (s *Snapshot) Fits() []FitRecord { return s.fits }

// Colors returns the color variations observed in the pass.
func (s *Snapshot) Colors() []ColorRecord { return s.colors }

func dedupeByKey[T any](items []T, key func(T) string) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}
