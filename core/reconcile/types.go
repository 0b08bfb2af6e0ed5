package reconcile

import (
	"context"
	"time"

	"catalog-tracker/core/snapshot"

	"github.com/shopspring/decimal"
)

// ChangeType classifies one detected state transition for a size row.
type ChangeType string

const (
	// ChangeNew marks a size row observed for the first time.
	ChangeNew ChangeType = "NEW"
	// ChangeRemoved marks a size row that was on file but absent from the pass.
	ChangeRemoved ChangeType = "REMOVED"
	// ChangePrice marks a change of price or original price.
	ChangePrice ChangeType = "PRICE_CHANGE"
	// ChangeAvailability marks an availability flip.
	ChangeAvailability ChangeType = "AVAILABILITY_CHANGE"
	// ChangeDiscount marks a discount percentage change.
	ChangeDiscount ChangeType = "DISCOUNT_CHANGE"
)

// HistoricalChange is one append-only change event. Rows are keyed by a
// surrogate ChangeID so the same size row can change any number of times
// across passes; unique_size_id stays an indexed column.
type HistoricalChange struct {
	ChangeID        string          `json:"change_id"`
	UniqueSizeID    string          `json:"unique_size_id"`
	UniqueColorID   string          `json:"unique_color_id"`
	ColorProductID  string          `json:"color_product_id"`
	Size            string          `json:"size"`
	SizeLabel       string          `json:"size_label"`
	Timestamp       time.Time       `json:"timestamp"`
	Available       bool            `json:"available"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountPercent int             `json:"discount_percent"`
	ChangeType      ChangeType      `json:"change_type"`
}

// Store is the current-state side of a pass: the four snapshot tables with
// upsert-by-key semantics. Implementations are bound to the transaction the
// Backend opened, so every write below shares the pass's atomic boundary.
type Store interface {
	// UpsertEntities writes the pass's products, fits and colors in
	// dependency order (product, fit, color). Entities referencing a parent
	// known to neither this snapshot nor storage are skipped and reported;
	// they indicate a scraper defect, not a pass failure.
	UpsertEntities(ctx context.Context, snap *snapshot.Snapshot) ([]ReferentialIntegrityError, error)

	// UpsertSizeRow replaces the current-state row sharing the primary key,
	// inserting if absent. A *ReferentialIntegrityError return means the
	// row's color parent is unknown; the caller records it and moves on.
	UpsertSizeRow(ctx context.Context, row snapshot.RawSizeRow) error

	// CurrentSizeRow returns the stored "before" state for a size row.
	CurrentSizeRow(ctx context.Context, uniqueSizeID string) (snapshot.RawSizeRow, bool, error)

	// CurrentSizeIDs returns the ids of all size rows on file whose main
	// product is in scope. Bounding to the visited products keeps unscraped
	// products from generating spurious removals.
	CurrentSizeIDs(ctx context.Context, productIDs []string) (map[string]struct{}, error)
}

// History is the append-only side of a pass. Append writes all events or
// none; a duplicate change key is a KeyCollisionError, never an overwrite.
type History interface {
	Append(ctx context.Context, events []HistoricalChange) error
}

// Backend opens one atomic unit of work per reconciliation pass. If fn
// returns an error, nothing the pass wrote survives, neither current state
// nor history.
type Backend interface {
	RunInTransaction(ctx context.Context, fn func(store Store, history History) error) error
}

// Options configures an Engine.
type Options struct {
	// Now is the timestamp source for the pass. Defaults to time.Now.
	// Every event of a pass carries the same timestamp.
	Now func() time.Time

	// DryRun computes the full pass result and then rolls the transaction
	// back, persisting nothing.
	DryRun bool
}

// Summary aggregates a pass's outcome.
type Summary struct {
	// Observed is the number of size rows in the incoming snapshot.
	Observed int `json:"observed"`
	// New counts first-time size rows.
	New int `json:"new"`
	// Removed counts rows on file but absent from the pass.
	Removed int `json:"removed"`
	// PriceChanges counts price or original-price transitions.
	PriceChanges int `json:"price_changes"`
	// AvailabilityChanges counts availability flips.
	AvailabilityChanges int `json:"availability_changes"`
	// DiscountChanges counts discount transitions.
	DiscountChanges int `json:"discount_changes"`
	// Unchanged counts observed rows with no event.
	Unchanged int `json:"unchanged"`
	// IntegrityIssues counts entities skipped for missing parents.
	IntegrityIssues int `json:"integrity_issues"`
}

// Result is the full outcome of one reconciliation pass.
type Result struct {
	// Events in emission order: observed rows first (sorted by size id),
	// then removals (sorted by size id).
	Events []HistoricalChange `json:"events"`
	// IntegrityIssues are the skipped upserts; surfaced, never silently
	// dropped, since each one points at a scraper defect.
	IntegrityIssues []ReferentialIntegrityError `json:"integrity_issues"`
	Summary         Summary                     `json:"summary"`
}
