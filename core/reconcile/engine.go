package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"catalog-tracker/core/snapshot"
)

// errDryRun forces the transaction to roll back after a dry-run pass has
// computed its result.
var errDryRun = errors.New("reconcile: dry run rollback")

// Engine runs reconciliation passes against a Backend. A single Engine
// serializes its passes with an in-process mutex: one pass owns exclusive
// write access to the store and history for the duration of its commit.
type Engine struct {
	backend Backend
	now     func() time.Time
	dryRun  bool

	mu sync.Mutex
}

// New creates an Engine.
func New(backend Backend, opts Options) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		backend: backend,
		now:     now,
		dryRun:  opts.DryRun,
	}
}

// Run executes one reconciliation pass: it diffs the snapshot against stored
// current state, upserts the new state, and appends the detected changes to
// the history log as one atomic batch. Either everything commits or nothing
// does.
//
// The result's event list is deterministic: observed rows in size-id order,
// then removals in size-id order, all stamped with a single pass timestamp.
func (e *Engine) Run(ctx context.Context, snap *snapshot.Snapshot) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	passTime := e.now()

	var result *Result
	err := e.backend.RunInTransaction(ctx, func(store Store, history History) error {
		r, err := runPass(ctx, store, history, snap, passTime)
		if err != nil {
			return err
		}
		result = r
		if e.dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, err
	}
	return result, nil
}

func runPass(ctx context.Context, store Store, history History, snap *snapshot.Snapshot, passTime time.Time) (*Result, error) {
	result := &Result{}
	result.Summary.Observed = snap.Len()

	// Prior ids first: the set must reflect state before this pass's
	// upserts, and is bounded to the products actually visited.
	priorIDs, err := store.CurrentSizeIDs(ctx, snap.ProductIDs())
	if err != nil {
		return nil, err
	}

	// Parents before children: product, fit, color.
	issues, err := store.UpsertEntities(ctx, snap)
	if err != nil {
		return nil, err
	}
	result.IntegrityIssues = append(result.IntegrityIssues, issues...)

	observed := make(map[string]struct{}, snap.Len())
	for _, row := range snap.SizeRows() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		observed[row.UniqueSizeID] = struct{}{}

		prior, found, err := store.CurrentSizeRow(ctx, row.UniqueSizeID)
		if err != nil {
			return nil, err
		}

		// Upsert unconditionally, before deciding on an event: a row whose
		// upsert is rejected must not log a change either.
		if err := store.UpsertSizeRow(ctx, row); err != nil {
			if ref, ok := err.(*ReferentialIntegrityError); ok {
				result.IntegrityIssues = append(result.IntegrityIssues, *ref)
				continue
			}
			return nil, err
		}

		if !found {
			result.Events = append(result.Events, eventFromRow(row, ChangeNew, passTime))
			result.Summary.New++
			continue
		}

		switch classify(prior, row) {
		case ChangeAvailability:
			result.Events = append(result.Events, eventFromRow(row, ChangeAvailability, passTime))
			result.Summary.AvailabilityChanges++
		case ChangePrice:
			result.Events = append(result.Events, eventFromRow(row, ChangePrice, passTime))
			result.Summary.PriceChanges++
		case ChangeDiscount:
			result.Events = append(result.Events, eventFromRow(row, ChangeDiscount, passTime))
			result.Summary.DiscountChanges++
		default:
			result.Summary.Unchanged++
		}
	}

	// Rows on file before the pass but not seen this pass. The current-state
	// row stays in place; removal is logical, recorded only in history.
	removedIDs := make([]string, 0)
	for id := range priorIDs {
		if _, seen := observed[id]; !seen {
			removedIDs = append(removedIDs, id)
		}
	}
	sort.Strings(removedIDs)

	for _, id := range removedIDs {
		prior, found, err := store.CurrentSizeRow(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			// Listed a moment ago within the same transaction.
			continue
		}
		result.Events = append(result.Events, eventFromRow(prior, ChangeRemoved, passTime))
		result.Summary.Removed++
	}

	result.Summary.IntegrityIssues = len(result.IntegrityIssues)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := history.Append(ctx, result.Events); err != nil {
		return nil, err
	}

	return result, nil
}

// classify compares two states of one size row in fixed priority order:
// availability before price before discount. At most one change type fires
// per row per pass.
func classify(prior, current snapshot.RawSizeRow) ChangeType {
	if prior.Available != current.Available {
		return ChangeAvailability
	}
	// Exact equality on the decimal representation; prices are fixed-point
	// business values, never compared with a float tolerance.
	if !prior.Price.Equal(current.Price) || !prior.OriginalPrice.Equal(current.OriginalPrice) {
		return ChangePrice
	}
	if prior.DiscountPercent != current.DiscountPercent {
		return ChangeDiscount
	}
	return ""
}

func eventFromRow(row snapshot.RawSizeRow, changeType ChangeType, ts time.Time) HistoricalChange {
	return HistoricalChange{
		UniqueSizeID:    row.UniqueSizeID,
		UniqueColorID:   row.UniqueColorID,
		ColorProductID:  row.ColorProductID,
		Size:            row.Size,
		SizeLabel:       row.SizeLabel,
		Timestamp:       ts,
		Available:       row.Available,
		Price:           row.Price,
		OriginalPrice:   row.OriginalPrice,
		DiscountPercent: row.DiscountPercent,
		ChangeType:      changeType,
	}
}
