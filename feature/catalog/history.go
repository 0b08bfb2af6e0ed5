package catalog

import (
	"context"
	"errors"

	"catalog-tracker/core/reconcile"
	"catalog-tracker/feature/catalog/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// History is the append-only side of one reconciliation pass, bound to the
// same transaction as the Store. Rows in historical_changes are never
// updated or deleted.
type History struct {
	db *gorm.DB
}

// NewHistory creates a History bound to the given transaction handle.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Append inserts one row per event. Events without a ChangeID are assigned
// a fresh uuid in place so the caller's result carries the persisted ids.
// A preset ChangeID that already exists aborts the pass: history rows are
// never overwritten.
func (h *History) Append(ctx context.Context, events []reconcile.HistoricalChange) error {
	if len(events) == 0 {
		return nil
	}

	var preset []string
	for i := range events {
		if events[i].ChangeID == "" {
			events[i].ChangeID = uuid.NewString()
			continue
		}
		preset = append(preset, events[i].ChangeID)
	}

	if len(preset) > 0 {
		var taken []string
		err := h.db.WithContext(ctx).
			Model(&models.HistoricalChange{}).
			Where("change_id IN ?", preset).
			Pluck("change_id", &taken).Error
		if err != nil {
			return &reconcile.StorageError{Op: "check historical_changes ids", Err: err}
		}
		if len(taken) > 0 {
			return &reconcile.KeyCollisionError{
				ChangeID:     taken[0],
				UniqueSizeID: sizeIDForChange(events, taken[0]),
			}
		}
	}

	rows := make([]models.HistoricalChange, 0, len(events))
	for _, ev := range events {
		rows = append(rows, models.FromChangeEvent(ev))
	}

	if err := h.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &reconcile.KeyCollisionError{ChangeID: rows[0].ChangeID}
		}
		return &reconcile.StorageError{Op: "append historical_changes", Err: err}
	}
	return nil
}

func sizeIDForChange(events []reconcile.HistoricalChange, changeID string) string {
	for _, ev := range events {
		if ev.ChangeID == changeID {
			return ev.UniqueSizeID
		}
	}
	return ""
}
