package catalog

import (
	"context"
	"errors"

	"catalog-tracker/core/reconcile"
	"catalog-tracker/core/snapshot"
	"catalog-tracker/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the current-state side of one reconciliation pass, bound to the
// transaction the Backend opened. It owns the four snapshot tables and
// nothing else; history is written by History so storage logic stays free
// of diffing rules.
type Store struct {
	db *gorm.DB

	// Parent-key caches for the duration of the pass. A key is known once
	// it was upserted by this pass or confirmed present in storage.
	knownProducts map[string]bool
	knownFits     map[string]bool
	knownColors   map[string]bool
}

// NewStore creates a Store bound to the given transaction handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		knownProducts: make(map[string]bool),
		knownFits:     make(map[string]bool),
		knownColors:   make(map[string]bool),
	}
}

// UpsertEntities writes products, fits and colors in dependency order.
// Entities whose parent is known to neither the snapshot nor storage are
// skipped and reported; they indicate a scraper defect upstream.
func (s *Store) UpsertEntities(ctx context.Context, snap *snapshot.Snapshot) ([]reconcile.ReferentialIntegrityError, error) {
	var issues []reconcile.ReferentialIntegrityError

	// Products have no parent.
	products := make([]models.MainProduct, 0, len(snap.Products()))
	for _, p := range snap.Products() {
		products = append(products, models.FromProductRecord(p))
		s.knownProducts[p.MainProductID] = true
	}
	if len(products) > 0 {
		if err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&products).Error; err != nil {
			return nil, &reconcile.StorageError{Op: "upsert main_products", Err: err}
		}
	}

	// Fits reference products.
	fits := make([]models.FitVariation, 0, len(snap.Fits()))
	for _, f := range snap.Fits() {
		ok, err := s.productKnown(ctx, f.MainProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			issues = append(issues, reconcile.ReferentialIntegrityError{
				Entity: "fit_variations",
				Key:    f.UniqueFitID,
				Parent: "main_products",
				Ref:    f.MainProductID,
			})
			continue
		}
		fits = append(fits, models.FromFitRecord(f))
		s.knownFits[f.UniqueFitID] = true
	}
	if len(fits) > 0 {
		if err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&fits).Error; err != nil {
			return nil, &reconcile.StorageError{Op: "upsert fit_variations", Err: err}
		}
	}

	// Colors reference fits.
	colors := make([]models.ColorVariation, 0, len(snap.Colors()))
	for _, c := range snap.Colors() {
		ok, err := s.fitKnown(ctx, c.UniqueFitID)
		if err != nil {
			return nil, err
		}
		if !ok {
			issues = append(issues, reconcile.ReferentialIntegrityError{
				Entity: "color_variations",
				Key:    c.UniqueColorID,
				Parent: "fit_variations",
				Ref:    c.UniqueFitID,
			})
			continue
		}
		colors = append(colors, models.FromColorRecord(c))
		s.knownColors[c.UniqueColorID] = true
	}
	if len(colors) > 0 {
		if err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&colors).Error; err != nil {
			return nil, &reconcile.StorageError{Op: "upsert color_variations", Err: err}
		}
	}

	return issues, nil
}

// UpsertSizeRow replaces the current-state row sharing the primary key,
// inserting if absent. The color parent must be known to this pass or to
// storage; otherwise the row is rejected with a ReferentialIntegrityError.
func (s *Store) UpsertSizeRow(ctx context.Context, row snapshot.RawSizeRow) error {
	ok, err := s.colorKnown(ctx, row.UniqueColorID)
	if err != nil {
		return err
	}
	if !ok {
		return &reconcile.ReferentialIntegrityError{
			Entity: "size_availability",
			Key:    row.UniqueSizeID,
			Parent: "color_variations",
			Ref:    row.UniqueColorID,
		}
	}

	record := models.FromSizeRow(row)
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record).Error; err != nil {
		return &reconcile.StorageError{Op: "upsert size_availability", Err: err}
	}
	return nil
}

// CurrentSizeRow returns the stored "before" state for one size row.
func (s *Store) CurrentSizeRow(ctx context.Context, uniqueSizeID string) (snapshot.RawSizeRow, bool, error) {
	var record models.SizeAvailability
	err := s.db.WithContext(ctx).
		Where("unique_size_id = ?", uniqueSizeID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snapshot.RawSizeRow{}, false, nil
	}
	if err != nil {
		return snapshot.RawSizeRow{}, false, &reconcile.StorageError{Op: "read size_availability", Err: err}
	}
	return record.ToSizeRow(), true, nil
}

// CurrentSizeIDs returns the ids of all size rows on file for the given
// products. Only visited products participate in removal detection.
func (s *Store) CurrentSizeIDs(ctx context.Context, productIDs []string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})
	if len(productIDs) == 0 {
		return ids, nil
	}

	var found []string
	err := s.db.WithContext(ctx).
		Model(&models.SizeAvailability{}).
		Where("main_product_id IN ?", productIDs).
		Pluck("unique_size_id", &found).Error
	if err != nil {
		return nil, &reconcile.StorageError{Op: "list size_availability ids", Err: err}
	}

	for _, id := range found {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (s *Store) productKnown(ctx context.Context, id string) (bool, error) {
	return s.parentKnown(ctx, s.knownProducts, &models.MainProduct{}, "main_product_id", id)
}

func (s *Store) fitKnown(ctx context.Context, id string) (bool, error) {
	return s.parentKnown(ctx, s.knownFits, &models.FitVariation{}, "unique_fit_id", id)
}

func (s *Store) colorKnown(ctx context.Context, id string) (bool, error) {
	return s.parentKnown(ctx, s.knownColors, &models.ColorVariation{}, "unique_color_id", id)
}

// parentKnown checks the pass cache first and falls back to one storage
// lookup per distinct key. Negative results are cached too: a parent absent
// at pass start cannot appear mid-pass since the pass owns the transaction.
func (s *Store) parentKnown(ctx context.Context, cache map[string]bool, model any, column, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	if known, ok := cache[id]; ok {
		return known, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(model).
		Where(column+" = ?", id).
		Count(&count).Error
	if err != nil {
		return false, &reconcile.StorageError{Op: "check " + column, Err: err}
	}

	cache[id] = count > 0
	return count > 0, nil
}
