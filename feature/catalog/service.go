package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-tracker/core/database"
	"catalog-tracker/core/reconcile"
	"catalog-tracker/core/snapshot"
	"catalog-tracker/core/storage"
	"catalog-tracker/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service wires snapshot ingestion, the reconciliation engine, the archive
// bucket and the reporting queries together.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new catalog service. The storage client may be nil
// when snapshot archiving is not wanted (e.g. local dry runs).
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// schemaTables maps each table to the columns a pass writes. Checked before
// the first transaction so a migration gap fails fast instead of mid-pass.
var schemaTables = []struct {
	name    string
	columns []string
}{
	{"main_products", []string{"main_product_id", "name", "category", "base_url", "tag"}},
	{"fit_variations", []string{"unique_fit_id", "main_product_id", "fit_product_id", "fit_name"}},
	{"color_variations", []string{"unique_color_id", "unique_fit_id", "main_product_id", "color_product_id", "color_name", "color_image_url", "color_url", "style", "shown"}},
	{"size_availability", []string{"unique_size_id", "unique_color_id", "unique_fit_id", "color_product_id", "main_product_id", "color_name", "fit_name", "size", "size_label", "available", "price", "original_price", "discount_percent"}},
	{"historical_changes", []string{"change_id", "unique_size_id", "unique_color_id", "color_product_id", "size", "size_label", "capture_timestamp", "available", "price", "original_price", "discount_percent", "change_type"}},
}

// VerifySchema confirms every table a pass touches carries the expected
// columns.
func (s *Service) VerifySchema(ctx context.Context) error {
	for _, table := range schemaTables {
		missing, err := database.MissingColumns(s.db.WithContext(ctx), table.name, table.columns)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", table.name, err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns %v", table.name, missing)
		}
	}
	return nil
}

// Reconcile runs one pass over the snapshot. With dryRun the full diff is
// computed and reported but the transaction is rolled back. The raw
// snapshot is archived after a committed pass; archive failures are logged
// and never fail the pass, since the database is already consistent.
func (s *Service) Reconcile(ctx context.Context, snap *snapshot.Snapshot, dryRun bool) (*reconcile.Result, error) {
	if err := s.VerifySchema(ctx); err != nil {
		return nil, err
	}

	engine := reconcile.New(NewBackend(s.db), reconcile.Options{DryRun: dryRun})

	started := time.Now()
	result, err := engine.Run(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation pass finished",
		zap.Bool("dry_run", dryRun),
		zap.Duration("took", time.Since(started)),
		zap.Int("observed", result.Summary.Observed),
		zap.Int("new", result.Summary.New),
		zap.Int("removed", result.Summary.Removed),
		zap.Int("price_changes", result.Summary.PriceChanges),
		zap.Int("availability_changes", result.Summary.AvailabilityChanges),
		zap.Int("discount_changes", result.Summary.DiscountChanges),
		zap.Int("unchanged", result.Summary.Unchanged),
		zap.Int("integrity_issues", result.Summary.IntegrityIssues),
	)
	for _, issue := range result.IntegrityIssues {
		s.logger.Warn("referential integrity issue",
			zap.String("entity", issue.Entity),
			zap.String("key", issue.Key),
			zap.String("parent", issue.Parent),
			zap.String("ref", issue.Ref),
		)
	}

	if !dryRun && s.client != nil {
		if err := s.archiveSnapshot(ctx, snap, started); err != nil {
			s.logger.Warn("snapshot archive failed", zap.Error(err))
		}
	}

	return result, nil
}

// archiveSnapshot stores the validated snapshot as one JSON object per
// pass, keyed by start time.
func (s *Service) archiveSnapshot(ctx context.Context, snap *snapshot.Snapshot, started time.Time) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}

	payload := struct {
		CapturedAt time.Time             `json:"captured_at"`
		Rows       []snapshot.RawSizeRow `json:"rows"`
	}{
		CapturedAt: started.UTC(),
		Rows:       snap.SizeRows(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	object := "runs/" + started.UTC().Format("20060102T150405Z") + ".json"
	_, err = s.client.PutObject(ctx, s.bucket, object,
		bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("put %s: %w", object, err)
	}

	s.logger.Info("snapshot archived",
		zap.String("bucket", s.bucket),
		zap.String("object", object),
		zap.Int("rows", len(payload.Rows)),
	)
	return nil
}

// Export dumps every table as CSV files in dir.
func (s *Service) Export(ctx context.Context, dir string) error {
	return ExportTables(ctx, s.db, dir)
}

// Stats summarizes the change log.
func (s *Service) Stats(ctx context.Context) (*ChangeStats, error) {
	return changeStats(ctx, s.db)
}

// ListProducts returns every main product on file.
func (s *Service) ListProducts(ctx context.Context) ([]models.MainProduct, error) {
	return listMainProducts(ctx, s.db)
}

// ListColors returns the color variations of one main product.
func (s *Service) ListColors(ctx context.Context, mainProductID string) ([]models.ColorVariation, error) {
	return listColorsForProduct(ctx, s.db, mainProductID)
}

// ListSizes returns the size rows of one color variation.
func (s *Service) ListSizes(ctx context.Context, uniqueColorID string) ([]models.SizeAvailability, error) {
	return listSizesForColor(ctx, s.db, uniqueColorID)
}

// SizeHistory returns the change log of one size row, newest first.
func (s *Service) SizeHistory(ctx context.Context, uniqueSizeID string, limit int) ([]models.HistoricalChange, error) {
	return historyForSize(ctx, s.db, uniqueSizeID, limit)
}

// LatestChanges returns the newest event per size row.
func (s *Service) LatestChanges(ctx context.Context) ([]models.HistoricalChange, error) {
	return latestChangePerSize(ctx, s.db)
}
