package catalog

import (
	"context"
	"fmt"
	"time"

	"catalog-tracker/feature/catalog/models"

	"gorm.io/gorm"
)

// ChangeStats summarizes the historical_changes table for reporting.
type ChangeStats struct {
	TotalChanges  int64            `json:"total_changes"`
	DistinctSizes int64            `json:"distinct_sizes"`
	Passes        int64            `json:"passes"`
	ByType        map[string]int64 `json:"by_type"`
	FirstCapture  *time.Time       `json:"first_capture,omitempty"`
	LastCapture   *time.Time       `json:"last_capture,omitempty"`
}

func listMainProducts(ctx context.Context, db *gorm.DB) ([]models.MainProduct, error) {
	var rows []models.MainProduct
	err := db.WithContext(ctx).Order("main_product_id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list main products: %w", err)
	}
	return rows, nil
}

func listColorsForProduct(ctx context.Context, db *gorm.DB, mainProductID string) ([]models.ColorVariation, error) {
	var rows []models.ColorVariation
	err := db.WithContext(ctx).
		Where("main_product_id = ?", mainProductID).
		Order("unique_color_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list colors for %s: %w", mainProductID, err)
	}
	return rows, nil
}

func listSizesForColor(ctx context.Context, db *gorm.DB, uniqueColorID string) ([]models.SizeAvailability, error) {
	var rows []models.SizeAvailability
	err := db.WithContext(ctx).
		Where("unique_color_id = ?", uniqueColorID).
		Order("unique_size_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list sizes for %s: %w", uniqueColorID, err)
	}
	return rows, nil
}

func historyForSize(ctx context.Context, db *gorm.DB, uniqueSizeID string, limit int) ([]models.HistoricalChange, error) {
	q := db.WithContext(ctx).
		Where("unique_size_id = ?", uniqueSizeID).
		Order("capture_timestamp DESC, change_id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []models.HistoricalChange
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("history for %s: %w", uniqueSizeID, err)
	}
	return rows, nil
}

// latestChangePerSize returns the newest event for every size row that has
// any history, keyed by capture order. Ties on timestamp within the same
// pass are broken by change_id so the result is stable.
func latestChangePerSize(ctx context.Context, db *gorm.DB) ([]models.HistoricalChange, error) {
	sub := db.Model(&models.HistoricalChange{}).
		Select("unique_size_id, MAX(capture_timestamp) AS max_ts").
		Group("unique_size_id")

	var rows []models.HistoricalChange
	err := db.WithContext(ctx).
		Model(&models.HistoricalChange{}).
		Joins("JOIN (?) latest ON historical_changes.unique_size_id = latest.unique_size_id AND historical_changes.capture_timestamp = latest.max_ts", sub).
		Order("historical_changes.unique_size_id, historical_changes.change_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("latest change per size: %w", err)
	}
	return rows, nil
}

func changeStats(ctx context.Context, db *gorm.DB) (*ChangeStats, error) {
	stats := &ChangeStats{ByType: make(map[string]int64)}

	model := db.WithContext(ctx).Model(&models.HistoricalChange{})

	if err := model.Session(&gorm.Session{}).Count(&stats.TotalChanges).Error; err != nil {
		return nil, fmt.Errorf("change stats: %w", err)
	}
	if err := model.Session(&gorm.Session{}).
		Distinct("unique_size_id").
		Count(&stats.DistinctSizes).Error; err != nil {
		return nil, fmt.Errorf("change stats: %w", err)
	}
	if err := model.Session(&gorm.Session{}).
		Distinct("capture_timestamp").
		Count(&stats.Passes).Error; err != nil {
		return nil, fmt.Errorf("change stats: %w", err)
	}

	var perType []struct {
		ChangeType string
		Total      int64
	}
	if err := model.Session(&gorm.Session{}).
		Select("change_type, COUNT(*) AS total").
		Group("change_type").
		Scan(&perType).Error; err != nil {
		return nil, fmt.Errorf("change stats: %w", err)
	}
	for _, row := range perType {
		stats.ByType[row.ChangeType] = row.Total
	}

	if stats.TotalChanges > 0 {
		var bounds struct {
			First time.Time
			Last  time.Time
		}
		if err := model.Session(&gorm.Session{}).
			Select("MIN(capture_timestamp) AS first, MAX(capture_timestamp) AS last").
			Scan(&bounds).Error; err != nil {
			return nil, fmt.Errorf("change stats: %w", err)
		}
		stats.FirstCapture = &bounds.First
		stats.LastCapture = &bounds.Last
	}

	return stats, nil
}
