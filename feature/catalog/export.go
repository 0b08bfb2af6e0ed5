package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"catalog-tracker/feature/catalog/models"

	"github.com/jszwec/csvutil"
	"gorm.io/gorm"
)

// ExportTables dumps the four current-state tables and the change log as
// CSV files in dir, one file per table, named after the table. Existing
// files are replaced.
func ExportTables(ctx context.Context, db *gorm.DB, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	if err := exportTable[models.MainProduct](ctx, db, dir); err != nil {
		return err
	}
	if err := exportTable[models.FitVariation](ctx, db, dir); err != nil {
		return err
	}
	if err := exportTable[models.ColorVariation](ctx, db, dir); err != nil {
		return err
	}
	if err := exportTable[models.SizeAvailability](ctx, db, dir); err != nil {
		return err
	}
	return exportTable[models.HistoricalChange](ctx, db, dir)
}

func exportTable[T interface{ TableName() string }](ctx context.Context, db *gorm.DB, dir string) error {
	var zero T
	table := zero.TableName()

	var rows []T
	if err := db.WithContext(ctx).Order(primaryOrder(table)).Find(&rows).Error; err != nil {
		return fmt.Errorf("read %s: %w", table, err)
	}

	f, err := os.Create(filepath.Join(dir, table+".csv"))
	if err != nil {
		return fmt.Errorf("create %s export: %w", table, err)
	}
	defer f.Close()

	if err := WriteCSV(f, rows); err != nil {
		return fmt.Errorf("write %s export: %w", table, err)
	}
	return f.Close()
}

// WriteCSV marshals rows with a header line. A nil or empty slice writes
// nothing rather than a lone header, which keeps empty tables producing
// empty files.
func WriteCSV[T any](w io.Writer, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := csvutil.Marshal(rows)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// primaryOrder keeps exports stable across runs so they diff cleanly.
func primaryOrder(table string) string {
	switch table {
	case "main_products":
		return "main_product_id"
	case "fit_variations":
		return "unique_fit_id"
	case "color_variations":
		return "unique_color_id"
	case "size_availability":
		return "unique_size_id"
	case "historical_changes":
		return "capture_timestamp, change_id"
	default:
		return "1"
	}
}
