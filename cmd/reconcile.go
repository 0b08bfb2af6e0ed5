package cmd

import (
	"context"
	"fmt"

	"catalog-tracker/core/config"
	"catalog-tracker/core/database"
	"catalog-tracker/core/logger"
	"catalog-tracker/core/reconcile"
	"catalog-tracker/core/storage"
	"catalog-tracker/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the reconcile command
	sizesPath    string
	productsPath string
	fitsPath     string
	colorsPath   string
	dryRun       bool
)

// reconcileCmd runs one reconciliation pass over a scraped snapshot.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a scraped snapshot against the stored catalog",
	Long: `Reconcile a scraped snapshot against the stored catalog state.

Reads the scraper's CSV exports, diffs every size row against the current
tables and appends one event per detected change to the history. The whole
pass runs in a single transaction; any storage failure rolls everything back.

Examples:
  # Full pass from a scrape directory
  catalog-tracker reconcile --sizes out/size_availability.csv \
    --products out/main_products.csv --fits out/fit_variations.csv \
    --colors out/color_variations.csv

  # Compute and report the diff without persisting anything
  catalog-tracker reconcile --sizes out/size_availability.csv --dry-run`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&sizesPath, "sizes", "", "Path to the size-level CSV (required)")
	reconcileCmd.Flags().StringVar(&productsPath, "products", "", "Path to the main product CSV")
	reconcileCmd.Flags().StringVar(&fitsPath, "fits", "", "Path to the fit variation CSV")
	reconcileCmd.Flags().StringVar(&colorsPath, "colors", "", "Path to the color variation CSV")
	reconcileCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the diff and roll back instead of committing")
	_ = reconcileCmd.MarkFlagRequired("sizes")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	l.Info("Starting catalog reconciliation", zap.Bool("dry_run", dryRun))

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Archiving is best-effort; a pass must not depend on the bucket.
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		l.Warn("Snapshot archiving unavailable", zap.Error(err))
		client = nil
	}

	snap, validationErrs, err := catalog.LoadSnapshot(sizesPath, productsPath, fitsPath, colorsPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	for _, v := range validationErrs {
		l.Warn("Dropped invalid size row",
			zap.String("unique_size_id", v.UniqueSizeID),
			zap.String("field", v.Field),
			zap.String("reason", v.Reason),
		)
	}
	l.Info("Snapshot loaded",
		zap.Int("size_rows", snap.Len()),
		zap.Int("dropped_rows", len(validationErrs)),
		zap.Int("products", len(snap.ProductIDs())),
	)

	service := catalog.NewService(db, client, cfg.Storage.Bucket, l)

	result, err := service.Reconcile(ctx, snap, dryRun)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	printPassReport(l, result)

	if dryRun {
		l.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

// printPassReport prints a formatted pass report using logger.
func printPassReport(l *zap.Logger, result *reconcile.Result) {
	s := result.Summary

	l.Info("Pass report",
		zap.Int("observed", s.Observed),
		zap.Int("new", s.New),
		zap.Int("removed", s.Removed),
		zap.Int("price_changes", s.PriceChanges),
		zap.Int("availability_changes", s.AvailabilityChanges),
		zap.Int("discount_changes", s.DiscountChanges),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("integrity_issues", s.IntegrityIssues),
	)

	// Show sample of events (max 5 for logger)
	maxShow := 5
	if len(result.Events) < maxShow {
		maxShow = len(result.Events)
	}
	for i := 0; i < maxShow; i++ {
		ev := result.Events[i]
		l.Info("Sample change",
			zap.String("type", string(ev.ChangeType)),
			zap.String("unique_size_id", ev.UniqueSizeID),
			zap.String("price", ev.Price.String()),
			zap.Bool("available", ev.Available),
		)
	}
	if len(result.Events) > maxShow {
		l.Info("Additional changes not shown", zap.Int("count", len(result.Events)-maxShow))
	}
}
