package cmd

import (
	"context"
	"fmt"

	"catalog-tracker/core/config"
	"catalog-tracker/core/database"
	"catalog-tracker/core/logger"
	"catalog-tracker/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statsCmd summarizes the change history.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the historical change log",
	RunE:  runStats,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
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

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	service := catalog.NewService(db, nil, "", l)

	stats, err := service.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats query failed: %w", err)
	}

	fields := []zap.Field{
		zap.Int64("total_changes", stats.TotalChanges),
		zap.Int64("distinct_sizes", stats.DistinctSizes),
		zap.Int64("passes", stats.Passes),
	}
	for changeType, count := range stats.ByType {
		fields = append(fields, zap.Int64(changeType, count))
	}
	if stats.FirstCapture != nil {
		fields = append(fields,
			zap.Time("first_capture", *stats.FirstCapture),
			zap.Time("last_capture", *stats.LastCapture),
		)
	}

	l.Info("Change history stats", fields...)
	return nil
}
