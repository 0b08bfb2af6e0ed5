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

var exportDir string

// exportCmd dumps every catalog table as CSV.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog tables and change history as CSV",
	Long: `Export the four current-state tables and the historical change log
as CSV files, one file per table, named after the table.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "export", "Directory the CSV files are written to")

	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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

	if err := catalog.ExportTables(ctx, db, exportDir); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	l.Info("Export finished", zap.String("dir", exportDir))
	return nil
}
