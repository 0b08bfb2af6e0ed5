package catalog

import (
	"context"
	"testing"
	"time"

	"catalog-tracker/core/snapshot"
	"catalog-tracker/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func columnsRows(columns []string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, col := range columns {
		rows.AddRow(col, "varchar(255)", "YES", "", nil, "")
	}
	return rows
}

func TestVerifySchemaComplete(t *testing.T) {
	db, dbmock := setupMockDB(t)
	service := NewService(db, nil, "", zap.NewNop())

	for _, table := range schemaTables {
		dbmock.ExpectQuery("SHOW COLUMNS FROM `" + table.name + "`").
			WillReturnRows(columnsRows(table.columns))
	}

	assert.NoError(t, service.VerifySchema(context.Background()))
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestVerifySchemaReportsMissingColumn(t *testing.T) {
	db, dbmock := setupMockDB(t)
	service := NewService(db, nil, "", zap.NewNop())

	// main_products is checked first and lacks its tag column.
	partial := schemaTables[0].columns[:len(schemaTables[0].columns)-1]
	dbmock.ExpectQuery("SHOW COLUMNS FROM `main_products`").
		WillReturnRows(columnsRows(partial))

	err := service.VerifySchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main_products")
	assert.Contains(t, err.Error(), "tag")
}

func TestArchiveSnapshotCreatesBucketAndUploads(t *testing.T) {
	client := new(mocks.Client)
	service := NewService(nil, client, "snapshots", zap.NewNop())

	client.On("BucketExists", mock.Anything, "snapshots").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "snapshots", mock.Anything).Return(nil)
	client.On("PutObject", mock.Anything, "snapshots", "runs/20260115T083000Z.json",
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	snap, _ := snapshot.Build([]snapshot.RawSizeRow{
		{UniqueSizeID: "p1_f1_c1_S", UniqueColorID: "p1_f1_c1"},
	})

	started := time.Date(2026, 1, 15, 8, 30, 0, 0, time.UTC)
	err := service.archiveSnapshot(context.Background(), snap, started)
	assert.NoError(t, err)
	client.AssertExpectations(t)
}

func TestArchiveSnapshotReusesExistingBucket(t *testing.T) {
	client := new(mocks.Client)
	service := NewService(nil, client, "snapshots", zap.NewNop())

	client.On("BucketExists", mock.Anything, "snapshots").Return(true, nil)
	client.On("PutObject", mock.Anything, "snapshots", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	snap, _ := snapshot.Build(nil)
	err := service.archiveSnapshot(context.Background(), snap, time.Now())
	assert.NoError(t, err)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestStatsAggregatesChangeLog(t *testing.T) {
	db, dbmock := setupMockDB(t)
	service := NewService(db, nil, "", zap.NewNop())

	dbmock.ExpectQuery("SELECT count\\(\\*\\) FROM `historical_changes`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(12))
	dbmock.ExpectQuery("SELECT COUNT\\(DISTINCT\\(`unique_size_id`\\)\\) FROM `historical_changes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	dbmock.ExpectQuery("SELECT COUNT\\(DISTINCT\\(`capture_timestamp`\\)\\) FROM `historical_changes`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	dbmock.ExpectQuery("SELECT change_type, COUNT\\(\\*\\) AS total FROM `historical_changes`").
		WillReturnRows(sqlmock.NewRows([]string{"change_type", "total"}).
			AddRow("NEW", 5).
			AddRow("PRICE_CHANGE", 7))
	dbmock.ExpectQuery("SELECT MIN\\(capture_timestamp\\) AS first, MAX\\(capture_timestamp\\) AS last FROM `historical_changes`").
		WillReturnRows(sqlmock.NewRows([]string{"first", "last"}).
			AddRow(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalChanges)
	assert.Equal(t, int64(5), stats.DistinctSizes)
	assert.Equal(t, int64(3), stats.Passes)
	assert.Equal(t, int64(7), stats.ByType["PRICE_CHANGE"])
	require.NotNil(t, stats.FirstCapture)
	assert.Equal(t, 2026, stats.FirstCapture.Year())
}
