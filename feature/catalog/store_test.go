package catalog

import (
	"context"
	"errors"
	"testing"

	"catalog-tracker/core/reconcile"
	"catalog-tracker/core/snapshot"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	// The Store runs inside a transaction the Backend owns, so individual
	// statements are not wrapped again.
	gormDB, err := gorm.Open(dialector, &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

var sizeColumns = []string{
	"unique_size_id", "unique_color_id", "unique_fit_id", "color_product_id",
	"main_product_id", "color_name", "fit_name", "size", "size_label",
	"available", "price", "original_price", "discount_percent",
}

func TestStoreCurrentSizeRow(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	rows := sqlmock.NewRows(sizeColumns).
		AddRow("p1_f1_c1_S", "p1_f1_c1", "p1_f1", "c1", "p1", "Black", "Regular", "S", "Small", 1, "110.00", "140.00", 21)
	mock.ExpectQuery("SELECT \\* FROM `size_availability`").WillReturnRows(rows)

	row, found, err := store.CurrentSizeRow(context.Background(), "p1_f1_c1_S")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "p1_f1_c1_S", row.UniqueSizeID)
	assert.True(t, row.Available)
	assert.True(t, row.Price.Equal(decimal.RequireFromString("110.00")))
	assert.Equal(t, 21, row.DiscountPercent)
}

func TestStoreCurrentSizeRowNotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `size_availability`").
		WillReturnRows(sqlmock.NewRows(sizeColumns))

	_, found, err := store.CurrentSizeRow(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestStoreCurrentSizeIDsScopesToProducts(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	rows := sqlmock.NewRows([]string{"unique_size_id"}).
		AddRow("p1_f1_c1_S").
		AddRow("p1_f1_c1_M")
	mock.ExpectQuery("SELECT `unique_size_id` FROM `size_availability`").
		WithArgs("p1", "p2").
		WillReturnRows(rows)

	ids, err := store.CurrentSizeIDs(context.Background(), []string{"p1", "p2"})
	assert.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "p1_f1_c1_S")
}

func TestStoreCurrentSizeIDsEmptyScope(t *testing.T) {
	db, _ := setupMockDB(t)
	store := NewStore(db)

	ids, err := store.CurrentSizeIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStoreUpsertSizeRowUnknownColor(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `color_variations`").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	err := store.UpsertSizeRow(context.Background(), snapshot.RawSizeRow{
		UniqueSizeID:  "p1_f1_ghost_S",
		UniqueColorID: "ghost",
	})

	var integrityErr *reconcile.ReferentialIntegrityError
	assert.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, "size_availability", integrityErr.Entity)
	assert.Equal(t, "ghost", integrityErr.Ref)
}

func TestStoreUpsertSizeRowKnownColorFromStorage(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `color_variations`").
		WithArgs("p1_f1_c1").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `size_availability`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.UpsertSizeRow(context.Background(), snapshot.RawSizeRow{
		UniqueSizeID:  "p1_f1_c1_S",
		UniqueColorID: "p1_f1_c1",
		Price:         decimal.RequireFromString("110.00"),
	})
	assert.NoError(t, err)

	// Second row on the same color must not hit storage again.
	mock.ExpectExec("INSERT INTO `size_availability`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.UpsertSizeRow(context.Background(), snapshot.RawSizeRow{
		UniqueSizeID:  "p1_f1_c1_M",
		UniqueColorID: "p1_f1_c1",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpsertEntitiesReportsOrphans(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	snap, _ := snapshot.Build(nil)
	snap.AttachProducts([]snapshot.ProductRecord{
		{MainProductID: "p1", Name: "Tech Fleece Hoodie"},
	})
	snap.AttachFits([]snapshot.FitRecord{
		{UniqueFitID: "p1_reg", MainProductID: "p1", FitName: "Regular"},
		{UniqueFitID: "p9_reg", MainProductID: "p9", FitName: "Regular"},
	})

	mock.ExpectExec("INSERT INTO `main_products`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// p9 is not in the snapshot, so the store checks storage for it.
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `main_products`").
		WithArgs("p9").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `fit_variations`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	issues, err := store.UpsertEntities(context.Background(), snap)
	assert.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, "fit_variations", issues[0].Entity)
	assert.Equal(t, "p9_reg", issues[0].Key)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreWrapsStorageErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectQuery("SELECT \\* FROM `size_availability`").
		WillReturnError(errors.New("connection reset"))

	_, _, err := store.CurrentSizeRow(context.Background(), "p1_f1_c1_S")

	var storageErr *reconcile.StorageError
	assert.ErrorAs(t, err, &storageErr)
	assert.Contains(t, storageErr.Error(), "read size_availability")
}
