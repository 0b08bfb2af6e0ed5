package catalog

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"catalog-tracker/feature/catalog/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupHandlerApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	db, mock := setupMockDB(t)
	service := NewService(db, nil, "", zap.NewNop())
	handler := NewHandler(service)

	app := fiber.New()
	handler.RegisterRoutes(app)
	return app, mock
}

func TestHandleListProducts(t *testing.T) {
	app, mock := setupHandlerApp(t)

	rows := sqlmock.NewRows([]string{"main_product_id", "name", "category", "base_url", "tag"}).
		AddRow("p1", "Tech Fleece Hoodie", "hoodies", "https://shop/p1", "fleece").
		AddRow("p2", "Club Tee", "tees", "https://shop/p2", "club")
	mock.ExpectQuery("SELECT \\* FROM `main_products`").WillReturnRows(rows)

	req := httptest.NewRequest("GET", "/catalog/products", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var products []models.MainProduct
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].MainProductID)
}

func TestHandleListColorsForProduct(t *testing.T) {
	app, mock := setupHandlerApp(t)

	rows := sqlmock.NewRows([]string{"unique_color_id", "unique_fit_id", "main_product_id", "color_name", "shown"}).
		AddRow("p1_f1_c1", "p1_f1", "p1", "Black", 1)
	mock.ExpectQuery("SELECT \\* FROM `color_variations`").
		WithArgs("p1").
		WillReturnRows(rows)

	req := httptest.NewRequest("GET", "/catalog/products/p1/colors", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var colors []models.ColorVariation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&colors))
	require.Len(t, colors, 1)
	assert.True(t, colors[0].Shown)
}

func TestHandleSizeHistoryRejectsBadLimit(t *testing.T) {
	app, _ := setupHandlerApp(t)

	req := httptest.NewRequest("GET", "/catalog/sizes/p1_f1_c1_S/history?limit=abc", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleStatsReportsServerError(t *testing.T) {
	app, mock := setupHandlerApp(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `historical_changes`").
		WillReturnError(errors.New("connection reset"))

	req := httptest.NewRequest("GET", "/catalog/stats", nil)
	resp, err := app.Test(req, 2000)
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}
