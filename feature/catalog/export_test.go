package catalog

import (
	"bytes"
	"strings"
	"testing"

	"catalog-tracker/feature/catalog/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVRoundTripsSizeRows(t *testing.T) {
	rows := []models.SizeAvailability{
		{
			UniqueSizeID:    "p1_f1_c1_S",
			UniqueColorID:   "p1_f1_c1",
			MainProductID:   "p1",
			Size:            "S",
			Available:       true,
			Price:           decimal.RequireFromString("110.00"),
			OriginalPrice:   decimal.RequireFromString("140.00"),
			DiscountPercent: 21,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "unique_size_id")
	assert.Contains(t, lines[1], "110.00")
	assert.Contains(t, lines[1], "true")
}

func TestWriteCSVEmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.MainProduct{}))
	assert.Zero(t, buf.Len())
}
