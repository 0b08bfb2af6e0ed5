package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sizeCSV = `unique_size_id,unique_color_id,unique_fit_id,color_product_id,main_product_id,color_name,fit_name,size,size_label,available,price,original_price,discount_percent
p1_f1_c1_S,p1_f1_c1,p1_f1,c1,p1,Black,Regular,S,Small,1,$110.00,"$1,400.00",25% off
p1_f1_c1_M,p1_f1_c1,p1_f1,c1,p1,Black,Regular,M,Medium,false,N/A,N/A,N/A
`

func TestReadSizeRowsParsesScrapedValues(t *testing.T) {
	rows, err := ReadSizeRows(strings.NewReader(sizeCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "p1_f1_c1_S", rows[0].UniqueSizeID)
	assert.True(t, rows[0].Available)
	assert.True(t, rows[0].Price.Equal(decimal.RequireFromString("110.00")))
	assert.True(t, rows[0].OriginalPrice.Equal(decimal.RequireFromString("1400.00")))
	assert.Equal(t, 25, rows[0].DiscountPercent)

	// Placeholders decode to zero values, not errors.
	assert.False(t, rows[1].Available)
	assert.True(t, rows[1].Price.IsZero())
	assert.Equal(t, 0, rows[1].DiscountPercent)
}

func TestReadColorsParsesShownFlag(t *testing.T) {
	csv := `unique_color_id,unique_fit_id,main_product_id,color_product_id,color_name,color_image_url,color_url,style,shown
p1_f1_c1,p1_f1,p1,c1,Black,https://img/1.jpg,https://shop/1,CU4489-010,true
p1_f1_c2,p1_f1,p1,c2,White,https://img/2.jpg,https://shop/2,CU4489-100,false
`
	colors, err := ReadColors(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, colors, 2)
	assert.True(t, colors[0].Shown)
	assert.False(t, colors[1].Shown)
}

func TestReadSizeRowsRejectsMalformedCSV(t *testing.T) {
	_, err := ReadSizeRows(strings.NewReader("unique_size_id,price\na,b,c\n"))
	assert.Error(t, err)
}

func TestLoadSnapshotBuildsValidatedSnapshot(t *testing.T) {
	dir := t.TempDir()

	sizePath := filepath.Join(dir, "size_availability.csv")
	require.NoError(t, os.WriteFile(sizePath, []byte(sizeCSV), 0o644))

	productPath := filepath.Join(dir, "main_products.csv")
	require.NoError(t, os.WriteFile(productPath, []byte(
		"main_product_id,name,category,base_url,tag\np1,Tech Fleece Hoodie,hoodies,https://shop/p1,fleece\n",
	), 0o644))

	snap, validationErrs, err := LoadSnapshot(sizePath, productPath, "", "")
	require.NoError(t, err)
	assert.Empty(t, validationErrs)
	assert.Equal(t, 2, snap.Len())
	assert.Len(t, snap.Products(), 1)
	assert.Equal(t, []string{"p1"}, snap.ProductIDs())
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, _, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.csv"), "", "", "")
	assert.Error(t, err)
}
