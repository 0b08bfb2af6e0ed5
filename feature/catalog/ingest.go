package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"catalog-tracker/core/snapshot"
	"catalog-tracker/core/utils"

	"github.com/jszwec/csvutil"
)

// rawSizeCSV mirrors the scraper's size export with every field as text.
// The scraper emits "$110.00", "25% off" and "N/A" style values; parsing
// happens here so snapshot.RawSizeRow stays strictly typed.
type rawSizeCSV struct {
	UniqueSizeID    string `csv:"unique_size_id"`
	UniqueColorID   string `csv:"unique_color_id"`
	UniqueFitID     string `csv:"unique_fit_id"`
	ColorProductID  string `csv:"color_product_id"`
	MainProductID   string `csv:"main_product_id"`
	ColorName       string `csv:"color_name"`
	FitName         string `csv:"fit_name"`
	Size            string `csv:"size"`
	SizeLabel       string `csv:"size_label"`
	Available       string `csv:"available"`
	Price           string `csv:"price"`
	OriginalPrice   string `csv:"original_price"`
	DiscountPercent string `csv:"discount_percent"`
}

func (r rawSizeCSV) toRow() snapshot.RawSizeRow {
	row := snapshot.RawSizeRow{
		UniqueSizeID:   r.UniqueSizeID,
		UniqueColorID:  r.UniqueColorID,
		UniqueFitID:    r.UniqueFitID,
		ColorProductID: r.ColorProductID,
		MainProductID:  r.MainProductID,
		ColorName:      r.ColorName,
		FitName:        r.FitName,
		Size:           r.Size,
		SizeLabel:      r.SizeLabel,
		Available:      utils.ToBool(r.Available),
	}
	if d, ok := utils.ParseMoney(r.Price); ok {
		row.Price = d
	}
	if d, ok := utils.ParseMoney(r.OriginalPrice); ok {
		row.OriginalPrice = d
	}
	if n, ok := utils.ParsePercent(r.DiscountPercent); ok {
		row.DiscountPercent = n
	}
	return row
}

// ReadSizeRows decodes the scraper's size-level CSV. Placeholder price and
// discount values decode to zero; structural validation is Build's job.
func ReadSizeRows(r io.Reader) ([]snapshot.RawSizeRow, error) {
	dec, err := newDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("read size csv: %w", err)
	}

	var rows []snapshot.RawSizeRow
	for {
		var raw rawSizeCSV
		if err := dec.Decode(&raw); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read size csv: %w", err)
		}
		rows = append(rows, raw.toRow())
	}
	return rows, nil
}

// ReadProducts decodes the scraper's main-product CSV.
func ReadProducts(r io.Reader) ([]snapshot.ProductRecord, error) {
	var records []snapshot.ProductRecord
	if err := decodeAll(r, &records); err != nil {
		return nil, fmt.Errorf("read product csv: %w", err)
	}
	return records, nil
}

// ReadFits decodes the scraper's fit-variation CSV.
func ReadFits(r io.Reader) ([]snapshot.FitRecord, error) {
	var records []snapshot.FitRecord
	if err := decodeAll(r, &records); err != nil {
		return nil, fmt.Errorf("read fit csv: %w", err)
	}
	return records, nil
}

// ReadColors decodes the scraper's color-variation CSV.
func ReadColors(r io.Reader) ([]snapshot.ColorRecord, error) {
	var records []snapshot.ColorRecord
	if err := decodeAll(r, &records); err != nil {
		return nil, fmt.Errorf("read color csv: %w", err)
	}
	return records, nil
}

// LoadSnapshot reads the size CSV plus any optional entity CSVs and builds
// a validated snapshot. Empty paths are skipped. Validation errors are
// returned alongside the snapshot; dropped rows never abort the load.
func LoadSnapshot(sizePath, productPath, fitPath, colorPath string) (*snapshot.Snapshot, []snapshot.ValidationError, error) {
	rows, err := readFile(sizePath, ReadSizeRows)
	if err != nil {
		return nil, nil, err
	}

	snap, validationErrs := snapshot.Build(rows)

	if productPath != "" {
		products, err := readFile(productPath, ReadProducts)
		if err != nil {
			return nil, nil, err
		}
		snap.AttachProducts(products)
	}
	if fitPath != "" {
		fits, err := readFile(fitPath, ReadFits)
		if err != nil {
			return nil, nil, err
		}
		snap.AttachFits(fits)
	}
	if colorPath != "" {
		colors, err := readFile(colorPath, ReadColors)
		if err != nil {
			return nil, nil, err
		}
		snap.AttachColors(colors)
	}

	return snap, validationErrs, nil
}

func readFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

func newDecoder(r io.Reader) (*csvutil.Decoder, error) {
	return csvutil.NewDecoder(csv.NewReader(r))
}

func decodeAll[T any](r io.Reader, out *[]T) error {
	dec, err := newDecoder(r)
	if err != nil {
		return err
	}
	for {
		var record T
		if err := dec.Decode(&record); err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		*out = append(*out, record)
	}
	return nil
}
