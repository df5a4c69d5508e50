// Package catalog reads product records from CSV and Parquet catalog files.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
)

// Column names shared by both file formats.
const (
	colSKU      = "SKU"
	colName     = "ProductName"
	colCategory = "Category"
	colMaterial = "Material"
	colStyle    = "Style"
	colColor    = "Color"
	colGender   = "Gender"
	colOccasion = "Occasion"
	colPrice    = "Price(INR)"
	colRating   = "Rating"
	colStock    = "Stock"
)

// Load reads all product records from path. The format is picked by extension.
// Records are returned in file order; duplicates are kept (the index builder dedupes).
func Load(path string) ([]product.Product, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".parquet":
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()
		st, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat catalog: %w", err)
		}
		return ReadParquet(f, st.Size())
	default:
		return nil, fmt.Errorf("catalog %s: %w", path, domain.ErrUnsupportedFormat)
	}
}

// record is a format-neutral row before validation.
type record struct {
	sku, name                                         string
	category, material, style, color, gender, occasion string
	price, rating                                     float64
	stock                                             int
}

func (r *record) toProduct(row int) (product.Product, error) {
	p, err := product.New(r.sku, strings.TrimSpace(r.name), product.Attributes{
		Category: strings.TrimSpace(r.category),
		Material: strings.TrimSpace(r.material),
		Style:    strings.TrimSpace(r.style),
		Color:    strings.TrimSpace(r.color),
		Gender:   strings.TrimSpace(r.gender),
		Occasion: strings.TrimSpace(r.occasion),
	}, r.price, r.rating, r.stock)
	if err != nil {
		return product.Product{}, fmt.Errorf("row %d: %w: %w", row, domain.ErrInvalidRecord, err)
	}
	return p, nil
}
