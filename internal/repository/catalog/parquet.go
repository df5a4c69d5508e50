package catalog

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/shopassist/internal/domain/product"
)

// parquetRow mirrors the catalog columns. Optional columns read as nil when absent or null.
type parquetRow struct {
	SKU         string   `parquet:"SKU"`
	ProductName string   `parquet:"ProductName"`
	Category    *string  `parquet:"Category,optional"`
	Material    *string  `parquet:"Material,optional"`
	Style       *string  `parquet:"Style,optional"`
	Color       *string  `parquet:"Color,optional"`
	Gender      *string  `parquet:"Gender,optional"`
	Occasion    *string  `parquet:"Occasion,optional"`
	Price       float64  `parquet:"Price(INR)"`
	Rating      *float64 `parquet:"Rating,optional"`
	Stock       *int64   `parquet:"Stock,optional"`
}

// ReadParquet reads all catalog rows from a parquet file.
func ReadParquet(r io.ReaderAt, size int64) ([]product.Product, error) {
	rows, err := parquet.Read[parquetRow](r, size)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}

	out := make([]product.Product, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		if row.SKU == "" {
			continue
		}
		rec := record{
			sku:      row.SKU,
			name:     row.ProductName,
			category: deref(row.Category),
			material: deref(row.Material),
			style:    deref(row.Style),
			color:    deref(row.Color),
			gender:   deref(row.Gender),
			occasion: deref(row.Occasion),
			price:    row.Price,
		}
		if row.Rating != nil {
			rec.rating = *row.Rating
		}
		if row.Stock != nil {
			rec.stock = int(*row.Stock)
		}

		p, err := rec.toProduct(i + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
