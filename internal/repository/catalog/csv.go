package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
)

// ReadCSV parses a header-mapped catalog CSV.
// SKU, ProductName and Price(INR) are required columns; the rest default to "" or 0.
// Rows with a blank SKU are skipped.
func ReadCSV(r io.Reader) ([]product.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[strings.TrimSpace(h)] = i
	}
	for _, req := range []string{colSKU, colName, colPrice} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("csv header: missing column %q: %w", req, domain.ErrInvalidRecord)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []product.Product
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		rec := record{
			sku:      field(row, colSKU),
			name:     field(row, colName),
			category: field(row, colCategory),
			material: field(row, colMaterial),
			style:    field(row, colStyle),
			color:    field(row, colColor),
			gender:   field(row, colGender),
			occasion: field(row, colOccasion),
		}
		if rec.sku == "" {
			continue
		}

		if rec.price, err = strconv.ParseFloat(field(row, colPrice), 64); err != nil {
			return nil, fmt.Errorf("row %d: price: %w: %w", line, domain.ErrInvalidRecord, err)
		}
		rec.rating = parseOptionalFloat(field(row, colRating))
		rec.stock = int(parseOptionalFloat(field(row, colStock)))

		p, err := rec.toProduct(line)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// parseOptionalFloat returns 0 for blank or unparsable values.
// Stock may be written as "12.0" by dataframe exports.
func parseOptionalFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
