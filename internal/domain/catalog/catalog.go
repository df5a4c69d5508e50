// Package catalog holds the read-only product index the assistant searches.
package catalog

import (
	"fmt"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
)

// Entry is one indexed product with its derived search text and embedding.
type Entry struct {
	product product.Product
	text    string
	vector  []float32
}

// NewEntry creates an index entry.
func NewEntry(p product.Product, text string, vector []float32) Entry {
	return Entry{product: p, text: text, vector: vector}
}

// Product returns the indexed product.
func (e *Entry) Product() product.Product { return e.product }

// Text returns the text the vector was computed from.
func (e *Entry) Text() string { return e.text }

// Vector returns the embedding vector.
func (e *Entry) Vector() []float32 { return e.vector }

// Index is the immutable catalog index. Safe for concurrent reads.
type Index struct {
	entries []Entry
	bySKU   map[string]int
	dims    int
}

// NewIndex validates entries and builds an index.
// Every SKU must be unique and every vector must have the same non-zero length.
func NewIndex(entries []Entry) (*Index, error) {
	idx := &Index{
		entries: make([]Entry, len(entries)),
		bySKU:   make(map[string]int, len(entries)),
	}
	copy(idx.entries, entries)

	for i := range idx.entries {
		e := &idx.entries[i]
		sku := e.product.SKU()
		if _, dup := idx.bySKU[sku]; dup {
			return nil, fmt.Errorf("entry %d: %w: %s", i, domain.ErrDuplicateSKU, sku)
		}
		idx.bySKU[sku] = i

		if len(e.vector) == 0 {
			return nil, fmt.Errorf("entry %d (%s): empty vector: %w", i, sku, domain.ErrVectorDimMismatch)
		}
		if idx.dims == 0 {
			idx.dims = len(e.vector)
		} else if len(e.vector) != idx.dims {
			return nil, fmt.Errorf("entry %d (%s): got %d dims, want %d: %w",
				i, sku, len(e.vector), idx.dims, domain.ErrVectorDimMismatch)
		}
	}

	return idx, nil
}

// Len returns the number of entries. A nil index has length 0.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Dimensions returns the vector length shared by all entries.
func (x *Index) Dimensions() int {
	if x == nil {
		return 0
	}
	return x.dims
}

// Entries returns the entries in catalog order. Callers must not modify the slice.
func (x *Index) Entries() []Entry {
	if x == nil {
		return nil
	}
	return x.entries
}

// Products returns up to limit products in catalog order; limit <= 0 returns all.
func (x *Index) Products(limit int) []product.Product {
	n := x.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]product.Product, n)
	for i := 0; i < n; i++ {
		out[i] = x.entries[i].product
	}
	return out
}

// Lookup returns the product with the given SKU.
func (x *Index) Lookup(sku string) (product.Product, bool) {
	if x == nil {
		return product.Product{}, false
	}
	i, ok := x.bySKU[sku]
	if !ok {
		return product.Product{}, false
	}
	return x.entries[i].product, true
}
