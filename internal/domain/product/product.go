package product

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// Attributes are the categorical fields that describe a product.
type Attributes struct {
	Category string
	Material string
	Style    string
	Color    string
	Gender   string
	Occasion string
}

// Product is a catalog item (immutable value object).
type Product struct {
	sku    string
	name   string
	attrs  Attributes
	price  float64
	rating float64
	stock  int
}

// New validates and creates a Product.
// SKU and name are required; price must be a finite non-negative number.
func New(sku, name string, attrs Attributes, price, rating float64, stock int) (Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return Product{}, fmt.Errorf("product SKU is required")
	}
	if strings.TrimSpace(name) == "" {
		return Product{}, fmt.Errorf("product %s: name is required", sku)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Product{}, fmt.Errorf("product %s: invalid price %v", sku, price)
	}
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		rating = 0
	}
	if stock < 0 {
		stock = 0
	}

	return Product{
		sku:    sku,
		name:   name,
		attrs:  attrs,
		price:  price,
		rating: rating,
		stock:  stock,
	}, nil
}

// SKU returns the unique product identifier.
func (p *Product) SKU() string { return p.sku }

// Name returns the display name.
func (p *Product) Name() string { return p.name }

// Attributes returns the categorical attributes.
func (p *Product) Attributes() Attributes { return p.attrs }

// Category returns the product category.
func (p *Product) Category() string { return p.attrs.Category }

// Material returns the product material.
func (p *Product) Material() string { return p.attrs.Material }

// Price returns the list price.
func (p *Product) Price() float64 { return p.price }

// Rating returns the average rating, 0 when unknown.
func (p *Product) Rating() float64 { return p.rating }

// Stock returns units in stock, 0 when unknown.
func (p *Product) Stock() int { return p.stock }

// ImageURL returns a placeholder image address labelled with the product name.
func (p *Product) ImageURL() string {
	label := url.QueryEscape(p.name)
	return "https://placehold.co/300x300?text=" + label
}
