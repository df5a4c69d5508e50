package shopassist

import (
	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/domain/reply"
)

// Product is a catalog item.
type Product struct {
	SKU      string
	Name     string
	Category string
	Material string
	Style    string
	Color    string
	Gender   string
	Occasion string
	Price    float64
	Rating   float64
	Stock    int
	ImageURL string // derived; ignored on input
}

// Match is a product retrieved for a query with its cosine score.
type Match struct {
	Product
	Score float64
}

// Reply source values.
const (
	SourceCanned  = string(reply.SourceCanned)
	SourceCatalog = string(reply.SourceCatalog)
)

// Reply is the assistant answer.
type Reply struct {
	Text     string
	Products []Match // never nil
	Source   string  // SourceCanned or SourceCatalog
	Rule     string  // canned rule name, SourceCanned only
	Outcome  string  // retrieval outcome, SourceCatalog only
}

func productFromDomain(p *product.Product) Product {
	a := p.Attributes()
	return Product{
		SKU:      p.SKU(),
		Name:     p.Name(),
		Category: a.Category,
		Material: a.Material,
		Style:    a.Style,
		Color:    a.Color,
		Gender:   a.Gender,
		Occasion: a.Occasion,
		Price:    p.Price(),
		Rating:   p.Rating(),
		Stock:    p.Stock(),
		ImageURL: p.ImageURL(),
	}
}

func productToDomain(p Product) (product.Product, error) {
	return product.New(p.SKU, p.Name, product.Attributes{
		Category: p.Category,
		Material: p.Material,
		Style:    p.Style,
		Color:    p.Color,
		Gender:   p.Gender,
		Occasion: p.Occasion,
	}, p.Price, p.Rating, p.Stock)
}

func replyFromDomain(r reply.Reply) Reply {
	out := Reply{
		Text:     r.Text,
		Products: make([]Match, len(r.Products)),
		Source:   string(r.Source),
		Rule:     r.Rule,
		Outcome:  string(r.Outcome),
	}
	for i := range r.Products {
		h := &r.Products[i]
		p := h.Product()
		out.Products[i] = Match{Product: productFromDomain(&p), Score: h.Score()}
	}
	return out
}
