package catalog

import (
	"fmt"

	"github.com/kailas-cloud/shopassist/internal/domain/product"
)

// SearchText renders the categorical attributes of p into the text that gets embedded.
func SearchText(p product.Product) string {
	a := p.Attributes()
	return fmt.Sprintf(
		"Category: %s. Material: %s. Style: %s. Color: %s. Gender: %s. Occasion: %s. Name: %s.",
		a.Category, a.Material, a.Style, a.Color, a.Gender, a.Occasion, p.Name(),
	)
}
