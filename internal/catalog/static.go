package catalog

import (
	"context"

	product "github.com/angelmondragon/shopcart/internal/products"
	"github.com/shopspring/decimal"
)

// StaticCatalog serves a fixed in-memory product set.
type StaticCatalog struct {
	products map[string]product.Product
}

func NewStaticCatalog(products map[string]product.Product) *StaticCatalog {
	copied := make(map[string]product.Product, len(products))
	for name, p := range products {
		copied[name] = p
	}
	return &StaticCatalog{products: copied}
}

func (s *StaticCatalog) Lookup(_ context.Context, name string) (product.Product, bool) {
	p, ok := s.products[name]
	if !ok || p.IsZero() {
		return product.Product{}, false
	}
	return p, true
}

// DefaultProducts is the reference catalog published alongside the HTTP data set.
func DefaultProducts() map[string]product.Product {
	fixtures := []struct {
		name  string
		title string
		price string
	}{
		{"cheerios", "Cheerios", "8.43"},
		{"cornflakes", "Corn Flakes", "2.52"},
		{"frosties", "Frosties", "4.99"},
		{"shreddies", "Shreddies", "4.68"},
		{"weetabix", "Weetabix", "9.98"},
	}

	out := make(map[string]product.Product, len(fixtures))
	for _, f := range fixtures {
		p, err := product.NewProduct(f.title, decimal.RequireFromString(f.price))
		if err != nil {
			panic(err)
		}
		out[f.name] = p
	}
	return out
}
