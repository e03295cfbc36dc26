// Package product holds the catalog record a cart line is priced from.
package product

import (
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is an immutable {title, unit price} pair. The zero value is the
// absent product and is rejected wherever a product is required.
type Product struct {
	title     string
	unitPrice decimal.Decimal
}

// NewProduct validates title and unitPrice.
func NewProduct(title string, unitPrice decimal.Decimal) (Product, error) {
	if strings.TrimSpace(title) == "" {
		return Product{}, pkgerrors.New(pkgerrors.CodeInvalidTitle, "title is invalid")
	}
	if unitPrice.IsNegative() {
		return Product{}, pkgerrors.New(pkgerrors.CodeInvalidPrice, "price is invalid").
			WithDetails(map[string]any{"price": unitPrice.String()})
	}
	return Product{title: title, unitPrice: unitPrice}, nil
}

// NewProductFromFloat converts unitPrice through its shortest decimal form.
func NewProductFromFloat(title string, unitPrice float64) (Product, error) {
	price, err := types.DecimalFromFloat(unitPrice)
	if err != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeInvalidPrice, err, "price is invalid")
	}
	return NewProduct(title, price)
}

func (p Product) Title() string {
	return p.title
}

func (p Product) UnitPrice() decimal.Decimal {
	return p.unitPrice
}

func (p Product) IsZero() bool {
	return p.title == ""
}

// Equal compares title and numeric price.
func (p Product) Equal(other Product) bool {
	return p.title == other.title && p.unitPrice.Equal(other.unitPrice)
}

func (p Product) String() string {
	return fmt.Sprintf("Product{title=%q, unitPrice=%s}", p.title, p.unitPrice.String())
}
