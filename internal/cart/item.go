package cart

import (
	"math"

	product "github.com/angelmondragon/shopcart/internal/products"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/types"
	"github.com/shopspring/decimal"
)

// Item is an immutable cart line: a product and how many of it. Quantity
// changes return a new Item, or the receiver itself when nothing changes.
type Item struct {
	product  product.Product
	quantity int
}

// NewItem builds a line. Quantity 0 is allowed.
func NewItem(p product.Product, quantity int) (*Item, error) {
	if p.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidProduct, "product is required")
	}
	if quantity < 0 {
		return nil, invalidQuantity(quantity)
	}
	return &Item{product: p, quantity: quantity}, nil
}

// IncrementAmountBy adds n units. Reductions go through DecrementAmountBy.
func (i *Item) IncrementAmountBy(n int) (*Item, error) {
	if n < 0 {
		return nil, invalidQuantity(n)
	}
	if n == 0 {
		return i, nil
	}
	if n > math.MaxInt-i.quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity is too large").
			WithDetails(map[string]any{"quantity": i.quantity, "increment": n})
	}
	return &Item{product: i.product, quantity: i.quantity + n}, nil
}

// DecrementAmountBy removes n units, clamping at zero.
func (i *Item) DecrementAmountBy(n int) (*Item, error) {
	if n < 0 {
		return nil, invalidQuantity(n)
	}
	if n == 0 {
		return i, nil
	}
	return &Item{product: i.product, quantity: max(0, i.quantity-n)}, nil
}

func (i *Item) Product() product.Product {
	return i.product
}

func (i *Item) Title() string {
	return i.product.Title()
}

func (i *Item) UnitPrice() decimal.Decimal {
	return i.product.UnitPrice()
}

func (i *Item) Quantity() int {
	return i.quantity
}

// LineTotal is quantity × unit price. It fails only when the catalog price
// carries more than two fractional digits.
func (i *Item) LineTotal() (types.Money, error) {
	return types.NewMoney(i.UnitPrice().Mul(decimal.NewFromInt(int64(i.quantity))))
}

func invalidQuantity(n int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInvalidQuantity, "quantity cannot be negative").
		WithDetails(map[string]any{"quantity": n})
}
