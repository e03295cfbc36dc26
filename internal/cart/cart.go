package cart

import (
	"context"
	"math"
	"sort"

	product "github.com/angelmondragon/shopcart/internal/products"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/types"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to the subtotal.
var TaxRate = decimal.RequireFromString("0.125")

// ProductLookup resolves a product name against the catalog. Implementations
// report every failure, not only a miss, as ok == false.
type ProductLookup interface {
	Lookup(ctx context.Context, name string) (product.Product, bool)
}

// LookupFunc adapts a plain function to ProductLookup.
type LookupFunc func(ctx context.Context, name string) (product.Product, bool)

func (f LookupFunc) Lookup(ctx context.Context, name string) (product.Product, bool) {
	return f(ctx, name)
}

// Cart holds one line per product name. It is owned by a single caller and
// is not safe for concurrent use.
type Cart struct {
	lookup ProductLookup
	items  map[string]*Item
}

// Totals is the priced view of a cart.
type Totals struct {
	Subtotal types.Money `json:"subtotal"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// New builds an empty cart that resolves products through lookup.
func New(lookup ProductLookup) (*Cart, error) {
	if lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidDependency, "product lookup required")
	}
	return &Cart{
		lookup: lookup,
		items:  make(map[string]*Item),
	}, nil
}

// AddItem adds item.Quantity() units of item.Title().
func (c *Cart) AddItem(ctx context.Context, item *Item) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidProduct, "item is required")
	}
	return c.AddProduct(ctx, item.Title(), item.Quantity())
}

// AddProduct adds quantity units of the named product. Names the catalog
// cannot resolve are ignored.
func (c *Cart) AddProduct(ctx context.Context, name string, quantity int) error {
	if quantity < 0 {
		return invalidQuantity(quantity)
	}
	if quantity == 0 {
		return nil
	}

	found, ok := c.lookup.Lookup(ctx, name)
	if !ok || found.IsZero() {
		return nil
	}

	existing, ok := c.items[name]
	if !ok {
		item, err := NewItem(found, quantity)
		if err != nil {
			return err
		}
		c.items[name] = item
		return nil
	}

	next, err := existing.IncrementAmountBy(quantity)
	if err != nil {
		return err
	}
	c.items[name] = next
	return nil
}

// RemoveItem removes item.Quantity() units of item.Title().
func (c *Cart) RemoveItem(item *Item) error {
	if item == nil {
		return pkgerrors.New(pkgerrors.CodeInvalidProduct, "item is required")
	}
	return c.RemoveProduct(item.Title(), item.Quantity())
}

// RemoveProduct takes quantity units off the named line, deleting the line
// once it reaches zero. Removing more than present clamps to zero.
func (c *Cart) RemoveProduct(name string, quantity int) error {
	if quantity < 0 {
		return invalidQuantity(quantity)
	}
	if quantity == 0 {
		return nil
	}

	existing, ok := c.items[name]
	if !ok {
		return nil
	}

	next, err := existing.DecrementAmountBy(quantity)
	if err != nil {
		return err
	}
	if next.Quantity() == 0 {
		delete(c.items, name)
		return nil
	}
	c.items[name] = next
	return nil
}

func (c *Cart) CountForProduct(name string) int {
	if item, ok := c.items[name]; ok {
		return item.Quantity()
	}
	return 0
}

// TotalProductCount sums every line, saturating at math.MaxInt.
func (c *Cart) TotalProductCount() int {
	total := 0
	for _, item := range c.items {
		if item.Quantity() > math.MaxInt-total {
			return math.MaxInt
		}
		total += item.Quantity()
	}
	return total
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Items returns the lines ordered by product name.
func (c *Cart) Items() []*Item {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Item, 0, len(names))
	for _, name := range names {
		out = append(out, c.items[name])
	}
	return out
}

// Subtotal sums every line at exact precision. An empty cart is 0.00.
func (c *Cart) Subtotal() (types.Money, error) {
	subtotal := types.ZeroMoney()
	for _, item := range c.items {
		line, err := item.LineTotal()
		if err != nil {
			return types.Money{}, err
		}
		subtotal = subtotal.Add(line)
	}
	return subtotal, nil
}

// TaxPayable is the subtotal at TaxRate, rounded half to even.
func (c *Cart) TaxPayable() (types.Money, error) {
	subtotal, err := c.Subtotal()
	if err != nil {
		return types.Money{}, err
	}
	return subtotal.MulRoundBank(TaxRate), nil
}

func (c *Cart) TotalPayable() (types.Money, error) {
	totals, err := c.Summary()
	if err != nil {
		return types.Money{}, err
	}
	return totals.Total, nil
}

// Summary prices the cart in one pass.
func (c *Cart) Summary() (Totals, error) {
	subtotal, err := c.Subtotal()
	if err != nil {
		return Totals{}, err
	}
	tax := subtotal.MulRoundBank(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}
