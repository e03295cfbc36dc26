package cart

import (
	"encoding/json"

	product "github.com/angelmondragon/shopcart/internal/products"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/validators"
)

// ItemRecord is the flat wire form of an Item.
type ItemRecord struct {
	Title    string         `json:"title" validate:"required"`
	Price    *product.Price `json:"price" validate:"required"`
	Quantity *int           `json:"quantity" validate:"required,gte=0"`
}

func (i *Item) MarshalJSON() ([]byte, error) {
	quantity := i.quantity
	return json.Marshal(ItemRecord{
		Title:    i.Title(),
		Price:    product.NewPrice(i.UnitPrice()),
		Quantity: &quantity,
	})
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var rec ItemRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item json")
	}
	if err := validators.Struct(rec); err != nil {
		return err
	}

	price, err := rec.Price.Decimal()
	if err != nil {
		return err
	}
	p, err := product.NewProduct(rec.Title, price)
	if err != nil {
		return err
	}
	item, err := NewItem(p, *rec.Quantity)
	if err != nil {
		return err
	}
	*i = *item
	return nil
}
