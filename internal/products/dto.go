package product

import (
	"bytes"
	"encoding/json"
	"io"

	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/angelmondragon/shopcart/pkg/validators"
	"github.com/shopspring/decimal"
)

// Price is a JSON number literal. A quoted price is rejected.
type Price json.Number

// NewPrice formats d as a wire price.
func NewPrice(d decimal.Decimal) *Price {
	price := Price(d.String())
	return &price
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(json.Number(p))
}

func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return pkgerrors.New(pkgerrors.CodeInvalidPrice, "price must be a json number").
			WithDetails(map[string]any{"price": string(trimmed)})
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidPrice, err, "price must be a json number")
	}
	*p = Price(n)
	return nil
}

// Decimal parses the price.
func (p Price) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(string(p))
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeInvalidPrice, err, "price is invalid")
	}
	return d, nil
}

// Record is the flat wire form {"title": string, "price": number}.
type Record struct {
	Title string `json:"title" validate:"required"`
	Price *Price `json:"price" validate:"required"`
}

// ToRecord converts p to its wire form.
func ToRecord(p Product) Record {
	return Record{Title: p.title, Price: NewPrice(p.unitPrice)}
}

// FromRecord validates rec and builds a Product from it.
func FromRecord(rec Record) (Product, error) {
	if err := validators.Struct(rec); err != nil {
		return Product{}, err
	}
	price, err := rec.Price.Decimal()
	if err != nil {
		return Product{}, err
	}
	return NewProduct(rec.Title, price)
}

// DecodeJSON reads one product record from r.
func DecodeJSON(r io.Reader) (Product, error) {
	var rec Record
	if err := validators.DecodeJSON(r, &rec); err != nil {
		return Product{}, err
	}
	return FromRecord(rec)
}

func (p Product) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToRecord(p))
}

func (p *Product) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}
