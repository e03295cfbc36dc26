package cart

import (
	"encoding/json"
	"math"
	"testing"

	product "github.com/angelmondragon/shopcart/internal/products"
	pkgerrors "github.com/angelmondragon/shopcart/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, title string, price float64) product.Product {
	t.Helper()
	p, err := product.NewProductFromFloat(title, price)
	require.NoError(t, err)
	return p
}

func TestNewItem(t *testing.T) {
	t.Parallel()

	p := mustProduct(t, "cheerios", 8.43)

	item, err := NewItem(p, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Quantity())
	assert.Equal(t, "cheerios", item.Title())
	assert.Equal(t, "8.43", item.UnitPrice().String())

	if _, err := NewItem(product.Product{}, 1); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidProduct) {
		t.Fatalf("expected invalid product, got %v", err)
	}
	if _, err := NewItem(p, -1); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestItemIncrementAmountBy(t *testing.T) {
	t.Parallel()

	item, err := NewItem(mustProduct(t, "frosties", 4.99), 2)
	require.NoError(t, err)

	same, err := item.IncrementAmountBy(0)
	require.NoError(t, err)
	assert.Same(t, item, same)

	more, err := item.IncrementAmountBy(3)
	require.NoError(t, err)
	assert.Equal(t, 5, more.Quantity())
	assert.Equal(t, 2, item.Quantity())
	assert.True(t, more.Product().Equal(item.Product()))

	if _, err := item.IncrementAmountBy(-1); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestItemIncrementAmountByRejectsOverflow(t *testing.T) {
	t.Parallel()

	item, err := NewItem(mustProduct(t, "weetabix", 9.98), math.MaxInt)
	require.NoError(t, err)

	next, err := item.IncrementAmountBy(1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	assert.Nil(t, next)
	assert.Equal(t, math.MaxInt, item.Quantity())

	small, err := NewItem(mustProduct(t, "weetabix", 9.98), 1)
	require.NoError(t, err)
	top, err := small.IncrementAmountBy(math.MaxInt - 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, top.Quantity())
}

func TestItemDecrementAmountBy(t *testing.T) {
	t.Parallel()

	item, err := NewItem(mustProduct(t, "shreddies", 4.68), 4)
	require.NoError(t, err)

	same, err := item.DecrementAmountBy(0)
	require.NoError(t, err)
	assert.Same(t, item, same)

	cases := map[int]int{1: 3, 4: 0, 10: 0}
	for by, want := range cases {
		got, err := item.DecrementAmountBy(by)
		require.NoError(t, err)
		assert.Equal(t, want, got.Quantity(), "decrement by %d", by)
	}

	if _, err := item.DecrementAmountBy(-2); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
}

func TestItemLineTotal(t *testing.T) {
	t.Parallel()

	item, err := NewItem(mustProduct(t, "cornflakes", 2.52), 3)
	require.NoError(t, err)

	total, err := item.LineTotal()
	require.NoError(t, err)
	assert.Equal(t, "7.56", total.String())

	overPrecise := mustProduct(t, "bulk oats", 0.125)
	item, err = NewItem(overPrecise, 1)
	require.NoError(t, err)
	if _, err := item.LineTotal(); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestItemJSONRoundTrip(t *testing.T) {
	t.Parallel()

	item, err := NewItem(mustProduct(t, "weetabix", 9.98), 7)
	require.NoError(t, err)

	raw, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"weetabix","price":9.98,"quantity":7}`, string(raw))

	var decoded Item
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, item.Title(), decoded.Title())
	assert.True(t, item.UnitPrice().Equal(decoded.UnitPrice()))
	assert.Equal(t, item.Quantity(), decoded.Quantity())
}

func TestItemJSONRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := map[string]pkgerrors.Code{
		`{"title":"weetabix","price":9.98}`:                 pkgerrors.CodeValidation,
		`{"title":"weetabix","price":9.98,"quantity":-1}`:   pkgerrors.CodeValidation,
		`{"title":"   ","price":9.98,"quantity":1}`:         pkgerrors.CodeInvalidTitle,
		`{"title":"weetabix","price":-9.98,"quantity":1}`:   pkgerrors.CodeInvalidPrice,
		`{"title":"weetabix","price":"cheap","quantity":1}`: pkgerrors.CodeValidation,
		`{"title":"weetabix","price":"9.98","quantity":1}`:  pkgerrors.CodeValidation,
	}
	for body, code := range cases {
		var item Item
		err := json.Unmarshal([]byte(body), &item)
		if !pkgerrors.IsCode(err, code) {
			t.Fatalf("body %s: expected %s, got %v", body, code, err)
		}
	}
}
