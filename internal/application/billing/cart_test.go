package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCart_Add(t *testing.T) {
	var cart Cart

	cart, coffee, ok := cart.Add("Coffee", dec("3.50"), 2)
	require.True(t, ok)
	cart, coffee2, ok := cart.Add("Coffee", dec("3.50"), 2)
	require.True(t, ok)

	assert.Equal(t, 2, cart.Len(), "identical products are not merged")
	assert.NotEqual(t, coffee.ID, coffee2.ID)
	assert.True(t, dec("14").Equal(cart.Subtotal()))
}

func TestCart_AddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		price    decimal.Decimal
		quantity int
	}{
		{name: "blank name", itemName: "", price: dec("1"), quantity: 1},
		{name: "negative price", itemName: "Tea", price: dec("-0.01"), quantity: 1},
		{name: "zero quantity", itemName: "Tea", price: dec("1"), quantity: 0},
		{name: "negative quantity", itemName: "Tea", price: dec("1"), quantity: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, _, ok := Cart{}.Add(tt.itemName, tt.price, tt.quantity)
			assert.False(t, ok)
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestCart_AddAllowsFreeItem(t *testing.T) {
	cart, _, ok := Cart{}.Add("Sample", decimal.Zero, 1)
	require.True(t, ok)
	assert.True(t, cart.Subtotal().IsZero())
}

func TestCart_IsImmutable(t *testing.T) {
	before, item, _ := Cart{}.Add("Coffee", dec("3.50"), 2)

	after := before.SetQuantity(item.ID, 5)
	after, _, _ = after.Add("Tea", dec("1"), 1)

	got, ok := before.Item(item.ID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 1, before.Len())
	assert.Equal(t, 2, after.Len())

	items := after.Items()
	items[0].Quantity = 99
	got, _ = after.Item(item.ID)
	assert.Equal(t, 5, got.Quantity, "Items returns a copy")
}

func TestCart_SetQuantity(t *testing.T) {
	cart, item, _ := Cart{}.Add("Coffee", dec("3.50"), 2)

	cart = cart.SetQuantity(item.ID, 4)
	assert.True(t, dec("14").Equal(cart.Subtotal()))

	cart = cart.SetQuantity(item.ID, 0)
	got, _ := cart.Item(item.ID)
	assert.Equal(t, 4, got.Quantity, "zero quantity is ignored")

	cart = cart.SetQuantity(item.ID, -1)
	got, _ = cart.Item(item.ID)
	assert.Equal(t, 4, got.Quantity, "negative quantity is ignored")

	cart = cart.SetQuantity("missing", 7)
	assert.Equal(t, 1, cart.Len())
}

func TestCart_RemoveIsIdempotent(t *testing.T) {
	cart, coffee, _ := Cart{}.Add("Coffee", dec("3.50"), 2)
	cart, tea, _ := cart.Add("Tea", dec("2"), 1)

	once := cart.Remove(coffee.ID)
	twice := once.Remove(coffee.ID)

	assert.Equal(t, once.Items(), twice.Items())
	require.Equal(t, 1, twice.Len())
	assert.Equal(t, tea.ID, twice.Items()[0].ID)
	assert.Equal(t, 2, cart.Len())
}

func TestCart_EmptySubtotal(t *testing.T) {
	assert.True(t, Cart{}.Subtotal().IsZero())
	assert.True(t, NewCart().IsEmpty())
}

func TestLineItem_Total(t *testing.T) {
	item := LineItem{UnitPrice: dec("0.10"), Quantity: 3}
	assert.Equal(t, "0.3", item.Total().String())
}
