// Package billing implements the register's billing engine: the cart, pricing,
// settlement and the sale snapshot that is sent to the sales API.
//
// All values in this package are immutable. Operations return a new value and
// never modify the receiver, so a snapshot taken from a Cart or State is never
// affected by later mutation.
package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single cart entry.
type LineItem struct {
	ID        string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns unit price × quantity.
func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of line items. The zero value is an empty cart.
type Cart struct {
	items []LineItem
}

// NewCart returns a cart holding a copy of items.
func NewCart(items ...LineItem) Cart {
	return Cart{items: append([]LineItem(nil), items...)}
}

// Add appends a new line item with a fresh id. Identical name/price pairs are
// not merged. It reports false and leaves the cart unchanged when the name is
// blank, the price negative or the quantity not positive.
func (c Cart) Add(name string, unitPrice decimal.Decimal, quantity int) (Cart, LineItem, bool) {
	if name == "" || unitPrice.IsNegative() || quantity <= 0 {
		return c, LineItem{}, false
	}

	item := LineItem{
		ID:        uuid.NewString(),
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
	}

	items := make([]LineItem, len(c.items), len(c.items)+1)
	copy(items, c.items)
	return Cart{items: append(items, item)}, item, true
}

// SetQuantity changes the quantity of the item with the given id.
// Quantities of zero or below are ignored; use Remove to drop an item.
func (c Cart) SetQuantity(id string, quantity int) Cart {
	if quantity <= 0 {
		return c
	}
	idx := c.indexOf(id)
	if idx < 0 {
		return c
	}

	items := c.Items()
	items[idx].Quantity = quantity
	return Cart{items: items}
}

// Remove drops the item with the given id. Unknown ids are ignored.
func (c Cart) Remove(id string) Cart {
	idx := c.indexOf(id)
	if idx < 0 {
		return c
	}

	items := make([]LineItem, 0, len(c.items)-1)
	items = append(items, c.items[:idx]...)
	items = append(items, c.items[idx+1:]...)
	return Cart{items: items}
}

// Items returns a copy of the cart's line items in insertion order.
func (c Cart) Items() []LineItem {
	return append([]LineItem(nil), c.items...)
}

// Item looks up a line item by id.
func (c Cart) Item(id string) (LineItem, bool) {
	idx := c.indexOf(id)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.items[idx], true
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Subtotal sums the line totals. It is recomputed on every call.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.Total())
	}
	return sum
}

func (c Cart) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
