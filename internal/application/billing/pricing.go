package billing

import (
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is a percentage of the subtotal or a flat amount.
type Discount struct {
	Type  enum.DiscountType
	Value decimal.Decimal
}

// NoDiscount is the register's initial discount: 0 percent.
func NoDiscount() Discount {
	return Discount{Type: enum.DiscountTypePercentage, Value: decimal.Zero}
}

// Amount returns the money taken off the given subtotal.
// The amount is not capped at the subtotal.
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == enum.DiscountTypeAmount {
		return d.Value
	}
	return subtotal.Mul(d.Value).Div(hundred)
}

// Totals is the priced view of a cart.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	// Total may be negative when the discount exceeds the subtotal.
	Total decimal.Decimal
}

// ComputeTotals prices the cart with the given discount.
func ComputeTotals(cart Cart, discount Discount) Totals {
	subtotal := cart.Subtotal()
	amount := discount.Amount(subtotal)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: amount,
		Total:          subtotal.Sub(amount),
	}
}
