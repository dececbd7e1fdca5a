package billing

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductInput holds the raw "add product" form fields as typed by the cashier.
type ProductInput struct {
	Name     string
	Price    string
	Quantity string
}

// parse validates the raw fields. Invalid input is reported as !ok and
// otherwise ignored by the caller.
func (in ProductInput) parse() (name string, price decimal.Decimal, quantity int, ok bool) {
	name = strings.TrimSpace(in.Name)
	if name == "" {
		return "", decimal.Zero, 0, false
	}
	price, ok = ParseAmount(in.Price)
	if !ok || price.IsNegative() {
		return "", decimal.Zero, 0, false
	}
	quantity, ok = ParseQuantity(in.Quantity)
	if !ok {
		return "", decimal.Zero, 0, false
	}
	return name, price, quantity, true
}

// ParseAmount parses a decimal money or numeric field.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseQuantity parses a strictly positive integer quantity.
func ParseQuantity(raw string) (int, bool) {
	q, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || q <= 0 {
		return 0, false
	}
	return q, true
}

// ParseDiscountValue parses the discount field. Empty, unparsable and negative
// input all count as 0.
func ParseDiscountValue(raw string) decimal.Decimal {
	d, ok := ParseAmount(raw)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParsePayment parses the "payment received" field. An empty or unparsable
// field means no payment was entered.
func ParsePayment(raw string) decimal.NullDecimal {
	d, ok := ParseAmount(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
