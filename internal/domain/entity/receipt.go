package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from a bill or a stored sale at print time.
type Receipt struct {
	Header ReceiptHeader `json:"header"`
	// SaleID is empty for a bill that has not been saved yet.
	SaleID         string              `json:"sale_id,omitempty"`
	Date           string              `json:"date"`
	Time           string              `json:"time"`
	Items          []ReceiptItem       `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	Total          decimal.Decimal     `json:"total"`
	Payment        decimal.NullDecimal `json:"payment"`
	Change         decimal.Decimal     `json:"change"`
	Footer         string              `json:"footer"`
}

// HasDiscount reports whether a discount line is printed.
func (r *Receipt) HasDiscount() bool {
	return r.DiscountAmount.IsPositive()
}

// HasPayment reports whether payment and change lines are printed.
func (r *Receipt) HasPayment() bool {
	return r.Payment.Valid
}
