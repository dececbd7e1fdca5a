package billing

import (
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Snapshot is the sale record captured at save time. It holds its own copy of
// the line items and is not affected by later changes to the session.
type Snapshot struct {
	Items           []LineItem
	Discount        Discount
	Totals          Totals
	PaymentReceived decimal.NullDecimal
	Settlement      Settlement
}

// BuildSnapshot captures the sale record for the given state.
func BuildSnapshot(s State) Snapshot {
	totals := ComputeTotals(s.Cart, s.Discount)
	return Snapshot{
		Items:           s.Cart.Items(),
		Discount:        s.Discount,
		Totals:          totals,
		PaymentReceived: s.Payment,
		Settlement:      Settle(totals.Total, s.Payment),
	}
}

// SalePayload is the JSON body of the create-sale call.
type SalePayload struct {
	Subtotal        float64            `json:"subtotal"`
	DiscountType    enum.DiscountType  `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	PaymentReceived *float64           `json:"payment_received"`
	ChangeAmount    float64            `json:"change_amount"`
	PaymentStatus   enum.PaymentStatus `json:"payment_status"`
	Items           []SaleItemPayload  `json:"items"`
}

type SaleItemPayload struct {
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

// Payload converts the snapshot to the wire body. Money is rounded to 2
// places here and nowhere earlier.
func (s Snapshot) Payload() SalePayload {
	p := SalePayload{
		Subtotal:       money(s.Totals.Subtotal),
		DiscountType:   s.Discount.Type,
		DiscountValue:  s.Discount.Value.InexactFloat64(),
		DiscountAmount: money(s.Totals.DiscountAmount),
		TotalAmount:    money(s.Totals.Total),
		ChangeAmount:   money(s.Settlement.Change),
		PaymentStatus:  s.Settlement.Status,
		Items:          make([]SaleItemPayload, 0, len(s.Items)),
	}
	if s.PaymentReceived.Valid {
		paid := money(s.PaymentReceived.Decimal)
		p.PaymentReceived = &paid
	}

	for _, item := range s.Items {
		p.Items = append(p.Items, SaleItemPayload{
			ProductName: item.Name,
			UnitPrice:   money(item.UnitPrice),
			Quantity:    item.Quantity,
			TotalPrice:  money(item.Total()),
		})
	}
	return p
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
