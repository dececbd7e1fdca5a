package response

import (
	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
)

// BillItemResponse is one line of the register's bill
type BillItemResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// BillResponse is the register's current bill as shown to the cashier
type BillResponse struct {
	Items           []BillItemResponse `json:"items"`
	DiscountType    enum.DiscountType  `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value"`
	Subtotal        float64            `json:"subtotal"`
	DiscountAmount  float64            `json:"discount_amount"`
	Total           float64            `json:"total"`
	PaymentReceived *float64           `json:"payment_received"`
	Change          float64            `json:"change"`
	PaymentStatus   enum.PaymentStatus `json:"payment_status"`
	SaveStatus      enum.SaveStatus    `json:"save_status"`
	LastSaleID      string             `json:"last_sale_id,omitempty"`
}

// NewBillResponse converts a priced bill for display
func NewBillResponse(b billing.Bill) *BillResponse {
	items := make([]BillItemResponse, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, BillItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: entity.Money(item.UnitPrice),
			Quantity:  item.Quantity,
			Total:     entity.Money(item.Total()),
		})
	}
	return &BillResponse{
		Items:           items,
		DiscountType:    b.Discount.Type,
		DiscountValue:   b.Discount.Value.InexactFloat64(),
		Subtotal:        entity.Money(b.Totals.Subtotal),
		DiscountAmount:  entity.Money(b.Totals.DiscountAmount),
		Total:           entity.Money(b.Totals.Total),
		PaymentReceived: entity.NullMoney(b.PaymentReceived),
		Change:          entity.Money(b.Settlement.Change),
		PaymentStatus:   b.Settlement.Status,
		SaveStatus:      b.SaveStatus,
		LastSaleID:      b.LastSaleID,
	}
}
