package request

import (
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// SaleItemRequest represents one item of a sale
type SaleItemRequest struct {
	ProductName string  `json:"product_name" binding:"required,max=200"`
	UnitPrice   float64 `json:"unit_price" binding:"min=0"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	// TotalPrice is accepted for compatibility and recomputed on the server.
	TotalPrice float64 `json:"total_price"`
}

// CreateSaleRequest represents the sale record posted by a register
type CreateSaleRequest struct {
	Subtotal        float64            `json:"subtotal"`
	DiscountType    enum.DiscountType  `json:"discount_type"`
	DiscountValue   float64            `json:"discount_value" binding:"min=0"`
	DiscountAmount  float64            `json:"discount_amount"`
	TotalAmount     float64            `json:"total_amount"`
	PaymentReceived *float64           `json:"payment_received"`
	ChangeAmount    float64            `json:"change_amount"`
	PaymentStatus   enum.PaymentStatus `json:"payment_status"`
	Items           []SaleItemRequest  `json:"items" binding:"required,min=1,dive"`
}

// ToInput converts the request to the service input
func (r *CreateSaleRequest) ToInput() *service.CreateSaleInput {
	in := &service.CreateSaleInput{
		Subtotal:       decimal.NewFromFloat(r.Subtotal),
		DiscountType:   r.DiscountType,
		DiscountValue:  decimal.NewFromFloat(r.DiscountValue),
		DiscountAmount: decimal.NewFromFloat(r.DiscountAmount),
		TotalAmount:    decimal.NewFromFloat(r.TotalAmount),
		ChangeAmount:   decimal.NewFromFloat(r.ChangeAmount),
		PaymentStatus:  r.PaymentStatus,
		Items:          make([]service.SaleItemInput, 0, len(r.Items)),
	}
	if r.PaymentReceived != nil {
		in.PaymentReceived = decimal.NewNullDecimal(decimal.NewFromFloat(*r.PaymentReceived))
	}
	for _, item := range r.Items {
		in.Items = append(in.Items, service.SaleItemInput{
			ProductName: item.ProductName,
			UnitPrice:   decimal.NewFromFloat(item.UnitPrice),
			Quantity:    item.Quantity,
		})
	}
	return in
}

// SaleFilterRequest represents sale list parameters
type SaleFilterRequest struct {
	Status  string `form:"status" binding:"omitempty,oneof=pending completed cancelled"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// UpdateSaleStatusRequest changes the payment status of a stored sale
type UpdateSaleStatusRequest struct {
	PaymentStatus enum.PaymentStatus `json:"payment_status" binding:"required"`
}
