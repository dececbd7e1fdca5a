package billing

import (
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// State is the complete cashier session. Each transition returns a new State.
type State struct {
	Cart       Cart
	Discount   Discount
	Payment    decimal.NullDecimal
	SaveStatus enum.SaveStatus
	LastSaleID string
}

// NewState returns an empty bill with no discount and no payment.
func NewState() State {
	return State{
		Discount:   NoDiscount(),
		SaveStatus: enum.SaveStatusIdle,
	}
}

// AddProduct appends the product described by the raw form fields.
// Input that does not parse is ignored.
func (s State) AddProduct(in ProductInput) (State, LineItem, bool) {
	name, price, quantity, ok := in.parse()
	if !ok {
		return s, LineItem{}, false
	}
	cart, item, ok := s.Cart.Add(name, price, quantity)
	if !ok {
		return s, LineItem{}, false
	}
	s.Cart = cart
	return s, item, true
}

func (s State) SetQuantity(id string, quantity int) State {
	s.Cart = s.Cart.SetQuantity(id, quantity)
	return s
}

func (s State) RemoveItem(id string) State {
	s.Cart = s.Cart.Remove(id)
	return s
}

// SetDiscount sets the discount mode and raw value. An unknown mode keeps the
// current one.
func (s State) SetDiscount(discountType enum.DiscountType, raw string) State {
	if discountType.Valid() {
		s.Discount.Type = discountType
	}
	s.Discount.Value = ParseDiscountValue(raw)
	return s
}

func (s State) SetPayment(raw string) State {
	s.Payment = ParsePayment(raw)
	return s
}

func (s State) withSaveStatus(status enum.SaveStatus) State {
	s.SaveStatus = status
	return s
}

// Bill is the read view of a session.
type Bill struct {
	Items           []LineItem
	Discount        Discount
	Totals          Totals
	PaymentReceived decimal.NullDecimal
	Settlement      Settlement
	SaveStatus      enum.SaveStatus
	LastSaleID      string
}

// Bill prices the current state.
func (s State) Bill() Bill {
	snap := BuildSnapshot(s)
	return Bill{
		Items:           snap.Items,
		Discount:        snap.Discount,
		Totals:          snap.Totals,
		PaymentReceived: snap.PaymentReceived,
		Settlement:      snap.Settlement,
		SaveStatus:      s.SaveStatus,
		LastSaleID:      s.LastSaleID,
	}
}
