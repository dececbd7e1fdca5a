package billing

import (
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Settlement is the change owed and the resulting payment status.
type Settlement struct {
	Change decimal.Decimal
	Status enum.PaymentStatus
}

// Settle computes change = payment - total. A missing payment counts as zero
// for the change, and the sale is completed only when a payment was entered
// and covers the total (exact payment included).
func Settle(total decimal.Decimal, payment decimal.NullDecimal) Settlement {
	paid := decimal.Zero
	if payment.Valid {
		paid = payment.Decimal
	}
	change := paid.Sub(total)

	status := enum.PaymentStatusPending
	if payment.Valid && !change.IsNegative() {
		status = enum.PaymentStatusCompleted
	}
	return Settlement{Change: change, Status: status}
}
