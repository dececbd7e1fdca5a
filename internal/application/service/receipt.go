package service

import (
	"strconv"
	"time"

	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/pkg/printer"
	"github.com/shopspring/decimal"
)

const (
	receiptDateLayout = "2006-01-02"
	receiptTimeLayout = "15:04:05"
	receiptFooter     = "Thank you for your business!"
)

// NewBillReceipt composes a receipt for the register's current bill. The
// sale id is printed only after the bill was saved.
func NewBillReceipt(businessName string, bill billing.Bill, now time.Time) *entity.Receipt {
	r := &entity.Receipt{
		Header:         entity.ReceiptHeader{BusinessName: businessName},
		SaleID:         bill.LastSaleID,
		Date:           now.Format(receiptDateLayout),
		Time:           now.Format(receiptTimeLayout),
		Items:          make([]entity.ReceiptItem, 0, len(bill.Items)),
		Subtotal:       bill.Totals.Subtotal,
		DiscountAmount: bill.Totals.DiscountAmount,
		Total:          bill.Totals.Total,
		Payment:        bill.PaymentReceived,
		Change:         bill.Settlement.Change,
		Footer:         receiptFooter,
	}
	for _, item := range bill.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total(),
		})
	}
	return r
}

// NewSaleReceipt composes a reprint of a stored sale, dated when it was made.
func NewSaleReceipt(businessName string, sale *entity.Sale) *entity.Receipt {
	r := &entity.Receipt{
		Header:         entity.ReceiptHeader{BusinessName: businessName},
		SaleID:         sale.SaleID,
		Date:           sale.CreatedAt.Format(receiptDateLayout),
		Time:           sale.CreatedAt.Format(receiptTimeLayout),
		Items:          make([]entity.ReceiptItem, 0, len(sale.Items)),
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		Total:          sale.TotalAmount,
		Payment:        sale.PaymentReceived,
		Change:         sale.ChangeAmount,
		Footer:         receiptFooter,
	}
	for _, item := range sale.Items {
		r.Items = append(r.Items, entity.ReceiptItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.TotalPrice,
		})
	}
	return r
}

// FormatReceipt converts a Receipt into ESC/POS bytes for a paper of the
// given character width.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	qtyW, priceW, totalW := 4, 9, 9
	nameW := doc.Width() - qtyW - priceW - totalW

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.BusinessName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.SaleID != "" {
		doc.TextF("Sale ID: %s", r.SaleID)
	}
	doc.TextF("Date: %s", r.Date).
		TextF("Time: %s", r.Time)

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Items
	doc.SetBold(true).
		Row(
			printer.Column{Text: "Item", Width: nameW},
			printer.Column{Text: "Qty", Width: qtyW, Align: printer.AlignRight},
			printer.Column{Text: "Price", Width: priceW, Align: printer.AlignRight},
			printer.Column{Text: "Total", Width: totalW, Align: printer.AlignRight},
		).
		SetBold(false)

	for _, item := range r.Items {
		doc.Row(
			printer.Column{Text: item.Name, Width: nameW},
			printer.Column{Text: strconv.Itoa(item.Quantity), Width: qtyW, Align: printer.AlignRight},
			printer.Column{Text: FormatMoney(item.UnitPrice), Width: priceW, Align: printer.AlignRight},
			printer.Column{Text: FormatMoney(item.Total), Width: totalW, Align: printer.AlignRight},
		)
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", FormatMoney(r.Subtotal))
	if r.HasDiscount() {
		doc.KeyValue("Discount:", "-"+FormatMoney(r.DiscountAmount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", FormatMoney(r.Total)).
		SetBold(false)

	if r.HasPayment() {
		doc.KeyValue("Payment:", FormatMoney(r.Payment.Decimal)).
			KeyValue("Change:", FormatMoney(r.Change))
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(r.Footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatMoney renders d as $1234.50, or -$5.00 for negative amounts.
func FormatMoney(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
