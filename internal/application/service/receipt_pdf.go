package service

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/phpdave11/gofpdf"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/skip2/go-qrcode"
)

// Receipt roll geometry in millimetres.
const (
	pdfPageWidth = 80.0
	pdfMargin    = 5.0
	pdfLine      = 5.0
	pdfQRSize    = 30.0
)

// RenderReceiptPDF lays the receipt out on an 80mm roll. A QR code of the
// sale id is added when the receipt has one.
func RenderReceiptPDF(r *entity.Receipt) ([]byte, error) {
	lines := 14 + len(r.Items)
	height := float64(lines)*pdfLine + 2*pdfMargin
	if r.SaleID != "" {
		height += pdfQRSize + pdfLine
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: pdfPageWidth, Ht: height},
	})
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	content := pdfPageWidth - 2*pdfMargin
	nameW, qtyW, priceW := content*0.4, content*0.15, content*0.2
	totalW := content - nameW - qtyW - priceW

	// Header
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(content, 7, tr(r.Header.BusinessName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	if r.SaleID != "" {
		pdf.CellFormat(content, pdfLine, "Sale ID: "+r.SaleID, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(content, pdfLine, "Date: "+r.Date, "", 1, "C", false, 0, "")
	pdf.CellFormat(content, pdfLine, "Time: "+r.Time, "B", 1, "C", false, 0, "")

	// Items
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(nameW, pdfLine, "Item", "", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, pdfLine, "Qty", "", 0, "R", false, 0, "")
	pdf.CellFormat(priceW, pdfLine, "Price", "", 0, "R", false, 0, "")
	pdf.CellFormat(totalW, pdfLine, "Total", "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	for _, item := range r.Items {
		pdf.CellFormat(nameW, pdfLine, tr(fitText(pdf, item.Name, nameW)), "", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, pdfLine, strconv.Itoa(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(priceW, pdfLine, FormatMoney(item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(totalW, pdfLine, FormatMoney(item.Total), "", 1, "R", false, 0, "")
	}
	pdf.Line(pdfMargin, pdf.GetY()+1, pdfPageWidth-pdfMargin, pdf.GetY()+1)
	pdf.Ln(2)

	// Totals
	keyValue := func(key, value string) {
		pdf.CellFormat(content/2, pdfLine, key, "", 0, "L", false, 0, "")
		pdf.CellFormat(content/2, pdfLine, value, "", 1, "R", false, 0, "")
	}
	keyValue("Subtotal:", FormatMoney(r.Subtotal))
	if r.HasDiscount() {
		keyValue("Discount:", "-"+FormatMoney(r.DiscountAmount))
	}
	pdf.SetFont("Arial", "B", 10)
	keyValue("TOTAL:", FormatMoney(r.Total))
	pdf.SetFont("Arial", "", 8)
	if r.HasPayment() {
		keyValue("Payment:", FormatMoney(r.Payment.Decimal))
		keyValue("Change:", FormatMoney(r.Change))
	}

	pdf.Ln(2)
	pdf.CellFormat(content, pdfLine, tr(r.Footer), "T", 1, "C", false, 0, "")

	if r.SaleID != "" {
		qrPNG, err := qrcode.Encode(r.SaleID, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("failed to encode sale id QR code: %w", err)
		}
		imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("sale-qr", imageOpts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("sale-qr", (pdfPageWidth-pdfQRSize)/2, pdf.GetY()+2, pdfQRSize, pdfQRSize, false, imageOpts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// fitText trims s until it fits into width at the current font.
func fitText(pdf *gofpdf.Fpdf, s string, width float64) string {
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
