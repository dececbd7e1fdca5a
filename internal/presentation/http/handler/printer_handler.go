package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.Status(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// PrintSale reprints the receipt of a stored sale.
func (h *PrinterHandler) PrintSale(c *gin.Context) {
	receipt, err := h.printerService.PrintSale(c.Request.Context(), c.Param("sale_id"))
	if err != nil {
		// Return the receipt data anyway so it can be shown on screen
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// SaleReceiptPDF renders the receipt of a stored sale as a PDF.
func (h *PrinterHandler) SaleReceiptPDF(c *gin.Context) {
	saleID := c.Param("sale_id")
	data, err := h.printerService.SalePDF(c.Request.Context(), saleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	sendPDF(c, saleID+".pdf", data)
}
