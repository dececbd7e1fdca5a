package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/application/billing"
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/shundor-pos/pkg/apperror"
)

// Save attempt outcomes reported to the SaveRecorder
const (
	SaveResultSuccess    = "success"
	SaveResultEmptyCart  = "empty_cart"
	SaveResultInProgress = "in_progress"
	SaveResultStale      = "stale"
	SaveResultFailed     = "failed"
)

// SaveRecorder is notified of every save attempt
type SaveRecorder interface {
	SaveAttempt(result string)
}

// BillHandler exposes the register's cashier session
type BillHandler struct {
	session        *billing.Session
	printerService *service.PrinterService
	recorder       SaveRecorder
}

// NewBillHandler creates a new bill handler
func NewBillHandler(session *billing.Session, printerService *service.PrinterService, recorder SaveRecorder) *BillHandler {
	return &BillHandler{
		session:        session,
		printerService: printerService,
		recorder:       recorder,
	}
}

func (h *BillHandler) bill() *response.BillResponse {
	return response.NewBillResponse(h.session.Bill())
}

// Get returns the current bill
func (h *BillHandler) Get(c *gin.Context) {
	response.OK(c, "Bill retrieved", h.bill())
}

// AddItem adds a product line. Input the register cannot use leaves the bill
// unchanged.
func (h *BillHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	item, ok := h.session.AddProduct(billing.ProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if !ok {
		response.OK(c, "Item ignored", h.bill())
		return
	}

	response.Success(c, http.StatusCreated, "Item "+item.Name+" added", h.bill())
}

// UpdateQuantity sets the quantity of one line
func (h *BillHandler) UpdateQuantity(c *gin.Context) {
	var req request.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.session.SetQuantity(c.Param("id"), req.Quantity)
	response.OK(c, "Quantity updated", h.bill())
}

// RemoveItem deletes one line
func (h *BillHandler) RemoveItem(c *gin.Context) {
	h.session.RemoveItem(c.Param("id"))
	response.OK(c, "Item removed", h.bill())
}

// SetDiscount sets the discount mode and value
func (h *BillHandler) SetDiscount(c *gin.Context) {
	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.session.SetDiscount(enum.DiscountType(req.Type), req.Value)
	response.OK(c, "Discount updated", h.bill())
}

// SetPayment sets the amount tendered
func (h *BillHandler) SetPayment(c *gin.Context) {
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.session.SetPayment(req.Amount)
	response.OK(c, "Payment updated", h.bill())
}

// Save records the bill with the sales API
func (h *BillHandler) Save(c *gin.Context) {
	saleID, err := h.session.Save(c.Request.Context())
	if err == nil {
		h.record(SaveResultSuccess)
		response.SaleCreated(c, "Sale saved successfully", saleID, h.bill())
		return
	}

	var appErr *apperror.AppError
	switch {
	case errors.Is(err, billing.ErrSaveInProgress):
		h.record(SaveResultInProgress)
		appErr = apperror.ErrSaveInProgress
	case errors.Is(err, billing.ErrEmptyCart):
		h.record(SaveResultEmptyCart)
		appErr = apperror.ErrEmptyCart
	case errors.Is(err, billing.ErrStaleResult):
		h.record(SaveResultStale)
		appErr = apperror.ErrBillCleared
	default:
		h.record(SaveResultFailed)
		appErr = apperror.ErrSalesAPIFailed
	}
	response.ErrorWithData(c, appErr, h.bill())
}

// Clear starts a new bill
func (h *BillHandler) Clear(c *gin.Context) {
	h.session.Clear()
	response.OK(c, "Bill cleared", h.bill())
}

// Print sends the current bill to the receipt printer
func (h *BillHandler) Print(c *gin.Context) {
	receipt, err := h.printerService.PrintBill(c.Request.Context(), h.session.Bill())
	if err != nil {
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}

// ReceiptPDF renders the current bill as a PDF
func (h *BillHandler) ReceiptPDF(c *gin.Context) {
	bill := h.session.Bill()
	data, err := h.printerService.BillPDF(bill)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "receipt.pdf"
	if bill.LastSaleID != "" {
		filename = bill.LastSaleID + ".pdf"
	}
	sendPDF(c, filename, data)
}

func (h *BillHandler) record(result string) {
	if h.recorder != nil {
		h.recorder.SaveAttempt(result)
	}
}
