package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shundor-pos/internal/application/service"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shundor-pos/internal/presentation/http/dto/response"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// Create records a sale posted by a register
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SaleCreated(c, "Sale created successfully", sale.SaleID, sale)
}

// List handles listing sales, newest first
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	var status *enum.PaymentStatus
	if filter.Status != "" {
		s := enum.PaymentStatus(filter.Status)
		status = &s
	}

	result, err := h.saleService.ListSales(c.Request.Context(), getPagination(c), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// Get returns one sale with its items
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("sale_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// UpdateStatus changes a sale's payment status
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	var req request.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	sale, err := h.saleService.UpdateStatus(c.Request.Context(), c.Param("sale_id"), req.PaymentStatus)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale status updated successfully", sale)
}

// DailySummary totals today's completed sales
func (h *SaleHandler) DailySummary(c *gin.Context) {
	summary, err := h.saleService.DailySummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily summary retrieved successfully", summary)
}

// WeeklySummary totals the last week's completed sales
func (h *SaleHandler) WeeklySummary(c *gin.Context) {
	summary, err := h.saleService.WeeklySummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Weekly summary retrieved successfully", summary)
}
