package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/sangkips/shundor-pos/internal/domain/repository"
	"github.com/sangkips/shundor-pos/pkg/apperror"
	"github.com/sangkips/shundor-pos/pkg/pagination"
	"github.com/sangkips/shundor-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

// SaleRecorder is notified of every persisted sale.
type SaleRecorder interface {
	SaleCreated(paymentStatus string)
}

// SaleService handles sale persistence and reporting for the sales API
type SaleService struct {
	saleRepo repository.SaleRepository
	recorder SaleRecorder
	now      func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, recorder SaleRecorder) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		recorder: recorder,
		now:      time.Now,
	}
}

// SaleItemInput represents an item in a sale
type SaleItemInput struct {
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// CreateSaleInput represents the create sale input as sent by a register
type CreateSaleInput struct {
	Subtotal        decimal.Decimal
	DiscountType    enum.DiscountType
	DiscountValue   decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentReceived decimal.NullDecimal
	ChangeAmount    decimal.Decimal
	PaymentStatus   enum.PaymentStatus
	Items           []SaleItemInput
}

// CreateSale assigns a sale id and stores the sale with its items. Item
// totals are recomputed from price and quantity; the sale-level figures are
// stored as sent.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "items", Message: "at least one item is required"},
		})
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = enum.DiscountTypePercentage
	}
	status := input.PaymentStatus
	if status == "" {
		status = enum.PaymentStatusPending
	}

	sale := &entity.Sale{
		SaleID:          utils.GenerateSaleID(s.now()),
		Subtotal:        input.Subtotal.Round(2),
		DiscountType:    discountType,
		DiscountValue:   input.DiscountValue.Round(2),
		DiscountAmount:  input.DiscountAmount.Round(2),
		TotalAmount:     input.TotalAmount.Round(2),
		PaymentReceived: roundNull(input.PaymentReceived),
		ChangeAmount:    input.ChangeAmount.Round(2),
		PaymentStatus:   status,
		Items:           make([]entity.SaleItem, 0, len(input.Items)),
	}

	for _, item := range input.Items {
		unitPrice := item.UnitPrice.Round(2)
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductName: item.ProductName,
			UnitPrice:   unitPrice,
			Quantity:    item.Quantity,
			TotalPrice:  unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	if s.recorder != nil {
		s.recorder.SaleCreated(sale.PaymentStatus.String())
	}
	slog.InfoContext(ctx, "sale created",
		slog.String("sale_id", sale.SaleID),
		slog.String("payment_status", sale.PaymentStatus.String()),
		slog.String("total_amount", sale.TotalAmount.StringFixed(2)),
	)

	return sale, nil
}

// GetSale returns a sale with its items
func (s *SaleService) GetSale(ctx context.Context, saleID string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.ErrSaleNotFound
	}
	return sale, nil
}

// ListSales returns sales newest first, optionally filtered by status
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams, status *enum.PaymentStatus) (*pagination.PaginatedResult[entity.SaleListItem], error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()

	sales, total, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
		Pagination: params,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(sales, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// UpdateStatus changes the payment status of a stored sale. This is the only
// way a sale becomes cancelled.
func (s *SaleService) UpdateStatus(ctx context.Context, saleID string, status enum.PaymentStatus) (*entity.Sale, error) {
	if !status.Valid() {
		return nil, apperror.NewBadRequestError("Invalid payment status")
	}

	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.UpdateStatus(ctx, saleID, status); err != nil {
		return nil, fmt.Errorf("failed to update sale status: %w", err)
	}

	slog.InfoContext(ctx, "sale status changed",
		slog.String("sale_id", saleID),
		slog.String("from", sale.PaymentStatus.String()),
		slog.String("to", status.String()),
	)
	sale.PaymentStatus = status
	return sale, nil
}

// DailySummary totals today's completed sales
func (s *SaleService) DailySummary(ctx context.Context) (*entity.SaleSummary, error) {
	today := startOfDay(s.now())
	return s.summary(ctx, today, today)
}

// WeeklySummary totals completed sales from seven days ago through today
func (s *SaleService) WeeklySummary(ctx context.Context) (*entity.SaleSummary, error) {
	today := startOfDay(s.now())
	return s.summary(ctx, today.AddDate(0, 0, -7), today)
}

// summary aggregates the calendar days first through last, inclusive.
func (s *SaleService) summary(ctx context.Context, first, last time.Time) (*entity.SaleSummary, error) {
	result, err := s.saleRepo.Summary(ctx, enum.PaymentStatusCompleted, first, last.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales: %w", err)
	}
	result.StartDate = first
	result.EndDate = last
	return result, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func roundNull(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(2))
}
