package repository

import (
	"context"
	"time"

	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/sangkips/shundor-pos/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	// Create stores the sale and its items in one transaction
	Create(ctx context.Context, sale *entity.Sale) error
	// GetBySaleID returns the sale with its items, or nil when it does not exist
	GetBySaleID(ctx context.Context, saleID string) (*entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.SaleListItem, int64, error)
	UpdateStatus(ctx context.Context, saleID string, status enum.PaymentStatus) error
	// Summary aggregates sales with the given status created in [from, to)
	Summary(ctx context.Context, status enum.PaymentStatus, from, to time.Time) (*entity.SaleSummary, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.PaymentStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
