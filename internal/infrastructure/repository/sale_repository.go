package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/shundor-pos/internal/domain/repository"
	"github.com/sangkips/shundor-pos/pkg/pagination"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(sale).Error; err != nil {
			return err
		}
		if len(sale.Items) == 0 {
			return nil
		}
		for i := range sale.Items {
			sale.Items[i].SaleRefID = sale.ID
			sale.Items[i].Position = i
		}
		return tx.Create(&sale.Items).Error
	})
}

func (r *saleRepository) GetBySaleID(ctx context.Context, saleID string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&sale, "sale_id = ?", saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.SaleListItem, int64, error) {
	var sales []entity.SaleListItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Scopes(StatusScope(params.Status), CreatedScope(params.StartDate, params.EndDate))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	err := query.
		Select("sales.id, sales.sale_id, sales.total_amount, sales.payment_status, sales.created_at, " +
			"(SELECT COUNT(*) FROM sale_items WHERE sale_items.sale_ref_id = sales.id) AS items_count").
		Scopes(PageScope(params.Pagination)).
		Order("sales.created_at DESC").
		Scan(&sales).Error

	return sales, total, err
}

func (r *saleRepository) UpdateStatus(ctx context.Context, saleID string, status enum.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("sale_id = ?", saleID).
		Update("payment_status", status).Error
}

func (r *saleRepository) Summary(ctx context.Context, status enum.PaymentStatus, from, to time.Time) (*entity.SaleSummary, error) {
	var summary entity.SaleSummary
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_sales, COUNT(*) AS total_transactions").
		Scopes(StatusScope(&status), CreatedScope(&from, &to)).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
