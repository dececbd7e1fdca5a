package repository

import (
	"time"

	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/sangkips/shundor-pos/pkg/pagination"
	"gorm.io/gorm"
)

// StatusScope filters sales by payment status. A nil status matches all.
func StatusScope(status *enum.PaymentStatus) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("sales.payment_status = ?", *status)
	}
}

// CreatedScope keeps rows created in [from, to). Nil bounds are open.
func CreatedScope(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("sales.created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("sales.created_at < ?", *to)
		}
		return db
	}
}

// PageScope applies offset and limit for page-based pagination
func PageScope(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}
