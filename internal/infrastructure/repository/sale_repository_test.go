package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sangkips/shundor-pos/internal/domain/entity"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	domainRepo "github.com/sangkips/shundor-pos/internal/domain/repository"
	"github.com/sangkips/shundor-pos/internal/infrastructure/database"
	"github.com/sangkips/shundor-pos/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the production schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every pooled connection to ":memory:" would see its own empty database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

var day = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

func seedSale(t *testing.T, repo domainRepo.SaleRepository, saleID string, status enum.PaymentStatus, createdAt time.Time, names ...string) *entity.Sale {
	t.Helper()
	sale := &entity.Sale{
		SaleID:        saleID,
		DiscountType:  enum.DiscountTypePercentage,
		PaymentStatus: status,
		CreatedAt:     createdAt,
	}
	total := decimal.Zero
	for i, name := range names {
		price := decimal.NewFromInt(int64(i + 1))
		sale.Items = append(sale.Items, entity.SaleItem{ProductName: name, UnitPrice: price, Quantity: 1})
		total = total.Add(price)
	}
	sale.Subtotal = total
	sale.TotalAmount = total
	require.NoError(t, repo.Create(context.Background(), sale))
	return sale
}

func TestSaleRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	created := seedSale(t, repo, "SALE-A", enum.PaymentStatusCompleted, day, "Zeta", "Alpha", "Mid")

	sale, err := repo.GetBySaleID(ctx, "SALE-A")
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, created.ID, sale.ID)
	assert.Equal(t, enum.PaymentStatusCompleted, sale.PaymentStatus)
	assert.True(t, decimal.NewFromInt(6).Equal(sale.TotalAmount))
	assert.False(t, sale.PaymentReceived.Valid)

	require.Len(t, sale.Items, 3)
	names := []string{sale.Items[0].ProductName, sale.Items[1].ProductName, sale.Items[2].ProductName}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, names, "items keep cart order")
	assert.True(t, decimal.NewFromInt(3).Equal(sale.Items[2].TotalPrice))

	// Order follows the stored position, not insertion order.
	require.NoError(t, db.Exec("UPDATE sale_items SET position = ? WHERE product_name = ?", 9, "Zeta").Error)
	sale, err = repo.GetBySaleID(ctx, "SALE-A")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", sale.Items[0].ProductName)
	assert.Equal(t, "Zeta", sale.Items[2].ProductName)
}

func TestSaleRepository_GetBySaleID_NotFound(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))

	sale, err := repo.GetBySaleID(context.Background(), "SALE-missing")
	assert.NoError(t, err)
	assert.Nil(t, sale)
}

func TestSaleRepository_List(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	ctx := context.Background()

	seedSale(t, repo, "SALE-A", enum.PaymentStatusCompleted, day.Add(1*time.Hour), "a1", "a2")
	seedSale(t, repo, "SALE-B", enum.PaymentStatusPending, day.Add(2*time.Hour), "b1")
	seedSale(t, repo, "SALE-C", enum.PaymentStatusCompleted, day.Add(3*time.Hour), "c1", "c2", "c3")

	items, total, err := repo.List(ctx, &domainRepo.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "SALE-C", items[0].SaleID, "newest first")
	assert.Equal(t, 3, items[0].ItemsCount)
	assert.Equal(t, "SALE-B", items[1].SaleID)
	assert.Equal(t, 1, items[1].ItemsCount)

	items, _, err = repo.List(ctx, &domainRepo.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: 2, PerPage: 2},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "SALE-A", items[0].SaleID)
	assert.True(t, decimal.NewFromInt(3).Equal(items[0].TotalAmount))

	completed := enum.PaymentStatusCompleted
	items, total, err = repo.List(ctx, &domainRepo.SaleFilterParams{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, enum.PaymentStatusCompleted, item.PaymentStatus)
	}
}

func TestSaleRepository_UpdateStatus(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	ctx := context.Background()
	seedSale(t, repo, "SALE-A", enum.PaymentStatusCompleted, day, "a1")

	require.NoError(t, repo.UpdateStatus(ctx, "SALE-A", enum.PaymentStatusCancelled))

	sale, err := repo.GetBySaleID(ctx, "SALE-A")
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusCancelled, sale.PaymentStatus)
}

func TestSaleRepository_Summary(t *testing.T) {
	repo := NewSaleRepository(newTestDB(t))
	ctx := context.Background()
	next := day.AddDate(0, 0, 1)

	seedSale(t, repo, "SALE-START", enum.PaymentStatusCompleted, day, "x")
	seedSale(t, repo, "SALE-NOON", enum.PaymentStatusCompleted, day.Add(12*time.Hour), "x", "y")
	seedSale(t, repo, "SALE-PENDING", enum.PaymentStatusPending, day.Add(13*time.Hour), "x")
	seedSale(t, repo, "SALE-CANCELLED", enum.PaymentStatusCancelled, day.Add(14*time.Hour), "x")
	seedSale(t, repo, "SALE-BEFORE", enum.PaymentStatusCompleted, day.Add(-time.Second), "x")
	seedSale(t, repo, "SALE-NEXT-DAY", enum.PaymentStatusCompleted, next, "x")

	summary, err := repo.Summary(ctx, enum.PaymentStatusCompleted, day, next)
	require.NoError(t, err)
	// SALE-START (1) and SALE-NOON (1+2); the bound at next is exclusive.
	assert.Equal(t, int64(2), summary.TotalTransactions)
	assert.True(t, decimal.NewFromInt(4).Equal(summary.TotalSales), "got %s", summary.TotalSales)

	empty, err := repo.Summary(ctx, enum.PaymentStatusCompleted, day.AddDate(0, 0, 5), day.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalTransactions)
	assert.True(t, empty.TotalSales.IsZero())
}
