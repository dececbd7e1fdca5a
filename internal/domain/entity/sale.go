package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shundor-pos/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale represents a completed or pending register sale
type Sale struct {
	ID              uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          string              `gorm:"size:50;uniqueIndex;not null" json:"sale_id"`
	Subtotal        decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"-"`
	DiscountType    enum.DiscountType   `gorm:"size:20;not null;default:percentage" json:"discount_type"`
	DiscountValue   decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"-"`
	DiscountAmount  decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"-"`
	TotalAmount     decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"-"`
	PaymentReceived decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"-"`
	ChangeAmount    decimal.Decimal     `gorm:"type:numeric(10,2);not null;default:0" json:"-"`
	PaymentStatus   enum.PaymentStatus  `gorm:"size:20;not null;default:pending;index" json:"payment_status"`
	CreatedAt       time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	// Relationships
	Items []SaleItem `gorm:"foreignKey:SaleRefID;constraint:OnDelete:CASCADE" json:"items"`
}

// MarshalJSON renders money as numbers with two decimal places
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal        float64  `json:"subtotal"`
		DiscountValue   float64  `json:"discount_value"`
		DiscountAmount  float64  `json:"discount_amount"`
		TotalAmount     float64  `json:"total_amount"`
		PaymentReceived *float64 `json:"payment_received"`
		ChangeAmount    float64  `json:"change_amount"`
	}{
		Alias:           Alias(s),
		Subtotal:        Money(s.Subtotal),
		DiscountValue:   Money(s.DiscountValue),
		DiscountAmount:  Money(s.DiscountAmount),
		TotalAmount:     Money(s.TotalAmount),
		PaymentReceived: NullMoney(s.PaymentReceived),
		ChangeAmount:    Money(s.ChangeAmount),
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a line of a sale. TotalPrice is always unit price × quantity.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleRefID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	Position    int             `gorm:"not null;default:0" json:"-"` // cart order
	ProductName string          `gorm:"size:200;not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"-"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"-"`
}

// MarshalJSON renders money as numbers with two decimal places
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(i),
		UnitPrice:  Money(i.UnitPrice),
		TotalPrice: Money(i.TotalPrice),
	})
}

// BeforeSave keeps the line total consistent with price and quantity
func (i *SaleItem) BeforeSave(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// SaleSummary aggregates completed sales over a range of calendar days
type SaleSummary struct {
	StartDate         time.Time       `gorm:"-" json:"-"`
	EndDate           time.Time       `gorm:"-" json:"-"`
	TotalSales        decimal.Decimal `json:"-"`
	TotalTransactions int64           `json:"total_transactions"`
}

func (s SaleSummary) MarshalJSON() ([]byte, error) {
	const day = "2006-01-02"
	out := struct {
		Date              string  `json:"date,omitempty"`
		StartDate         string  `json:"start_date,omitempty"`
		EndDate           string  `json:"end_date,omitempty"`
		TotalSales        float64 `json:"total_sales"`
		TotalTransactions int64   `json:"total_transactions"`
	}{
		TotalSales:        Money(s.TotalSales),
		TotalTransactions: s.TotalTransactions,
	}
	if s.StartDate.Equal(s.EndDate) {
		out.Date = s.StartDate.Format(day)
	} else {
		out.StartDate = s.StartDate.Format(day)
		out.EndDate = s.EndDate.Format(day)
	}
	return json.Marshal(out)
}

// Money rounds to cents for presentation.
func Money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func NullMoney(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := Money(d.Decimal)
	return &v
}

// SaleListItem is the row returned when listing sales
type SaleListItem struct {
	ID            uuid.UUID          `json:"id"`
	SaleID        string             `json:"sale_id"`
	TotalAmount   decimal.Decimal    `json:"-"`
	PaymentStatus enum.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time          `json:"created_at"`
	ItemsCount    int                `json:"items_count"`
}

func (s SaleListItem) MarshalJSON() ([]byte, error) {
	type Alias SaleListItem
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(s),
		TotalAmount: Money(s.TotalAmount),
	})
}
