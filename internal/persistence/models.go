package persistence

import (
	"time"

	"sales_orders/internal/sales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Number       string          `gorm:"size:50;not null;uniqueIndex"`
	Date         time.Time       `gorm:"not null"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName string          `gorm:"size:200;not null"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchName   string          `gorm:"size:200;not null"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsCancelled  bool            `gorm:"not null;default:false"`
	Items        []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for a sale line.
// Position keeps the insertion order of the lines within their sale.
type SaleItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position        int             `gorm:"not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"size:200;not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IsCancelled     bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Sale.
func (m *SaleModel) ToDomain() *sales.Sale {
	s := &sales.Sale{
		ID:           m.ID,
		Number:       m.Number,
		Date:         m.Date,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		BranchID:     m.BranchID,
		BranchName:   m.BranchName,
		Total:        m.Total,
		IsCancelled:  m.IsCancelled,
		Items:        make([]*sales.SaleItem, len(m.Items)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for i := range m.Items {
		it := m.Items[i]
		s.Items[i] = &sales.SaleItem{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total,
			IsCancelled:     it.IsCancelled,
			CreatedAt:       it.CreatedAt,
			UpdatedAt:       it.UpdatedAt,
		}
	}
	return s
}

// SaleModelFromDomain creates a persistence model from a domain Sale.
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{
		ID:           s.ID,
		Number:       s.Number,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		BranchID:     s.BranchID,
		BranchName:   s.BranchName,
		Total:        s.Total,
		IsCancelled:  s.IsCancelled,
		Items:        make([]SaleItemModel, len(s.Items)),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	for i, it := range s.Items {
		m.Items[i] = SaleItemModel{
			ID:              it.ID,
			SaleID:          s.ID,
			Position:        i,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total,
			IsCancelled:     it.IsCancelled,
			CreatedAt:       it.CreatedAt,
			UpdatedAt:       it.UpdatedAt,
		}
	}
	return m
}
