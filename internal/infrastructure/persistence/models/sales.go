package models

import (
	"time"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the read-side persistence model for sales owned by the host
// application. The treasury engine only ever reads these rows.
type SaleModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	Number      string                 `gorm:"type:varchar(50);not null;index"`
	Status      sales.SaleStatus       `gorm:"type:varchar(20);not null;index"`
	SellerName  string                 `gorm:"type:varchar(200)"`
	TotalAmount valueobject.Money      `gorm:"type:bigint;not null"`
	FinalizedAt *time.Time             `gorm:"index"`
	CanceledAt  *time.Time
	RefundedAt  *time.Time
	CreatedAt   time.Time              `gorm:"not null"`
	UpdatedAt   time.Time              `gorm:"not null"`
	Items       []SaleItemModel        `gorm:"foreignKey:SaleID;references:ID"`
	Payments    []SalePaymentSplitModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is one line of a sale.
type SaleItemModel struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key"`
	SaleID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductRef   string            `gorm:"type:varchar(100)"`
	Quantity     decimal.Decimal   `gorm:"type:decimal(12,3);not null"`
	UnitPrice    valueobject.Money `gorm:"type:bigint;not null"`
	Amount       valueobject.Money `gorm:"type:bigint;not null"`
	RecordedAt   time.Time         `gorm:"not null"`
	Collaborator string            `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// SalePaymentSplitModel is the portion of a sale paid with one method.
type SalePaymentSplitModel struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key"`
	SaleID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	PaymentMethodCode string            `gorm:"type:varchar(50);not null"`
	Installments      int               `gorm:"not null;default:1"`
	Amount            valueobject.Money `gorm:"type:bigint;not null"`
}

// TableName returns the table name for GORM
func (SalePaymentSplitModel) TableName() string {
	return "sale_payment_splits"
}

// ToDomain converts the persistence model to a domain Sale.
func (m *SaleModel) ToDomain() *sales.Sale {
	sale := &sales.Sale{
		ID:          m.ID,
		Number:      m.Number,
		Status:      m.Status,
		SellerName:  m.SellerName,
		TotalAmount: m.TotalAmount,
		FinalizedAt: m.FinalizedAt,
		CanceledAt:  m.CanceledAt,
		RefundedAt:  m.RefundedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Items:       make([]sales.SaleItem, 0, len(m.Items)),
		Payments:    make([]sales.PaymentSplit, 0, len(m.Payments)),
	}
	for _, item := range m.Items {
		sale.Items = append(sale.Items, sales.SaleItem{
			ID:           item.ID,
			ProductRef:   item.ProductRef,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
			RecordedAt:   item.RecordedAt,
			Collaborator: item.Collaborator,
		})
	}
	for _, split := range m.Payments {
		sale.Payments = append(sale.Payments, sales.PaymentSplit{
			PaymentMethodCode: split.PaymentMethodCode,
			Installments:      split.Installments,
			Amount:            split.Amount,
		})
	}
	return sale
}
