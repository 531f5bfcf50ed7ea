package models

import (
	"time"

	"github.com/gestorloja/backend/internal/domain/payable"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
)

// BillModel is the persistence model for accounts-payable bills.
type BillModel struct {
	BaseModel
	Description string             `gorm:"type:varchar(300);not null"`
	Amount      valueobject.Money  `gorm:"type:bigint;not null"`
	DueDate     time.Time          `gorm:"not null;index"`
	Status      payable.BillStatus `gorm:"type:varchar(20);not null;default:'pendente';index"`
	PaidAt      *time.Time
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill.
func (m *BillModel) ToDomain() *payable.Bill {
	return &payable.Bill{
		BaseEntity:  m.BaseModel.ToDomain(),
		Description: m.Description,
		Amount:      m.Amount,
		DueDate:     m.DueDate,
		Status:      m.Status,
		PaidAt:      m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Bill.
func (m *BillModel) FromDomain(bill *payable.Bill) {
	m.FromDomainBaseEntity(bill.BaseEntity)
	m.Description = bill.Description
	m.Amount = bill.Amount
	m.DueDate = bill.DueDate
	m.Status = bill.Status
	m.PaidAt = bill.PaidAt
}

// BillModelFromDomain creates a new persistence model from a domain Bill.
func BillModelFromDomain(bill *payable.Bill) *BillModel {
	m := &BillModel{}
	m.FromDomain(bill)
	return m
}
