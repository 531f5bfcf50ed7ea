package models

import (
	"time"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodModel is the persistence model for the PaymentMethod aggregate.
type PaymentMethodModel struct {
	AggregateModel
	Name                   string            `gorm:"type:varchar(100);not null"`
	Code                   string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	WalletID               *uuid.UUID        `gorm:"type:uuid;index"`
	AcceptsInstallments    bool              `gorm:"not null;default:false"`
	MaxInstallments        int               `gorm:"not null;default:1"`
	MinValueForInstallment valueobject.Money `gorm:"type:bigint;not null;default:0"`
	IsActive               bool              `gorm:"not null;default:true;index"`
	SortOrder              int               `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// ToDomain converts the persistence model to a domain PaymentMethod.
func (m *PaymentMethodModel) ToDomain() *treasury.PaymentMethod {
	method := &treasury.PaymentMethod{
		Name:                   m.Name,
		Code:                   m.Code,
		WalletID:               m.WalletID,
		AcceptsInstallments:    m.AcceptsInstallments,
		MaxInstallments:        m.MaxInstallments,
		MinValueForInstallment: m.MinValueForInstallment,
		IsActive:               m.IsActive,
		SortOrder:              m.SortOrder,
	}
	m.PopulateAggregateRoot(&method.BaseAggregateRoot)
	return method
}

// FromDomain populates the persistence model from a domain PaymentMethod.
func (m *PaymentMethodModel) FromDomain(method *treasury.PaymentMethod) {
	m.FromDomainAggregateRoot(method.BaseAggregateRoot)
	m.Name = method.Name
	m.Code = method.Code
	m.WalletID = method.WalletID
	m.AcceptsInstallments = method.AcceptsInstallments
	m.MaxInstallments = method.MaxInstallments
	m.MinValueForInstallment = method.MinValueForInstallment
	m.IsActive = method.IsActive
	m.SortOrder = method.SortOrder
}

// PaymentMethodModelFromDomain creates a new persistence model from a domain PaymentMethod.
func PaymentMethodModelFromDomain(method *treasury.PaymentMethod) *PaymentMethodModel {
	m := &PaymentMethodModel{}
	m.FromDomain(method)
	return m
}

// WalletModel is the persistence model for the Wallet aggregate.
type WalletModel struct {
	AggregateModel
	Name      string `gorm:"type:varchar(100);not null"`
	SortOrder int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (WalletModel) TableName() string {
	return "wallets"
}

// ToDomain converts the persistence model to a domain Wallet.
func (m *WalletModel) ToDomain() *treasury.Wallet {
	wallet := &treasury.Wallet{
		Name:      m.Name,
		SortOrder: m.SortOrder,
	}
	m.PopulateAggregateRoot(&wallet.BaseAggregateRoot)
	return wallet
}

// FromDomain populates the persistence model from a domain Wallet.
func (m *WalletModel) FromDomain(wallet *treasury.Wallet) {
	m.FromDomainAggregateRoot(wallet.BaseAggregateRoot)
	m.Name = wallet.Name
	m.SortOrder = wallet.SortOrder
}

// WalletModelFromDomain creates a new persistence model from a domain Wallet.
func WalletModelFromDomain(wallet *treasury.Wallet) *WalletModel {
	m := &WalletModel{}
	m.FromDomain(wallet)
	return m
}

// FeeScheduleEntryModel is the persistence model for fee schedule entries.
type FeeScheduleEntryModel struct {
	BaseModel
	PaymentMethodID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_fee_method_installments,priority:1"`
	Installments    int               `gorm:"not null;uniqueIndex:idx_fee_method_installments,priority:2"`
	FeePercentage   decimal.Decimal   `gorm:"type:decimal(9,4);not null"`
	FeeFixed        valueobject.Money `gorm:"type:bigint;not null;default:0"`
	DaysToReceive   int               `gorm:"not null;default:0"`
	Description     string            `gorm:"type:varchar(200)"`
	IsActive        bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FeeScheduleEntryModel) TableName() string {
	return "fee_schedule_entries"
}

// ToDomain converts the persistence model to a domain FeeScheduleEntry.
func (m *FeeScheduleEntryModel) ToDomain() *treasury.FeeScheduleEntry {
	return &treasury.FeeScheduleEntry{
		BaseEntity:      m.BaseModel.ToDomain(),
		PaymentMethodID: m.PaymentMethodID,
		Installments:    m.Installments,
		FeePercentage:   m.FeePercentage,
		FeeFixed:        m.FeeFixed,
		DaysToReceive:   m.DaysToReceive,
		Description:     m.Description,
		IsActive:        m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain FeeScheduleEntry.
func (m *FeeScheduleEntryModel) FromDomain(entry *treasury.FeeScheduleEntry) {
	m.FromDomainBaseEntity(entry.BaseEntity)
	m.PaymentMethodID = entry.PaymentMethodID
	m.Installments = entry.Installments
	m.FeePercentage = entry.FeePercentage
	m.FeeFixed = entry.FeeFixed
	m.DaysToReceive = entry.DaysToReceive
	m.Description = entry.Description
	m.IsActive = entry.IsActive
}

// FeeScheduleEntryModelFromDomain creates a new persistence model from a domain FeeScheduleEntry.
func FeeScheduleEntryModelFromDomain(entry *treasury.FeeScheduleEntry) *FeeScheduleEntryModel {
	m := &FeeScheduleEntryModel{}
	m.FromDomain(entry)
	return m
}

// LedgerEntryModel is the persistence model for the append-only ledger.
// Rows are only ever inserted; there is no update or delete path.
type LedgerEntryModel struct {
	BaseModel
	OccurredAt        time.Time          `gorm:"not null;index"`
	Type              treasury.EntryType `gorm:"type:varchar(30);not null;index"`
	PaymentMethodCode string             `gorm:"type:varchar(50);not null;index"`
	WalletID          *uuid.UUID         `gorm:"type:uuid;index"`
	Installments      int                `gorm:"not null;default:1"`
	GrossAmount       valueobject.Money  `gorm:"type:bigint;not null"`
	FeeAmount         valueobject.Money  `gorm:"type:bigint;not null"`
	NetAmount         valueobject.Money  `gorm:"type:bigint;not null"`
	Description       string             `gorm:"type:text"`
	Reference         *string            `gorm:"type:varchar(100);index"`
	CorrelationID     *uuid.UUID         `gorm:"type:uuid;index"`
	OperatorID        *uuid.UUID         `gorm:"type:uuid"`
	OperatorName      string             `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry.
func (m *LedgerEntryModel) ToDomain() *treasury.LedgerEntry {
	return &treasury.LedgerEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OccurredAt:        m.OccurredAt,
		Type:              m.Type,
		PaymentMethodCode: m.PaymentMethodCode,
		WalletID:          m.WalletID,
		Installments:      m.Installments,
		GrossAmount:       m.GrossAmount,
		FeeAmount:         m.FeeAmount,
		NetAmount:         m.NetAmount,
		Description:       m.Description,
		Reference:         m.Reference,
		CorrelationID:     m.CorrelationID,
		OperatorID:        m.OperatorID,
		OperatorName:      m.OperatorName,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry.
func (m *LedgerEntryModel) FromDomain(entry *treasury.LedgerEntry) {
	m.FromDomainBaseEntity(entry.BaseEntity)
	m.OccurredAt = entry.OccurredAt
	m.Type = entry.Type
	m.PaymentMethodCode = entry.PaymentMethodCode
	m.WalletID = entry.WalletID
	m.Installments = entry.Installments
	m.GrossAmount = entry.GrossAmount
	m.FeeAmount = entry.FeeAmount
	m.NetAmount = entry.NetAmount
	m.Description = entry.Description
	m.Reference = entry.Reference
	m.CorrelationID = entry.CorrelationID
	m.OperatorID = entry.OperatorID
	m.OperatorName = entry.OperatorName
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(entry *treasury.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(entry)
	return m
}
