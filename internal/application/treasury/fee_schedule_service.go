package treasury

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// FeeScheduleService provides application-level fee schedule operations
type FeeScheduleService struct {
	methodRepo      treasury.PaymentMethodRepository
	feeScheduleRepo treasury.FeeScheduleRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
}

// NewFeeScheduleService creates a new FeeScheduleService
func NewFeeScheduleService(
	methodRepo treasury.PaymentMethodRepository,
	feeScheduleRepo treasury.FeeScheduleRepository,
	txScope TransactionScope,
	eventPublisher shared.EventPublisher,
) *FeeScheduleService {
	return &FeeScheduleService{
		methodRepo:      methodRepo,
		feeScheduleRepo: feeScheduleRepo,
		txScope:         txScope,
		eventPublisher:  eventPublisher,
	}
}

// FeeScheduleEntryResponse represents one fee schedule entry in API responses
type FeeScheduleEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Installments  int             `json:"installments"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	FeeFixed      decimal.Decimal `json:"fee_fixed"`
	DaysToReceive int             `json:"days_to_receive"`
	Description   string          `json:"description,omitempty"`
	IsActive      bool            `json:"is_active"`
}

// FeeScheduleEntryInput is one entry of a bulk schedule save
type FeeScheduleEntryInput struct {
	Installments  int             `json:"installments" binding:"required,min=1"`
	FeePercentage decimal.Decimal `json:"fee_percentage"`
	FeeFixed      decimal.Decimal `json:"fee_fixed"`
	DaysToReceive int             `json:"days_to_receive"`
	Description   string          `json:"description"`
}

// SaveFeeScheduleRequest replaces the full fee schedule of one payment method
type SaveFeeScheduleRequest struct {
	Entries []FeeScheduleEntryInput `json:"entries" binding:"required"`
}

// NetPreviewResponse is the computed net for a hypothetical charge
type NetPreviewResponse struct {
	PaymentMethodCode string          `json:"payment_method_code"`
	Installments      int             `json:"installments"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	FeeAmount         decimal.Decimal `json:"fee_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	DaysToReceive     int             `json:"days_to_receive"`
}

func toFeeScheduleEntryResponse(e *treasury.FeeScheduleEntry) *FeeScheduleEntryResponse {
	return &FeeScheduleEntryResponse{
		ID:            e.ID,
		Installments:  e.Installments,
		FeePercentage: e.FeePercentage,
		FeeFixed:      e.FeeFixed.Decimal(),
		DaysToReceive: e.DaysToReceive,
		Description:   e.Description,
		IsActive:      e.IsActive,
	}
}

// SaveSchedule atomically replaces the fee schedule of a payment method.
// Either every entry of the request is written or none is; a half-saved
// schedule would silently misprice nets.
func (s *FeeScheduleService) SaveSchedule(ctx context.Context, methodID uuid.UUID, req SaveFeeScheduleRequest) ([]*FeeScheduleEntryResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, methodID)
	if err != nil {
		return nil, err
	}

	entries := make([]*treasury.FeeScheduleEntry, 0, len(req.Entries))
	seen := make(map[int]bool, len(req.Entries))
	for _, input := range req.Entries {
		if seen[input.Installments] {
			return nil, shared.NewDomainError("DUPLICATE_INSTALLMENTS", "Fee schedule has duplicate installment counts")
		}
		seen[input.Installments] = true
		if input.Installments > method.MaxInstallments {
			return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count exceeds the method's maximum")
		}

		entry, err := treasury.NewFeeScheduleEntry(
			methodID,
			input.Installments,
			input.FeePercentage,
			valueobject.NewMoneyFromDecimal(input.FeeFixed),
			input.DaysToReceive,
			input.Description,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.FeeScheduleRepo().ReplaceForMethod(ctx, methodID, entries)
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, treasury.NewFeeScheduleSavedEvent(methodID, len(entries)))
	}

	responses := make([]*FeeScheduleEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toFeeScheduleEntryResponse(entry))
	}
	return responses, nil
}

// GetSchedule returns the fee schedule entries of a method ordered by
// installment count
func (s *FeeScheduleService) GetSchedule(ctx context.Context, methodID uuid.UUID) ([]*FeeScheduleEntryResponse, error) {
	if _, err := s.methodRepo.FindByID(ctx, methodID); err != nil {
		return nil, err
	}
	entries, err := s.feeScheduleRepo.FindByMethod(ctx, methodID)
	if err != nil {
		return nil, err
	}
	responses := make([]*FeeScheduleEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toFeeScheduleEntryResponse(entry))
	}
	return responses, nil
}

// PreviewNet computes the fee and net for a hypothetical charge against the
// current schedule. A missing schedule entry means zero fee and the gross
// passes through unchanged.
func (s *FeeScheduleService) PreviewNet(ctx context.Context, methodID uuid.UUID, gross decimal.Decimal, installments int) (*NetPreviewResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	grossMoney := valueobject.NewMoneyFromDecimal(gross)
	if !grossMoney.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Gross amount must be positive")
	}
	if installments < 1 {
		installments = 1
	}
	if !method.AllowsInstallments(installments, grossMoney) {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS", "Installment count not allowed for this method and amount")
	}

	schedule, err := s.loadSchedule(ctx, methodID)
	if err != nil {
		return nil, err
	}

	fee := schedule.Fee(grossMoney, installments)
	net := grossMoney.Subtract(fee)
	daysToReceive := 0
	if entry := schedule.EntryFor(installments); entry != nil {
		daysToReceive = entry.DaysToReceive
	}

	return &NetPreviewResponse{
		PaymentMethodCode: method.Code,
		Installments:      installments,
		GrossAmount:       grossMoney.Decimal(),
		FeeAmount:         fee.Decimal(),
		NetAmount:         net.Decimal(),
		DaysToReceive:     daysToReceive,
	}, nil
}

func (s *FeeScheduleService) loadSchedule(ctx context.Context, methodID uuid.UUID) (*treasury.FeeSchedule, error) {
	entries, err := s.feeScheduleRepo.FindActiveByMethod(ctx, methodID)
	if err != nil {
		return nil, err
	}
	return treasury.NewFeeSchedule(methodID, entries), nil
}
