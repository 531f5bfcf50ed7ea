package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// PaymentMethodService provides application-level payment method operations
type PaymentMethodService struct {
	methodRepo     treasury.PaymentMethodRepository
	walletRepo     treasury.WalletRepository
	eventPublisher shared.EventPublisher
}

// NewPaymentMethodService creates a new PaymentMethodService
func NewPaymentMethodService(
	methodRepo treasury.PaymentMethodRepository,
	walletRepo treasury.WalletRepository,
	eventPublisher shared.EventPublisher,
) *PaymentMethodService {
	return &PaymentMethodService{
		methodRepo:     methodRepo,
		walletRepo:     walletRepo,
		eventPublisher: eventPublisher,
	}
}

// PaymentMethodResponse represents a payment method in API responses
type PaymentMethodResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Name                   string          `json:"name"`
	Code                   string          `json:"code"`
	WalletID               *uuid.UUID      `json:"wallet_id,omitempty"`
	AcceptsInstallments    bool            `json:"accepts_installments"`
	MaxInstallments        int             `json:"max_installments"`
	MinValueForInstallment decimal.Decimal `json:"min_value_for_installment"`
	IsActive               bool            `json:"is_active"`
	SortOrder              int             `json:"sort_order"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// CreatePaymentMethodRequest represents a request to create a payment method
type CreatePaymentMethodRequest struct {
	Name                   string          `json:"name" binding:"required"`
	Code                   string          `json:"code" binding:"required"`
	WalletID               *uuid.UUID      `json:"wallet_id"`
	AcceptsInstallments    bool            `json:"accepts_installments"`
	MaxInstallments        int             `json:"max_installments"`
	MinValueForInstallment decimal.Decimal `json:"min_value_for_installment"`
	SortOrder              int             `json:"sort_order"`
}

// UpdatePaymentMethodRequest represents a request to update a payment method.
// The code is immutable and therefore absent.
type UpdatePaymentMethodRequest struct {
	Name                   string          `json:"name" binding:"required"`
	AcceptsInstallments    bool            `json:"accepts_installments"`
	MaxInstallments        int             `json:"max_installments"`
	MinValueForInstallment decimal.Decimal `json:"min_value_for_installment"`
	SortOrder              int             `json:"sort_order"`
}

func toPaymentMethodResponse(m *treasury.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{
		ID:                     m.ID,
		Name:                   m.Name,
		Code:                   m.Code,
		WalletID:               m.WalletID,
		AcceptsInstallments:    m.AcceptsInstallments,
		MaxInstallments:        m.MaxInstallments,
		MinValueForInstallment: m.MinValueForInstallment.Decimal(),
		IsActive:               m.IsActive,
		SortOrder:              m.SortOrder,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

// CreatePaymentMethod creates a new payment method. The code must be unique
// across active and inactive methods alike: codes are never reused, so the
// ledger history of a dead method can never be claimed by a new one.
func (s *PaymentMethodService) CreatePaymentMethod(ctx context.Context, req CreatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	maxInstallments := req.MaxInstallments
	if maxInstallments == 0 {
		maxInstallments = 1
	}

	method, err := treasury.NewPaymentMethod(
		req.Name,
		req.Code,
		req.WalletID,
		req.AcceptsInstallments,
		maxInstallments,
		valueobject.NewMoneyFromDecimal(req.MinValueForInstallment),
		req.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	exists, err := s.methodRepo.ExistsByCode(ctx, method.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A payment method with this code already exists")
	}

	if req.WalletID != nil {
		if _, err := s.walletRepo.FindByID(ctx, *req.WalletID); err != nil {
			return nil, err
		}
	}

	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, method)
	return toPaymentMethodResponse(method), nil
}

// UpdatePaymentMethod updates the mutable fields of a payment method
func (s *PaymentMethodService) UpdatePaymentMethod(ctx context.Context, id uuid.UUID, req UpdatePaymentMethodRequest) (*PaymentMethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	maxInstallments := req.MaxInstallments
	if maxInstallments == 0 {
		maxInstallments = 1
	}

	if err := method.Update(
		req.Name,
		req.AcceptsInstallments,
		maxInstallments,
		valueobject.NewMoneyFromDecimal(req.MinValueForInstallment),
		req.SortOrder,
	); err != nil {
		return nil, err
	}

	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, method)
	return toPaymentMethodResponse(method), nil
}

// DeactivatePaymentMethod soft-deletes a payment method. Ledger entries
// carrying its code stay untouched and balances never change retroactively.
func (s *PaymentMethodService) DeactivatePaymentMethod(ctx context.Context, id uuid.UUID) error {
	method, err := s.methodRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := method.Deactivate(); err != nil {
		return err
	}
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return err
	}
	s.publishEvents(ctx, method)
	return nil
}

// ReactivatePaymentMethod re-enables a deactivated payment method
func (s *PaymentMethodService) ReactivatePaymentMethod(ctx context.Context, id uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := method.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// LinkWallet links a payment method to a wallet
func (s *PaymentMethodService) LinkWallet(ctx context.Context, methodID, walletID uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	if _, err := s.walletRepo.FindByID(ctx, walletID); err != nil {
		return nil, err
	}

	method.LinkWallet(walletID)
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// UnlinkWallet removes the wallet linkage of a payment method. Historical
// ledger entries keep their wallet reference.
func (s *PaymentMethodService) UnlinkWallet(ctx context.Context, methodID uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, methodID)
	if err != nil {
		return nil, err
	}

	method.UnlinkWallet()
	if err := s.methodRepo.Save(ctx, method); err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// GetPaymentMethod returns one payment method by ID
func (s *PaymentMethodService) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.methodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentMethodResponse(method), nil
}

// ListPaymentMethods lists payment methods ordered by sort order
func (s *PaymentMethodService) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]*PaymentMethodResponse, error) {
	methods, err := s.methodRepo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	responses := make([]*PaymentMethodResponse, 0, len(methods))
	for _, method := range methods {
		responses = append(responses, toPaymentMethodResponse(method))
	}
	return responses, nil
}

func (s *PaymentMethodService) publishEvents(ctx context.Context, method *treasury.PaymentMethod) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, method.GetDomainEvents()...)
	method.ClearDomainEvents()
}
