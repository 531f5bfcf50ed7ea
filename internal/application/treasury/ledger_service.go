package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// NegativeBalancePolicy controls what happens when an outflow movement would
// push the origin wallet below zero
type NegativeBalancePolicy string

const (
	// NegativeBalanceAllow accepts the movement silently
	NegativeBalanceAllow NegativeBalancePolicy = "allow"
	// NegativeBalanceWarn accepts the movement but logs a warning
	NegativeBalanceWarn NegativeBalancePolicy = "warn"
	// NegativeBalanceBlock rejects the movement
	NegativeBalanceBlock NegativeBalancePolicy = "block"
)

// IsValid returns true if the policy is known
func (p NegativeBalancePolicy) IsValid() bool {
	switch p {
	case NegativeBalanceAllow, NegativeBalanceWarn, NegativeBalanceBlock:
		return true
	}
	return false
}

// LedgerService records manual treasury movements as ledger entries and
// serves ledger listings. Every mutation is transactional: all entries of one
// movement land together with whatever companion state change the movement
// requires (a bill marked paid), and the MovementRecorded event goes out
// strictly after the transaction commits.
type LedgerService struct {
	ledgerRepo     treasury.LedgerEntryRepository
	methodRepo     treasury.PaymentMethodRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	balancePolicy  NegativeBalancePolicy
	logger         *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	ledgerRepo treasury.LedgerEntryRepository,
	methodRepo treasury.PaymentMethodRepository,
	txScope TransactionScope,
	eventPublisher shared.EventPublisher,
	balancePolicy NegativeBalancePolicy,
	logger *zap.Logger,
) *LedgerService {
	if !balancePolicy.IsValid() {
		balancePolicy = NegativeBalanceAllow
	}
	return &LedgerService{
		ledgerRepo:     ledgerRepo,
		methodRepo:     methodRepo,
		txScope:        txScope,
		eventPublisher: eventPublisher,
		balancePolicy:  balancePolicy,
		logger:         logger,
	}
}

// RecordMovementRequest represents a manual treasury movement submission
type RecordMovementRequest struct {
	Type                string          `json:"type" binding:"required"`
	OriginWalletID      uuid.UUID       `json:"origin_wallet_id" binding:"required"`
	DestinationWalletID *uuid.UUID      `json:"destination_wallet_id"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	Reason              string          `json:"reason"`
	BillID              *uuid.UUID      `json:"bill_id"`
	// Direction only applies to ajuste movements: +1 credits the wallet,
	// -1 debits it. Every other type carries its own fixed direction.
	Direction    int        `json:"direction"`
	OperatorID   uuid.UUID  `json:"-"`
	OperatorName string     `json:"-"`
	OccurredAt   *time.Time `json:"occurred_at"`
}

// MovementResponse reports the ledger entries a movement produced
type MovementResponse struct {
	MovementID uuid.UUID              `json:"movement_id"`
	EntryIDs   []uuid.UUID            `json:"entry_ids"`
	Entries    []*LedgerEntryResponse `json:"entries"`
}

// LedgerEntryResponse represents one ledger entry in API responses
type LedgerEntryResponse struct {
	ID                uuid.UUID       `json:"id"`
	OccurredAt        time.Time       `json:"occurred_at"`
	Type              string          `json:"type"`
	PaymentMethodCode string          `json:"payment_method_code"`
	WalletID          *uuid.UUID      `json:"wallet_id,omitempty"`
	Installments      int             `json:"installments"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	FeeAmount         decimal.Decimal `json:"fee_amount"`
	NetAmount         decimal.Decimal `json:"net_amount"`
	Description       string          `json:"description,omitempty"`
	Reference         *string         `json:"reference,omitempty"`
	CorrelationID     *uuid.UUID      `json:"correlation_id,omitempty"`
	OperatorName      string          `json:"operator_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ListLedgerRequest bounds a ledger listing
type ListLedgerRequest struct {
	Period            valueobject.PeriodShortcut `form:"period"`
	From              *time.Time                 `form:"from"`
	To                *time.Time                 `form:"to"`
	Types             []string                   `form:"types"`
	PaymentMethodCode string                     `form:"payment_method_code"`
	WalletID          *uuid.UUID                 `form:"wallet_id"`
	Page              int                        `form:"page"`
	PageSize          int                        `form:"page_size"`
}

// LedgerListResponse is a paged ledger listing
type LedgerListResponse struct {
	Entries  []*LedgerEntryResponse `json:"entries"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

func toLedgerEntryResponse(e *treasury.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:                e.ID,
		OccurredAt:        e.OccurredAt,
		Type:              e.Type.String(),
		PaymentMethodCode: e.PaymentMethodCode,
		WalletID:          e.WalletID,
		Installments:      e.Installments,
		GrossAmount:       e.GrossAmount.Decimal(),
		FeeAmount:         e.FeeAmount.Decimal(),
		NetAmount:         e.NetAmount.Decimal(),
		Description:       e.Description,
		Reference:         e.Reference,
		CorrelationID:     e.CorrelationID,
		OperatorName:      e.OperatorName,
		CreatedAt:         e.CreatedAt,
	}
}

// RecordMovement validates and records a manual treasury movement. The
// movement is projected into one or two ledger entries that are written
// atomically; pagamento_conta additionally marks the referenced bill paid in
// the same transaction.
func (s *LedgerService) RecordMovement(ctx context.Context, req RecordMovementRequest) (*MovementResponse, error) {
	occurredAt := time.Time{}
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	movement, err := treasury.NewTreasuryMovement(
		treasury.MovementType(req.Type),
		req.OriginWalletID,
		req.DestinationWalletID,
		valueobject.NewMoneyFromDecimal(req.Amount),
		req.Reason,
		req.BillID,
		req.OperatorID,
		req.OperatorName,
		occurredAt,
	)
	if err != nil {
		return nil, err
	}

	originCode, err := s.effectiveMethodCode(ctx, movement.OriginWalletID)
	if err != nil {
		return nil, err
	}

	if movement.Type.IsOutflow() {
		if err := s.checkBalance(ctx, movement.OriginWalletID, movement.Amount); err != nil {
			return nil, err
		}
	}

	entries, err := s.buildEntries(ctx, movement, originCode, req.Direction)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if movement.Type.RequiresBill() {
			bill, err := repos.BillRepo().FindByID(ctx, *movement.BillID)
			if err != nil {
				return err
			}
			if !bill.Amount.Equals(movement.Amount) {
				return shared.NewDomainError("AMOUNT_MISMATCH", "Movement amount does not match the bill amount")
			}
			if err := bill.MarkPaid(movement.OccurredAt); err != nil {
				return err
			}
			if err := repos.BillRepo().Save(ctx, bill); err != nil {
				return err
			}
		}
		return repos.LedgerRepo().CreateBatch(ctx, entries)
	})
	if err != nil {
		return nil, err
	}

	s.publishRecorded(ctx, entries)

	if s.logger != nil {
		s.logger.Info("treasury movement recorded",
			zap.String("movement_id", movement.ID.String()),
			zap.String("type", movement.Type.String()),
			zap.String("amount", movement.Amount.String()),
			zap.Int("entries", len(entries)),
		)
	}

	return toMovementResponse(movement.ID, entries), nil
}

// ListEntries returns ledger entries matching the filter, newest first
func (s *LedgerService) ListEntries(ctx context.Context, req ListLedgerRequest) (*LedgerListResponse, error) {
	period, err := resolvePeriod(req.Period, req.From, req.To, time.Now())
	if err != nil {
		return nil, err
	}

	types := make([]treasury.EntryType, 0, len(req.Types))
	for _, raw := range req.Types {
		entryType := treasury.EntryType(raw)
		if !entryType.IsValid() {
			return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", fmt.Sprintf("Unknown ledger entry type %q", raw))
		}
		types = append(types, entryType)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	entries, total, err := s.ledgerRepo.List(ctx, treasury.LedgerFilter{
		Period:            period,
		Types:             types,
		PaymentMethodCode: req.PaymentMethodCode,
		WalletID:          req.WalletID,
		Page:              page,
		PageSize:          pageSize,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]*LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toLedgerEntryResponse(entry))
	}
	return &LedgerListResponse{
		Entries:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// effectiveMethodCode resolves the method code a wallet movement is booked
// under: the wallet's first linked payment method by sort order.
func (s *LedgerService) effectiveMethodCode(ctx context.Context, walletID uuid.UUID) (string, error) {
	methods, err := s.methodRepo.FindByWalletID(ctx, walletID)
	if err != nil {
		return "", err
	}
	if len(methods) == 0 {
		return "", shared.NewDomainError("NO_LINKED_METHOD", "Wallet has no linked payment method to book the movement under")
	}
	return methods[0].Code, nil
}

// checkBalance applies the negative-balance policy against an advisory read
// of the origin wallet balance. The read happens outside the write
// transaction; the policy is a guard rail, not a serialized constraint.
func (s *LedgerService) checkBalance(ctx context.Context, walletID uuid.UUID, amount valueobject.Money) error {
	if s.balancePolicy == NegativeBalanceAllow {
		return nil
	}

	methods, err := s.methodRepo.FindByWalletID(ctx, walletID)
	if err != nil {
		return err
	}
	balance := valueobject.Zero()
	for _, method := range methods {
		sum, err := s.ledgerRepo.SumNetByMethodCode(ctx, method.Code, valueobject.AllTime())
		if err != nil {
			return err
		}
		balance = balance.Add(sum)
	}

	if balance.Subtract(amount).IsNegative() {
		if s.balancePolicy == NegativeBalanceBlock {
			return shared.ErrInsufficientBalance
		}
		if s.logger != nil {
			s.logger.Warn("movement pushes wallet balance below zero",
				zap.String("wallet_id", walletID.String()),
				zap.String("balance", balance.String()),
				zap.String("amount", amount.String()),
			)
		}
	}
	return nil
}

func (s *LedgerService) buildEntries(ctx context.Context, movement *treasury.TreasuryMovement, originCode string, direction int) ([]*treasury.LedgerEntry, error) {
	switch movement.Type {
	case treasury.MovementTypeTransferencia:
		destinationCode, err := s.effectiveMethodCode(ctx, *movement.DestinationWalletID)
		if err != nil {
			return nil, err
		}
		correlationID := movement.ID
		out, err := treasury.NewTransferLeg(movement.OccurredAt, originCode, movement.OriginWalletID, movement.Amount, -1, correlationID, movement.Reason)
		if err != nil {
			return nil, err
		}
		in, err := treasury.NewTransferLeg(movement.OccurredAt, destinationCode, *movement.DestinationWalletID, movement.Amount, 1, correlationID, movement.Reason)
		if err != nil {
			return nil, err
		}
		out.WithOperator(movement.OperatorID, movement.OperatorName)
		in.WithOperator(movement.OperatorID, movement.OperatorName)
		return []*treasury.LedgerEntry{out, in}, nil

	case treasury.MovementTypeAjuste:
		if direction == 0 {
			direction = 1
		}
		entry, err := treasury.NewLedgerEntry(movement.OccurredAt, treasury.EntryTypeAjuste, originCode, &movement.OriginWalletID, 1, movement.Amount, valueobject.Zero(), direction, movement.Reason)
		if err != nil {
			return nil, err
		}
		entry.WithOperator(movement.OperatorID, movement.OperatorName)
		return []*treasury.LedgerEntry{entry}, nil

	default:
		entryDirection := 1
		if movement.Type.IsOutflow() {
			entryDirection = -1
		}
		entry, err := treasury.NewLedgerEntry(movement.OccurredAt, movement.Type.EntryType(), originCode, &movement.OriginWalletID, 1, movement.Amount, valueobject.Zero(), entryDirection, movement.Reason)
		if err != nil {
			return nil, err
		}
		entry.WithOperator(movement.OperatorID, movement.OperatorName)
		if movement.BillID != nil {
			entry.WithReference("bill:" + movement.BillID.String())
		}
		return []*treasury.LedgerEntry{entry}, nil
	}
}

func (s *LedgerService) publishRecorded(ctx context.Context, entries []*treasury.LedgerEntry) {
	if s.eventPublisher == nil || len(entries) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, treasury.NewMovementRecordedEvent(entries)); err != nil && s.logger != nil {
		s.logger.Error("failed to publish movement recorded event", zap.Error(err))
	}
}

func toMovementResponse(movementID uuid.UUID, entries []*treasury.LedgerEntry) *MovementResponse {
	entryIDs := make([]uuid.UUID, 0, len(entries))
	responses := make([]*LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		entryIDs = append(entryIDs, entry.ID)
		responses = append(responses, toLedgerEntryResponse(entry))
	}
	return &MovementResponse{MovementID: movementID, EntryIDs: entryIDs, Entries: responses}
}

// resolvePeriod turns the shortcut or custom bounds of a request into a
// concrete period. Explicit bounds win over the shortcut.
func resolvePeriod(shortcut valueobject.PeriodShortcut, from, to *time.Time, now time.Time) (valueobject.Period, error) {
	if from != nil || to != nil {
		var start, end time.Time
		if from != nil {
			start = *from
		}
		if to != nil {
			end = *to
		}
		return valueobject.NewPeriod(start, end)
	}
	return valueobject.FromShortcut(shortcut, now)
}
