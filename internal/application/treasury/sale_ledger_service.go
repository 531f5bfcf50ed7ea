package treasury

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// SaleLedgerService projects committed sales and their lifecycle transitions
// into ledger entries. Recognition produces one entrada_venda per payment
// split with the fee resolved from the method's current schedule; reversal
// produces exactly one equal-and-opposite entry per original entry. Both
// operations are idempotent on the sale reference, so replayed events never
// double-book a sale.
type SaleLedgerService struct {
	saleRepo        sales.SaleRepository
	ledgerRepo      treasury.LedgerEntryRepository
	methodRepo      treasury.PaymentMethodRepository
	feeScheduleRepo treasury.FeeScheduleRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewSaleLedgerService creates a new SaleLedgerService
func NewSaleLedgerService(
	saleRepo sales.SaleRepository,
	ledgerRepo treasury.LedgerEntryRepository,
	methodRepo treasury.PaymentMethodRepository,
	feeScheduleRepo treasury.FeeScheduleRepository,
	txScope TransactionScope,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *SaleLedgerService {
	return &SaleLedgerService{
		saleRepo:        saleRepo,
		ledgerRepo:      ledgerRepo,
		methodRepo:      methodRepo,
		feeScheduleRepo: feeScheduleRepo,
		txScope:         txScope,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// SaleReference builds the ledger reference string for a sale
func SaleReference(saleID uuid.UUID) string {
	return "sale:" + saleID.String()
}

// RecognizeSale writes the entrada_venda entries for a committed sale.
// Uncommitted (draft) sales produce nothing and are not an error: the sales
// module may emit events ahead of commitment and the projection simply waits
// for the next transition.
func (s *SaleLedgerService) RecognizeSale(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return err
	}
	if !sale.IsCommitted() {
		if s.logger != nil {
			s.logger.Debug("skipping uncommitted sale", zap.String("sale_id", saleID.String()))
		}
		return nil
	}
	if err := sale.ValidateSplits(); err != nil {
		return err
	}

	reference := SaleReference(sale.ID)
	existing, err := s.ledgerRepo.FindByReference(ctx, reference, treasury.EntryTypeEntradaVenda)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	occurredAt := sale.UpdatedAt
	if sale.FinalizedAt != nil {
		occurredAt = *sale.FinalizedAt
	}

	entries := make([]*treasury.LedgerEntry, 0, len(sale.Payments))
	for _, split := range sale.Payments {
		entry, err := s.buildSaleEntry(ctx, sale, split, occurredAt, reference)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.LedgerRepo().CreateBatch(ctx, entries)
	})
	if err != nil {
		return err
	}

	s.publishRecorded(ctx, entries)
	if s.logger != nil {
		s.logger.Info("sale recognized in ledger",
			zap.String("sale_id", sale.ID.String()),
			zap.String("number", sale.Number),
			zap.Int("entries", len(entries)),
		)
	}
	return nil
}

// ReverseSale writes the compensating entries for a canceled or refunded
// sale: one equal-and-opposite entry per original entrada_venda, timestamped
// at reversal time. A sale that never produced entries (or was already
// reversed) is a no-op.
func (s *SaleLedgerService) ReverseSale(ctx context.Context, saleID uuid.UUID, reversalType treasury.EntryType, occurredAt time.Time, description string) error {
	if !reversalType.IsReversal() {
		return shared.NewDomainError("INVALID_ENTRY_TYPE", "Reversal type must be cancelamento or devolucao")
	}

	reference := SaleReference(saleID)
	originals, err := s.ledgerRepo.FindByReference(ctx, reference, treasury.EntryTypeEntradaVenda)
	if err != nil {
		return err
	}
	if len(originals) == 0 {
		return nil
	}

	reversed, err := s.alreadyReversed(ctx, reference)
	if err != nil {
		return err
	}
	if reversed {
		return nil
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	entries := make([]*treasury.LedgerEntry, 0, len(originals))
	for _, original := range originals {
		entry, err := treasury.NewReversalEntry(original, reversalType, occurredAt, description)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.LedgerRepo().CreateBatch(ctx, entries)
	})
	if err != nil {
		return err
	}

	s.publishRecorded(ctx, entries)
	if s.logger != nil {
		s.logger.Info("sale reversed in ledger",
			zap.String("sale_id", saleID.String()),
			zap.String("reversal_type", reversalType.String()),
			zap.Int("entries", len(entries)),
		)
	}
	return nil
}

func (s *SaleLedgerService) buildSaleEntry(ctx context.Context, sale *sales.Sale, split sales.PaymentSplit, occurredAt time.Time, reference string) (*treasury.LedgerEntry, error) {
	method, err := s.methodRepo.FindByCode(ctx, split.PaymentMethodCode)
	if err != nil {
		return nil, err
	}

	installments := split.Installments
	if installments < 1 {
		installments = 1
	}
	if !method.AllowsInstallments(installments, split.Amount) {
		return nil, shared.NewDomainError("INVALID_INSTALLMENTS",
			fmt.Sprintf("Sale %s pays %d installments on method %s which does not allow it", sale.Number, installments, method.Code))
	}

	scheduleEntries, err := s.feeScheduleRepo.FindActiveByMethod(ctx, method.ID)
	if err != nil {
		return nil, err
	}
	schedule := treasury.NewFeeSchedule(method.ID, scheduleEntries)
	fee := schedule.Fee(split.Amount, installments)

	description := "Venda " + sale.Number
	if sale.SellerName != "" {
		description += " - " + sale.SellerName
	}

	entry, err := treasury.NewSaleEntry(occurredAt, method.Code, method.WalletID, installments, split.Amount, fee, description, reference)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// alreadyReversed reports whether any compensating entry exists for the sale
// reference, regardless of which reversal type was used
func (s *SaleLedgerService) alreadyReversed(ctx context.Context, reference string) (bool, error) {
	for _, reversalType := range []treasury.EntryType{treasury.EntryTypeCancelamento, treasury.EntryTypeDevolucao} {
		entries, err := s.ledgerRepo.FindByReference(ctx, reference, reversalType)
		if err != nil {
			return false, err
		}
		if len(entries) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *SaleLedgerService) publishRecorded(ctx context.Context, entries []*treasury.LedgerEntry) {
	if s.eventPublisher == nil || len(entries) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, treasury.NewMovementRecordedEvent(entries)); err != nil && s.logger != nil {
		s.logger.Error("failed to publish movement recorded event", zap.Error(err))
	}
}
