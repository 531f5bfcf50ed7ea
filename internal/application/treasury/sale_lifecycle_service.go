package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/sales"
	"github.com/gestorloja/backend/internal/domain/shared"
)

// Sale lifecycle transitions the host application may notify
const (
	SaleTransitionFinalized = "finalized"
	SaleTransitionCancelled = "cancelled"
	SaleTransitionRefunded  = "refunded"
)

// SaleLifecycleRequest is the notification payload the host application
// sends after committing a sale state change
type SaleLifecycleRequest struct {
	Transition string `json:"transition" binding:"required,oneof=finalized cancelled refunded"`
	Reason     string `json:"reason" binding:"omitempty,max=300"`
}

// SaleLifecycleService is the ingestion point for sale lifecycle
// notifications. The host application owns the sale records and writes them
// first; it then notifies this service, which verifies the claimed transition
// against the stored sale and publishes the matching lifecycle event so the
// projection handlers can update the ledger.
type SaleLifecycleService struct {
	saleRepo  sales.SaleRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewSaleLifecycleService creates a new SaleLifecycleService
func NewSaleLifecycleService(saleRepo sales.SaleRepository, publisher shared.EventPublisher, logger *zap.Logger) *SaleLifecycleService {
	return &SaleLifecycleService{
		saleRepo:  saleRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyTransition loads the sale, checks that its stored state matches the
// claimed transition and publishes the lifecycle event. A notification whose
// transition disagrees with the stored record is rejected, so a premature or
// misrouted callback never reaches the ledger.
func (s *SaleLifecycleService) NotifyTransition(ctx context.Context, saleID uuid.UUID, req SaleLifecycleRequest) error {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	var event shared.DomainEvent
	switch req.Transition {
	case SaleTransitionFinalized:
		if !sale.IsCommitted() {
			return shared.NewDomainError("INVALID_STATE", "Sale has not been finalized")
		}
		event = sales.NewSaleFinalizedEvent(sale, timestampOr(sale.FinalizedAt, sale.UpdatedAt))
	case SaleTransitionCancelled:
		if sale.Status != sales.SaleStatusCanceled {
			return shared.NewDomainError("INVALID_STATE", "Sale has not been canceled")
		}
		event = sales.NewSaleCancelledEvent(sale, timestampOr(sale.CanceledAt, sale.UpdatedAt), req.Reason)
	case SaleTransitionRefunded:
		if sale.Status != sales.SaleStatusRefunded {
			return shared.NewDomainError("INVALID_STATE", "Sale has not been refunded")
		}
		event = sales.NewSaleRefundedEvent(sale, timestampOr(sale.RefundedAt, sale.UpdatedAt), req.Reason)
	default:
		return shared.NewDomainError("INVALID_TRANSITION", "Unknown sale transition: "+req.Transition)
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("sale lifecycle notification published",
			zap.String("sale_id", sale.ID.String()),
			zap.String("number", sale.Number),
			zap.String("transition", req.Transition),
		)
	}
	return nil
}

func timestampOr(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}
