package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/shared"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// WalletService provides application-level wallet operations
type WalletService struct {
	walletRepo     treasury.WalletRepository
	methodRepo     treasury.PaymentMethodRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(
	walletRepo treasury.WalletRepository,
	methodRepo treasury.PaymentMethodRepository,
	txScope TransactionScope,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *WalletService {
	return &WalletService{
		walletRepo:     walletRepo,
		methodRepo:     methodRepo,
		txScope:        txScope,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// WalletResponse represents a wallet in API responses
type WalletResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateWalletRequest represents a request to create a wallet
type CreateWalletRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// UpdateWalletRequest represents a request to rename or reorder a wallet
type UpdateWalletRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

func toWalletResponse(w *treasury.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:        w.ID,
		Name:      w.Name,
		SortOrder: w.SortOrder,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// CreateWallet creates a new wallet
func (s *WalletService) CreateWallet(ctx context.Context, req CreateWalletRequest) (*WalletResponse, error) {
	wallet, err := treasury.NewWallet(req.Name, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, err
	}
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, wallet.GetDomainEvents()...)
		wallet.ClearDomainEvents()
	}
	return toWalletResponse(wallet), nil
}

// UpdateWallet renames or reorders a wallet
func (s *WalletService) UpdateWallet(ctx context.Context, id uuid.UUID, req UpdateWalletRequest) (*WalletResponse, error) {
	wallet, err := s.walletRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := wallet.Rename(req.Name); err != nil {
		return nil, err
	}
	wallet.SetSortOrder(req.SortOrder)
	if err := s.walletRepo.Save(ctx, wallet); err != nil {
		return nil, err
	}
	return toWalletResponse(wallet), nil
}

// GetWallet returns one wallet by ID
func (s *WalletService) GetWallet(ctx context.Context, id uuid.UUID) (*WalletResponse, error) {
	wallet, err := s.walletRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWalletResponse(wallet), nil
}

// ListWallets lists wallets ordered by sort order
func (s *WalletService) ListWallets(ctx context.Context) ([]*WalletResponse, error) {
	wallets, err := s.walletRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*WalletResponse, 0, len(wallets))
	for _, wallet := range wallets {
		responses = append(responses, toWalletResponse(wallet))
	}
	return responses, nil
}

// DeleteWallet removes a wallet. Every payment method linked to it is
// unlinked first, and both steps run in one transaction so no method is ever
// left pointing at a dead wallet. Methods themselves are never deleted.
func (s *WalletService) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	var unlinked []uuid.UUID

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.WalletRepo().FindByID(ctx, id); err != nil {
			return err
		}

		methods, err := repos.PaymentMethodRepo().FindByWalletID(ctx, id)
		if err != nil {
			return err
		}
		for _, method := range methods {
			method.UnlinkWallet()
			if err := repos.PaymentMethodRepo().Save(ctx, method); err != nil {
				return err
			}
			unlinked = append(unlinked, method.ID)
		}

		return repos.WalletRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("wallet deleted",
			zap.String("wallet_id", id.String()),
			zap.Int("unlinked_methods", len(unlinked)),
		)
	}
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, treasury.NewWalletDeletedEvent(id, unlinked))
	}
	return nil
}
