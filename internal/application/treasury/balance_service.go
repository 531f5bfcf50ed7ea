package treasury

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gestorloja/backend/internal/domain/shared/valueobject"
	"github.com/gestorloja/backend/internal/domain/treasury"
)

// BalanceService is the read side of the ledger: balances per payment method
// and per wallet, plus the separate gross/fee totals. It never writes; every
// number is a fold over the append-only ledger, so concurrent reads are safe
// and two reads over the same period and data always agree.
type BalanceService struct {
	ledgerRepo treasury.LedgerEntryRepository
	methodRepo treasury.PaymentMethodRepository
	cache      BalanceCache
	logger     *zap.Logger
}

// NewBalanceService creates a new BalanceService. The cache is optional;
// a nil cache means every read hits the database.
func NewBalanceService(
	ledgerRepo treasury.LedgerEntryRepository,
	methodRepo treasury.PaymentMethodRepository,
	cache BalanceCache,
	logger *zap.Logger,
) *BalanceService {
	return &BalanceService{
		ledgerRepo: ledgerRepo,
		methodRepo: methodRepo,
		cache:      cache,
		logger:     logger,
	}
}

// MethodBalanceResponse is the balance of one payment method
type MethodBalanceResponse struct {
	PaymentMethodCode string          `json:"payment_method_code"`
	MethodName        string          `json:"method_name,omitempty"`
	Balance           decimal.Decimal `json:"balance"`
}

// WalletBalanceResponse is the balance of one wallet, summed over the
// methods currently linked to it
type WalletBalanceResponse struct {
	WalletID uuid.UUID               `json:"wallet_id"`
	Balance  decimal.Decimal         `json:"balance"`
	Methods  []MethodBalanceResponse `json:"methods"`
}

// MethodTotalsResponse is the separate gross and fee aggregation of one method
type MethodTotalsResponse struct {
	PaymentMethodCode string          `json:"payment_method_code"`
	GrossTotal        decimal.Decimal `json:"gross_total"`
	FeeTotal          decimal.Decimal `json:"fee_total"`
}

// BalanceQuery bounds a balance read
type BalanceQuery struct {
	Period valueobject.PeriodShortcut `form:"period"`
	From   *time.Time                 `form:"from"`
	To     *time.Time                 `form:"to"`
}

// Resolve turns the query into a concrete period
func (q BalanceQuery) Resolve(now time.Time) (valueobject.Period, error) {
	return resolvePeriod(q.Period, q.From, q.To, now)
}

// BalanceByMethod returns the signed net sum for one method code in a period
func (s *BalanceService) BalanceByMethod(ctx context.Context, code string, period valueobject.Period) (*MethodBalanceResponse, error) {
	balance, err := s.methodBalance(ctx, code, period)
	if err != nil {
		return nil, err
	}

	name := ""
	if method, err := s.methodRepo.FindByCode(ctx, code); err == nil {
		name = method.Name
	}
	return &MethodBalanceResponse{
		PaymentMethodCode: code,
		MethodName:        name,
		Balance:           balance.Decimal(),
	}, nil
}

// BalanceByWallet returns the balance of a wallet: the sum over the methods
// currently linked to it. Unlinking a method moves its history out of the
// wallet's balance from the next read on.
func (s *BalanceService) BalanceByWallet(ctx context.Context, walletID uuid.UUID, period valueobject.Period) (*WalletBalanceResponse, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.GetWalletBalance(ctx, walletID, period); err == nil && hit {
			return &WalletBalanceResponse{WalletID: walletID, Balance: cached.Decimal()}, nil
		}
	}

	methods, err := s.methodRepo.FindByWalletID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	total := valueobject.Zero()
	breakdown := make([]MethodBalanceResponse, 0, len(methods))
	for _, method := range methods {
		balance, err := s.methodBalance(ctx, method.Code, period)
		if err != nil {
			return nil, err
		}
		total = total.Add(balance)
		breakdown = append(breakdown, MethodBalanceResponse{
			PaymentMethodCode: method.Code,
			MethodName:        method.Name,
			Balance:           balance.Decimal(),
		})
	}

	if s.cache != nil {
		if err := s.cache.SetWalletBalance(ctx, walletID, period, total); err != nil && s.logger != nil {
			s.logger.Warn("failed to cache wallet balance", zap.Error(err))
		}
	}

	return &WalletBalanceResponse{
		WalletID: walletID,
		Balance:  total.Decimal(),
		Methods:  breakdown,
	}, nil
}

// ListMethodBalances returns the balance of every active payment method
func (s *BalanceService) ListMethodBalances(ctx context.Context, period valueobject.Period) ([]MethodBalanceResponse, error) {
	methods, err := s.methodRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}

	responses := make([]MethodBalanceResponse, 0, len(methods))
	for _, method := range methods {
		balance, err := s.methodBalance(ctx, method.Code, period)
		if err != nil {
			return nil, err
		}
		responses = append(responses, MethodBalanceResponse{
			PaymentMethodCode: method.Code,
			MethodName:        method.Name,
			Balance:           balance.Decimal(),
		})
	}
	return responses, nil
}

// TotalsByMethod returns the separate gross and fee sums for one method code
func (s *BalanceService) TotalsByMethod(ctx context.Context, code string, period valueobject.Period) (*MethodTotalsResponse, error) {
	totals, err := s.ledgerRepo.TotalsByMethodCode(ctx, code, period)
	if err != nil {
		return nil, err
	}
	return &MethodTotalsResponse{
		PaymentMethodCode: totals.PaymentMethodCode,
		GrossTotal:        totals.GrossTotal.Decimal(),
		FeeTotal:          totals.FeeTotal.Decimal(),
	}, nil
}

// TotalBalance returns the signed net sum of the whole ledger in a period
func (s *BalanceService) TotalBalance(ctx context.Context, period valueobject.Period) (decimal.Decimal, error) {
	total, err := s.ledgerRepo.SumNetAll(ctx, period)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Decimal(), nil
}

func (s *BalanceService) methodBalance(ctx context.Context, code string, period valueobject.Period) (valueobject.Money, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.GetMethodBalance(ctx, code, period); err == nil && hit {
			return cached, nil
		}
	}

	balance, err := s.ledgerRepo.SumNetByMethodCode(ctx, code, period)
	if err != nil {
		return valueobject.Zero(), err
	}

	if s.cache != nil {
		if err := s.cache.SetMethodBalance(ctx, code, period, balance); err != nil && s.logger != nil {
			s.logger.Warn("failed to cache method balance", zap.Error(err))
		}
	}
	return balance, nil
}
