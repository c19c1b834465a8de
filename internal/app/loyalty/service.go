package loyalty

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type Service struct {
	ledger    interfaces.LoyaltyRepository
	customers interfaces.CustomerRepository
	cache     interfaces.BalanceCache
	logger    *zap.Logger
}

func NewService(ledger interfaces.LoyaltyRepository, customers interfaces.CustomerRepository, cache interfaces.BalanceCache, logger *zap.Logger) *Service {
	return &Service{
		ledger:    ledger,
		customers: customers,
		cache:     cache,
		logger:    logger,
	}
}

// CreateTransaction appends one ledger row. The balance snapshot is computed
// from the latest row, and the repository keeps the denormalized customer
// balance equal to it in the same transaction. Redemption may overdraw; the
// ledger does not enforce a floor.
func (s *Service) CreateTransaction(ctx context.Context, storeID int64, cmd interfaces.LoyaltyCommand) (*domain.LoyaltyTransaction, error) {
	if !cmd.Type.Valid() {
		return nil, domain.Validationf("unknown loyalty transaction type %q", cmd.Type)
	}
	if cmd.Points == 0 {
		return nil, domain.Validationf("points must be nonzero")
	}
	if cmd.Type != domain.LoyaltyAdjusted && cmd.Points < 0 {
		return nil, domain.Validationf("%s points must be positive, direction is carried by the type", cmd.Type)
	}

	customer, err := s.customers.FindByID(ctx, storeID, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NotFoundf("customer %d not found", cmd.CustomerID)
	}

	balance, err := s.ledger.LatestBalance(ctx, storeID, cmd.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read loyalty balance: %w", err)
	}

	delta := cmd.Type.SignedPoints(cmd.Points)
	tx := &domain.LoyaltyTransaction{
		StoreID:      storeID,
		CustomerID:   cmd.CustomerID,
		PaymentID:    cmd.PaymentID,
		Type:         cmd.Type,
		Points:       delta,
		BalanceAfter: balance + delta,
		Description:  cmd.Description,
	}

	if err := s.ledger.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to append loyalty transaction: %w", err)
	}

	if err := s.cache.Set(ctx, storeID, cmd.CustomerID, tx.BalanceAfter); err != nil {
		s.logger.Warn("failed to cache loyalty balance",
			zap.Int64("customer_id", cmd.CustomerID),
			zap.Error(err))
	}

	s.logger.Info("loyalty transaction appended",
		zap.Int64("store_id", storeID),
		zap.Int64("customer_id", cmd.CustomerID),
		zap.String("type", string(cmd.Type)),
		zap.Int("points", delta),
		zap.Int("balance_after", tx.BalanceAfter))

	return tx, nil
}

// Balance returns the customer's current point balance, read through the
// cache. Cache failures fall back to the ledger.
func (s *Service) Balance(ctx context.Context, storeID, customerID int64) (int, error) {
	if balance, ok, err := s.cache.Get(ctx, storeID, customerID); err != nil {
		s.logger.Warn("loyalty balance cache read failed", zap.Error(err))
	} else if ok {
		return balance, nil
	}

	customer, err := s.customers.FindByID(ctx, storeID, customerID)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, domain.NotFoundf("customer %d not found", customerID)
	}

	balance, err := s.ledger.LatestBalance(ctx, storeID, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to read loyalty balance: %w", err)
	}

	if err := s.cache.Set(ctx, storeID, customerID, balance); err != nil {
		s.logger.Warn("failed to cache loyalty balance", zap.Error(err))
	}

	return balance, nil
}

// FindByPayment looks up a prior ledger entry linked to a payment, enabling
// callers to skip a duplicate compensating reversal.
func (s *Service) FindByPayment(ctx context.Context, storeID, paymentID int64, txType domain.LoyaltyTxType) (*domain.LoyaltyTransaction, error) {
	return s.ledger.FindByPayment(ctx, storeID, paymentID, txType)
}

// History returns the customer's ledger, newest first.
func (s *Service) History(ctx context.Context, storeID, customerID int64) ([]domain.LoyaltyTransaction, error) {
	customer, err := s.customers.FindByID(ctx, storeID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NotFoundf("customer %d not found", customerID)
	}
	return s.ledger.ListByCustomer(ctx, storeID, customerID)
}
