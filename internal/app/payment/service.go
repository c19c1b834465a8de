package payment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

// pointsPerUnit is the accrual rate: one point per whole currency unit of a
// completed payment.
const pointsPerUnit = 1

type Service struct {
	payments interfaces.PaymentRepository
	orders   interfaces.OrderRepository
	loyalty  interfaces.LoyaltyService
	bus      *eventbus.Bus
	logger   *zap.Logger
}

func NewService(payments interfaces.PaymentRepository, orders interfaces.OrderRepository, loyalty interfaces.LoyaltyService, bus *eventbus.Bus, logger *zap.Logger) *Service {
	return &Service{
		payments: payments,
		orders:   orders,
		loyalty:  loyalty,
		bus:      bus,
		logger:   logger,
	}
}

// Record appends a completed payment to the order's ledger, accrues loyalty
// points when the order has a customer, and announces the payment. Accrual
// and notification are side effects: their failure never fails the payment.
func (s *Service) Record(ctx context.Context, storeID int64, cmd interfaces.RecordPaymentCommand) (*domain.Payment, error) {
	if cmd.Amount <= 0 {
		return nil, domain.Validationf("payment amount must be positive, got %v", cmd.Amount)
	}
	if cmd.Method != domain.PaymentMethodCash {
		return nil, domain.Validationf("unsupported payment method %q", cmd.Method)
	}

	order, err := s.orders.FindByID(ctx, storeID, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("order %d not found", cmd.OrderID)
	}

	payment := &domain.Payment{
		StoreID: storeID,
		OrderID: cmd.OrderID,
		Amount:  cmd.Amount,
		Method:  cmd.Method,
		Status:  domain.PaymentCompleted,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if order.CustomerID != nil {
		s.accruePoints(ctx, storeID, *order.CustomerID, payment)
	}

	payload := map[string]any{
		"paymentId":   payment.ID,
		"storeId":     storeID,
		"orderId":     cmd.OrderID,
		"orderNumber": order.Number,
		"amount":      payment.Amount,
		"method":      string(payment.Method),
	}
	if order.CustomerID != nil {
		payload["customerId"] = *order.CustomerID
	}
	s.bus.PublishDetached(domain.NewEvent(domain.EventPaymentReceived, payload, eventbus.CorrelationID(ctx)))

	return payment, nil
}

// Refund flips an existing completed payment to refunded and reverses the
// points it earned through a compensating adjusted entry. The reversal is
// idempotent: a prior compensating entry for the payment means it is skipped.
func (s *Service) Refund(ctx context.Context, storeID, paymentID int64) (*domain.Payment, error) {
	payment, err := s.payments.FindByID(ctx, storeID, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.NotFoundf("payment %d not found", paymentID)
	}
	if payment.Status == domain.PaymentRefunded {
		return nil, domain.Conflictf("payment %d is already refunded", paymentID)
	}

	updated, err := s.payments.UpdateStatus(ctx, storeID, paymentID, domain.PaymentCompleted, domain.PaymentRefunded)
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}
	if !updated {
		return nil, domain.Conflictf("payment %d changed concurrently", paymentID)
	}
	payment.Status = domain.PaymentRefunded

	s.reversePoints(ctx, storeID, payment)

	s.bus.PublishDetached(domain.NewEvent(domain.EventPaymentRefunded, map[string]any{
		"paymentId": paymentID,
		"storeId":   storeID,
		"orderId":   payment.OrderID,
		"amount":    payment.Amount,
	}, eventbus.CorrelationID(ctx)))

	return payment, nil
}

// Summarize derives the aggregate payment position. Pure: no persistence.
func (s *Service) Summarize(total float64, payments []domain.Payment) domain.PaymentSummary {
	return domain.SummarizePayments(total, payments)
}

// SummaryForOrder loads the order and its ledger and derives the position
// against the order's fixed total.
func (s *Service) SummaryForOrder(ctx context.Context, storeID, orderID int64) (domain.PaymentSummary, error) {
	order, err := s.orders.FindByID(ctx, storeID, orderID)
	if err != nil {
		return domain.PaymentSummary{}, err
	}
	if order == nil {
		return domain.PaymentSummary{}, domain.NotFoundf("order %d not found", orderID)
	}

	payments, err := s.payments.ListByOrder(ctx, storeID, orderID)
	if err != nil {
		return domain.PaymentSummary{}, fmt.Errorf("failed to load payments: %w", err)
	}

	return domain.SummarizePayments(order.TotalAmount, payments), nil
}

func (s *Service) accruePoints(ctx context.Context, storeID, customerID int64, payment *domain.Payment) {
	points := int(payment.Amount) * pointsPerUnit
	if points <= 0 {
		return
	}

	desc := fmt.Sprintf("earned on payment %d", payment.ID)
	_, err := s.loyalty.CreateTransaction(ctx, storeID, interfaces.LoyaltyCommand{
		CustomerID:  customerID,
		PaymentID:   &payment.ID,
		Type:        domain.LoyaltyEarned,
		Points:      points,
		Description: &desc,
	})
	if err != nil {
		s.logger.Warn("loyalty accrual failed",
			zap.Int64("payment_id", payment.ID),
			zap.Int64("customer_id", customerID),
			zap.Error(err))
	}
}

func (s *Service) reversePoints(ctx context.Context, storeID int64, payment *domain.Payment) {
	earned, err := s.loyalty.FindByPayment(ctx, storeID, payment.ID, domain.LoyaltyEarned)
	if err != nil {
		s.logger.Warn("loyalty reversal lookup failed", zap.Int64("payment_id", payment.ID), zap.Error(err))
		return
	}
	if earned == nil {
		return
	}

	// Skip the reversal if a compensating entry already exists for this
	// payment, so a repeated refund attempt cannot double-deduct.
	existing, err := s.loyalty.FindByPayment(ctx, storeID, payment.ID, domain.LoyaltyAdjusted)
	if err != nil {
		s.logger.Warn("loyalty reversal lookup failed", zap.Int64("payment_id", payment.ID), zap.Error(err))
		return
	}
	if existing != nil {
		return
	}

	desc := fmt.Sprintf("reversal of payment %d", payment.ID)
	_, err = s.loyalty.CreateTransaction(ctx, storeID, interfaces.LoyaltyCommand{
		CustomerID:  earned.CustomerID,
		PaymentID:   &payment.ID,
		Type:        domain.LoyaltyAdjusted,
		Points:      -earned.Points,
		Description: &desc,
	})
	if err != nil {
		s.logger.Warn("loyalty reversal failed", zap.Int64("payment_id", payment.ID), zap.Error(err))
	}
}
