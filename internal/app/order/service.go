package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type Service struct {
	orders interfaces.OrderRepository
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewService(orders interfaces.OrderRepository, bus *eventbus.Bus, logger *zap.Logger) *Service {
	return &Service{
		orders: orders,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, storeID int64, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			RecipeID:  item.RecipeID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Notes:     item.Notes,
		}
	}

	order, err := domain.NewOrder(storeID, cmd.CustomerID, items, cmd.DueDate, cmd.RecurringGroupID)
	if err != nil {
		return nil, err
	}

	number, err := s.orders.NextOrderNumber(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}
	order.Number = number

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order",
			zap.Int64("store_id", storeID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Debug("order created",
		zap.Int64("store_id", storeID),
		zap.String("order_number", order.Number))

	payload := map[string]any{
		"orderId":     order.ID,
		"storeId":     order.StoreID,
		"orderNumber": order.Number,
		"totalAmount": order.TotalAmount,
	}
	if order.CustomerID != nil {
		payload["customerId"] = *order.CustomerID
	}
	s.bus.PublishDetached(domain.NewEvent(domain.EventOrderCreated, payload, eventbus.CorrelationID(ctx)))

	return order, nil
}

func (s *Service) Get(ctx context.Context, storeID, orderID int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NotFoundf("order %d not found", orderID)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, storeID int64) ([]*domain.Order, error) {
	return s.orders.List(ctx, storeID)
}

// UpdateStatus applies a single transition: load, validate the edge against
// the transition table, then persist via compare-and-swap so two racing
// transitions cannot both succeed from the same source state. Both sides of
// the change are returned so the caller can decide on further consequences.
func (s *Service) UpdateStatus(ctx context.Context, storeID, orderID int64, newStatus domain.OrderStatus) (interfaces.StatusChange, error) {
	var change interfaces.StatusChange

	if !newStatus.Valid() {
		return change, domain.Validationf("unknown order status %d", int(newStatus))
	}

	order, err := s.orders.FindByID(ctx, storeID, orderID)
	if err != nil {
		return change, err
	}
	if order == nil {
		return change, domain.NotFoundf("order %d not found", orderID)
	}

	if !order.CanTransitionTo(newStatus) {
		return change, domain.Validationf("cannot transition order %d from %s to %s (allowed: %s)",
			orderID, order.Status, newStatus, formatAllowed(order.Status))
	}

	updated, err := s.orders.UpdateStatus(ctx, storeID, orderID, order.Status, newStatus)
	if err != nil {
		return change, fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		// Another request moved the order between our read and write.
		return change, domain.Conflictf("order %d changed concurrently, no longer %s", orderID, order.Status)
	}

	change = interfaces.StatusChange{From: order.Status, To: newStatus}

	s.logger.Info("order status changed",
		zap.Int64("store_id", storeID),
		zap.Int64("order_id", orderID),
		zap.String("from", change.From.String()),
		zap.String("to", change.To.String()))

	correlationID := eventbus.CorrelationID(ctx)
	s.bus.PublishDetached(domain.NewEvent(domain.EventOrderStatusChanged, map[string]any{
		"orderId":     orderID,
		"storeId":     storeID,
		"orderNumber": order.Number,
		"oldStatus":   change.From.String(),
		"newStatus":   change.To.String(),
	}, correlationID))

	if newStatus == domain.StatusDelivered {
		s.bus.PublishDetached(domain.NewEvent(domain.EventOrderDelivered, map[string]any{
			"orderId":     orderID,
			"storeId":     storeID,
			"orderNumber": order.Number,
		}, correlationID))
	}

	return change, nil
}

// Delete removes an order, but only while it is still in the initial state.
func (s *Service) Delete(ctx context.Context, storeID, orderID int64) error {
	order, err := s.orders.FindByID(ctx, storeID, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.NotFoundf("order %d not found", orderID)
	}
	if !order.Deletable() {
		return domain.Validationf("cannot delete order %d in status %s, only %s orders can be deleted",
			orderID, order.Status, domain.StatusReceived)
	}
	return s.orders.Delete(ctx, storeID, orderID)
}

func formatAllowed(from domain.OrderStatus) string {
	allowed := domain.AllowedTransitions(from)
	if len(allowed) == 0 {
		return "none"
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
