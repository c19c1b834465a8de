package interfaces

import (
	"context"
	"time"

	"github.com/dariga-s/bakehouse/internal/domain"
)

// Service contracts consumed by the HTTP boundary and by sibling use cases.

type OrderService interface {
	Create(ctx context.Context, storeID int64, cmd CreateOrderCommand) (*domain.Order, error)
	Get(ctx context.Context, storeID, orderID int64) (*domain.Order, error)
	List(ctx context.Context, storeID int64) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, storeID, orderID int64, newStatus domain.OrderStatus) (StatusChange, error)
	Delete(ctx context.Context, storeID, orderID int64) error
}

type InventoryService interface {
	AdjustStock(ctx context.Context, storeID int64, cmd AdjustStockCommand) (*domain.Ingredient, error)
	Get(ctx context.Context, storeID, ingredientID int64) (*domain.Ingredient, error)
}

type PaymentService interface {
	Record(ctx context.Context, storeID int64, cmd RecordPaymentCommand) (*domain.Payment, error)
	Refund(ctx context.Context, storeID, paymentID int64) (*domain.Payment, error)
	SummaryForOrder(ctx context.Context, storeID, orderID int64) (domain.PaymentSummary, error)
}

type LoyaltyService interface {
	CreateTransaction(ctx context.Context, storeID int64, cmd LoyaltyCommand) (*domain.LoyaltyTransaction, error)
	Balance(ctx context.Context, storeID, customerID int64) (int, error)
	History(ctx context.Context, storeID, customerID int64) ([]domain.LoyaltyTransaction, error)
	FindByPayment(ctx context.Context, storeID, paymentID int64, txType domain.LoyaltyTxType) (*domain.LoyaltyTransaction, error)
}

// StatusChange reports both sides of a transition so the caller can decide
// whether further consequences apply (production batches, notifications).
type StatusChange struct {
	From domain.OrderStatus
	To   domain.OrderStatus
}

type CreateOrderCommand struct {
	CustomerID       *int64
	Items            []CreateOrderItemCommand
	DueDate          *time.Time
	RecurringGroupID *int64
}

type CreateOrderItemCommand struct {
	RecipeID  int64
	Quantity  int
	UnitPrice float64
	Notes     *string
}

type AdjustStockCommand struct {
	IngredientID int64
	Type         domain.AdjustmentType
	Quantity     float64 // positive magnitude; direction carried by Type
	Reason       *string
	PricePaid    *float64
	// SuppressEvent skips the low-stock event for bulk flows (stocktakes,
	// imports) that would otherwise storm the bus.
	SuppressEvent bool
}

type RecordPaymentCommand struct {
	OrderID int64
	Amount  float64
	Method  domain.PaymentMethod
}

type LoyaltyCommand struct {
	CustomerID  int64
	PaymentID   *int64
	Type        domain.LoyaltyTxType
	Points      int // positive magnitude for earned/redeemed, signed for adjusted
	Description *string
}
