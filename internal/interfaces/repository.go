package interfaces

import (
	"context"

	"github.com/dariga-s/bakehouse/internal/domain"
)

// Repositories return (nil, nil) when an entity is absent or out of store
// scope; the use case layer converts absence into a NotFound failure.

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, storeID, id int64) (*domain.Order, error)
	List(ctx context.Context, storeID int64) ([]*domain.Order, error)
	// UpdateStatus writes the new status only if the persisted status still
	// equals from (compare-and-swap). It reports false when the row moved
	// under the caller.
	UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.OrderStatus) (bool, error)
	Delete(ctx context.Context, storeID, id int64) error
	NextOrderNumber(ctx context.Context, storeID int64) (string, error)
}

type IngredientRepository interface {
	FindByID(ctx context.Context, storeID, id int64) (*domain.Ingredient, error)
	List(ctx context.Context, storeID int64) ([]*domain.Ingredient, error)
	// AdjustQuantity applies delta to the stored quantity in a single atomic
	// statement and returns the post-adjustment row, or (nil, nil) when the
	// ingredient does not exist in the store.
	AdjustQuantity(ctx context.Context, storeID, id int64, delta float64) (*domain.Ingredient, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByID(ctx context.Context, storeID, id int64) (*domain.Payment, error)
	ListByOrder(ctx context.Context, storeID, orderID int64) ([]domain.Payment, error)
	// UpdateStatus flips the payment status only if the persisted status
	// still equals from.
	UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.PaymentStatus) (bool, error)
}

type LoyaltyRepository interface {
	// Append inserts the ledger row and updates the customer's denormalized
	// balance to the row's BalanceAfter within one transaction.
	Append(ctx context.Context, tx *domain.LoyaltyTransaction) error
	LatestBalance(ctx context.Context, storeID, customerID int64) (int, error)
	FindByPayment(ctx context.Context, storeID, paymentID int64, txType domain.LoyaltyTxType) (*domain.LoyaltyTransaction, error)
	ListByCustomer(ctx context.Context, storeID, customerID int64) ([]domain.LoyaltyTransaction, error)
}

type CustomerRepository interface {
	FindByID(ctx context.Context, storeID, id int64) (*domain.Customer, error)
}

// BalanceCache is a read-through cache over the loyalty ledger head. Cache
// failures are logged, never surfaced.
type BalanceCache interface {
	Get(ctx context.Context, storeID, customerID int64) (balance int, ok bool, err error)
	Set(ctx context.Context, storeID, customerID int64, balance int) error
	Invalidate(ctx context.Context, storeID, customerID int64) error
}
