package domain

import "time"

// Order represents a customer order scoped to a store.
type Order struct {
	ID               int64
	StoreID          int64
	Number           string
	CustomerID       *int64 // nil for walk-in customers
	Items            []OrderItem
	Status           OrderStatus
	TotalAmount      float64 // computed once at creation, immutable after
	DueDate          *time.Time
	RecurringGroupID *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem represents a single line item of an order.
type OrderItem struct {
	ID        int64
	OrderID   int64
	RecipeID  int64
	Quantity  int
	UnitPrice float64
	Notes     *string
}

// NewOrder creates an order with business rules applied: at least one item,
// positive quantities, non-negative prices. The total is fixed here and no
// use case recomputes it afterwards.
func NewOrder(storeID int64, customerID *int64, items []OrderItem, dueDate *time.Time, recurringGroupID *int64) (*Order, error) {
	order := &Order{
		StoreID:          storeID,
		CustomerID:       customerID,
		Items:            items,
		Status:           StatusReceived,
		DueDate:          dueDate,
		RecurringGroupID: recurringGroupID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := order.validate(); err != nil {
		return nil, err
	}

	order.TotalAmount = order.calculateTotal()
	return order, nil
}

func (o *Order) validate() error {
	if len(o.Items) < 1 {
		return Validationf("order must have at least one item")
	}
	for i, item := range o.Items {
		if item.RecipeID <= 0 {
			return Validationf("item %d: recipe is required", i)
		}
		if item.Quantity < 1 {
			return Validationf("item %d: quantity must be positive", i)
		}
		if item.UnitPrice < 0 {
			return Validationf("item %d: unit price cannot be negative", i)
		}
	}
	return nil
}

func (o *Order) calculateTotal() float64 {
	total := 0.0
	for _, item := range o.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// CanTransitionTo checks whether the order may move to newStatus.
func (o *Order) CanTransitionTo(newStatus OrderStatus) bool {
	return CanTransition(o.Status, newStatus)
}

// Deletable reports whether the order may still be removed. Only orders in
// the initial state can go; anything further along already has production and
// financial records hanging off it.
func (o *Order) Deletable() bool {
	return o.Status == StatusReceived
}
