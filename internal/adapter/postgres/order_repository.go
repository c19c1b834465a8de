package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (store_id, number, customer_id, status, total_amount,
		                    due_date, recurring_group_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		order.StoreID, order.Number, order.CustomerID, int(order.Status), order.TotalAmount,
		order.DueDate, order.RecurringGroupID, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		itemQuery := `
			INSERT INTO order_items (order_id, recipe_id, quantity, unit_price, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err = tx.QueryRow(ctx, itemQuery,
			order.ID, order.Items[i].RecipeID, order.Items[i].Quantity,
			order.Items[i].UnitPrice, order.Items[i].Notes,
		).Scan(&order.Items[i].ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
		order.Items[i].OrderID = order.ID
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, storeID, id int64) (*domain.Order, error) {
	query := `
		SELECT id, store_id, number, customer_id, status, total_amount,
		       due_date, recurring_group_id, created_at, updated_at
		FROM orders
		WHERE store_id = $1 AND id = $2
	`

	var order domain.Order
	var status int
	err := r.db.QueryRow(ctx, query, storeID, id).Scan(
		&order.ID, &order.StoreID, &order.Number, &order.CustomerID, &status, &order.TotalAmount,
		&order.DueDate, &order.RecurringGroupID, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	itemsQuery := `SELECT id, order_id, recipe_id, quantity, unit_price, notes FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.RecipeID, &item.Quantity, &item.UnitPrice, &item.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, storeID int64) ([]*domain.Order, error) {
	query := `
		SELECT id, store_id, number, customer_id, status, total_amount,
		       due_date, recurring_group_id, created_at, updated_at
		FROM orders
		WHERE store_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var status int
		if err := rows.Scan(
			&order.ID, &order.StoreID, &order.Number, &order.CustomerID, &status, &order.TotalAmount,
			&order.DueDate, &order.RecurringGroupID, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		orders = append(orders, &order)
	}

	return orders, nil
}

// UpdateStatus is a compare-and-swap: the write lands only if the persisted
// status still equals from, so two racing transitions cannot both succeed
// from the same source state.
func (r *orderRepository) UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE store_id = $3 AND id = $4 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, int(to), time.Now(), storeID, id, int(from))
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) Delete(ctx context.Context, storeID, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE store_id = $1 AND id = $2`, storeID, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	return tx.Commit(ctx)
}

// NextOrderNumber produces a per-store sequential number like ORD_20260831_042.
func (r *orderRepository) NextOrderNumber(ctx context.Context, storeID int64) (string, error) {
	now := time.Now().UTC()
	prefix := fmt.Sprintf("ORD_%s_", now.Format("20060102"))

	query := `
		SELECT COUNT(*) FROM orders
		WHERE store_id = $1 AND number LIKE $2
	`

	var count int
	if err := r.db.QueryRow(ctx, query, storeID, prefix+"%").Scan(&count); err != nil {
		return "", fmt.Errorf("failed to count orders: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}
