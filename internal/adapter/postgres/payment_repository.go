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

type paymentRepository struct {
	db DB
}

func NewPaymentRepository(db DB) interfaces.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
		INSERT INTO payments (store_id, order_id, amount, method, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		payment.StoreID, payment.OrderID, payment.Amount,
		string(payment.Method), string(payment.Status),
		payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, storeID, id int64) (*domain.Payment, error) {
	query := `
		SELECT id, store_id, order_id, amount, method, status, created_at, updated_at
		FROM payments
		WHERE store_id = $1 AND id = $2
	`

	var payment domain.Payment
	err := r.db.QueryRow(ctx, query, storeID, id).Scan(
		&payment.ID, &payment.StoreID, &payment.OrderID, &payment.Amount,
		&payment.Method, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &payment, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, storeID, orderID int64) ([]domain.Payment, error) {
	query := `
		SELECT id, store_id, order_id, amount, method, status, created_at, updated_at
		FROM payments
		WHERE store_id = $1 AND order_id = $2
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, storeID, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID, &payment.StoreID, &payment.OrderID, &payment.Amount,
			&payment.Method, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

// UpdateStatus flips the status only if the row still carries from, so a
// refund cannot land twice.
func (r *paymentRepository) UpdateStatus(ctx context.Context, storeID, id int64, from, to domain.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1, updated_at = $2
		WHERE store_id = $3 AND id = $4 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, string(to), time.Now(), storeID, id, string(from))
	if err != nil {
		return false, fmt.Errorf("failed to update payment status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
