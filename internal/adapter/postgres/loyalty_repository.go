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

type loyaltyRepository struct {
	db DB
}

func NewLoyaltyRepository(db DB) interfaces.LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

// Append writes the ledger row and brings the customer's denormalized
// balance up to the row's snapshot in one transaction, keeping the two in
// lockstep. The ledger stays the source of truth.
func (r *loyaltyRepository) Append(ctx context.Context, ltx *domain.LoyaltyTransaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	ltx.CreatedAt = time.Now()

	query := `
		INSERT INTO loyalty_transactions (store_id, customer_id, payment_id, type, points, balance_after, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err = tx.QueryRow(ctx, query,
		ltx.StoreID, ltx.CustomerID, ltx.PaymentID, string(ltx.Type),
		ltx.Points, ltx.BalanceAfter, ltx.Description, ltx.CreatedAt,
	).Scan(&ltx.ID)
	if err != nil {
		return fmt.Errorf("failed to insert loyalty transaction: %w", err)
	}

	updateQuery := `
		UPDATE customers
		SET loyalty_balance = $1, updated_at = $2
		WHERE store_id = $3 AND id = $4
	`
	if _, err := tx.Exec(ctx, updateQuery, ltx.BalanceAfter, ltx.CreatedAt, ltx.StoreID, ltx.CustomerID); err != nil {
		return fmt.Errorf("failed to update customer balance: %w", err)
	}

	return tx.Commit(ctx)
}

// LatestBalance reads the balance snapshot from the most recent ledger row,
// or zero when the customer has no rows.
func (r *loyaltyRepository) LatestBalance(ctx context.Context, storeID, customerID int64) (int, error) {
	query := `
		SELECT balance_after
		FROM loyalty_transactions
		WHERE store_id = $1 AND customer_id = $2
		ORDER BY id DESC
		LIMIT 1
	`

	var balance int
	err := r.db.QueryRow(ctx, query, storeID, customerID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read loyalty balance: %w", err)
	}
	return balance, nil
}

func (r *loyaltyRepository) FindByPayment(ctx context.Context, storeID, paymentID int64, txType domain.LoyaltyTxType) (*domain.LoyaltyTransaction, error) {
	query := `
		SELECT id, store_id, customer_id, payment_id, type, points, balance_after, description, created_at
		FROM loyalty_transactions
		WHERE store_id = $1 AND payment_id = $2 AND type = $3
		ORDER BY id DESC
		LIMIT 1
	`

	var ltx domain.LoyaltyTransaction
	err := r.db.QueryRow(ctx, query, storeID, paymentID, string(txType)).Scan(
		&ltx.ID, &ltx.StoreID, &ltx.CustomerID, &ltx.PaymentID, &ltx.Type,
		&ltx.Points, &ltx.BalanceAfter, &ltx.Description, &ltx.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load loyalty transaction: %w", err)
	}
	return &ltx, nil
}

func (r *loyaltyRepository) ListByCustomer(ctx context.Context, storeID, customerID int64) ([]domain.LoyaltyTransaction, error) {
	query := `
		SELECT id, store_id, customer_id, payment_id, type, points, balance_after, description, created_at
		FROM loyalty_transactions
		WHERE store_id = $1 AND customer_id = $2
		ORDER BY id DESC
	`

	rows, err := r.db.Query(ctx, query, storeID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.LoyaltyTransaction
	for rows.Next() {
		var ltx domain.LoyaltyTransaction
		if err := rows.Scan(
			&ltx.ID, &ltx.StoreID, &ltx.CustomerID, &ltx.PaymentID, &ltx.Type,
			&ltx.Points, &ltx.BalanceAfter, &ltx.Description, &ltx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loyalty transaction: %w", err)
		}
		txs = append(txs, ltx)
	}
	return txs, nil
}

type customerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) interfaces.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) FindByID(ctx context.Context, storeID, id int64) (*domain.Customer, error) {
	query := `
		SELECT id, store_id, name, email, phone, loyalty_balance, created_at, updated_at
		FROM customers
		WHERE store_id = $1 AND id = $2
	`

	var customer domain.Customer
	err := r.db.QueryRow(ctx, query, storeID, id).Scan(
		&customer.ID, &customer.StoreID, &customer.Name, &customer.Email,
		&customer.Phone, &customer.LoyaltyBalance, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return &customer, nil
}
