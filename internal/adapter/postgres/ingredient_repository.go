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

type ingredientRepository struct {
	db DB
}

func NewIngredientRepository(db DB) interfaces.IngredientRepository {
	return &ingredientRepository{db: db}
}

const ingredientColumns = `id, store_id, name, unit, quantity, cost_per_unit, low_stock_threshold, supplier, notes, created_at, updated_at`

func (r *ingredientRepository) FindByID(ctx context.Context, storeID, id int64) (*domain.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE store_id = $1 AND id = $2`

	ingredient, err := scanIngredient(r.db.QueryRow(ctx, query, storeID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return ingredient, nil
}

func (r *ingredientRepository) List(ctx context.Context, storeID int64) ([]*domain.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE store_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*domain.Ingredient
	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}

// AdjustQuantity applies the delta in the same statement that reads the
// current value, so concurrent adjustments on one ingredient cannot lose
// updates. The post-adjustment row comes back via RETURNING.
func (r *ingredientRepository) AdjustQuantity(ctx context.Context, storeID, id int64, delta float64) (*domain.Ingredient, error) {
	query := `
		UPDATE ingredients
		SET quantity = quantity + $1, updated_at = $2
		WHERE store_id = $3 AND id = $4
		RETURNING ` + ingredientColumns

	ingredient, err := scanIngredient(r.db.QueryRow(ctx, query, delta, time.Now(), storeID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to adjust ingredient quantity: %w", err)
	}
	return ingredient, nil
}

func scanIngredient(row Row) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := row.Scan(
		&ingredient.ID, &ingredient.StoreID, &ingredient.Name, &ingredient.Unit,
		&ingredient.Quantity, &ingredient.CostPerUnit, &ingredient.LowStockThreshold,
		&ingredient.Supplier, &ingredient.Notes, &ingredient.CreatedAt, &ingredient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}
