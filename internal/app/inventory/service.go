package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type Service struct {
	ingredients interfaces.IngredientRepository
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewService(ingredients interfaces.IngredientRepository, bus *eventbus.Bus, logger *zap.Logger) *Service {
	return &Service{
		ingredients: ingredients,
		bus:         bus,
		logger:      logger,
	}
}

// AdjustStock mutates one ingredient's quantity. The magnitude must be
// strictly positive; direction comes from the adjustment type. The delta is
// applied in a single statement at the storage layer so racing adjustments
// cannot lose updates. A stock level landing at or below the threshold emits
// exactly one low-stock event per call, unless suppressed.
func (s *Service) AdjustStock(ctx context.Context, storeID int64, cmd interfaces.AdjustStockCommand) (*domain.Ingredient, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.Validationf("adjustment quantity must be positive, got %v", cmd.Quantity)
	}
	if !cmd.Type.Valid() {
		return nil, domain.Validationf("unknown adjustment type %q", cmd.Type)
	}

	delta := cmd.Type.SignedDelta(cmd.Quantity)

	ingredient, err := s.ingredients.AdjustQuantity(ctx, storeID, cmd.IngredientID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}
	if ingredient == nil {
		return nil, domain.NotFoundf("ingredient %d not found", cmd.IngredientID)
	}

	s.logger.Debug("stock adjusted",
		zap.Int64("store_id", storeID),
		zap.Int64("ingredient_id", ingredient.ID),
		zap.String("type", string(cmd.Type)),
		zap.Float64("delta", delta),
		zap.Float64("quantity", ingredient.Quantity))

	if ingredient.IsLowStock() && !cmd.SuppressEvent {
		s.bus.PublishDetached(domain.NewEvent(domain.EventInventoryLowStock, map[string]any{
			"storeId":      storeID,
			"ingredientId": ingredient.ID,
			"name":         ingredient.Name,
			"quantity":     ingredient.Quantity,
			"threshold":    ingredient.LowStockThreshold,
			"unit":         ingredient.Unit,
		}, eventbus.CorrelationID(ctx)))
	}

	return ingredient, nil
}

// Get loads a single ingredient.
func (s *Service) Get(ctx context.Context, storeID, ingredientID int64) (*domain.Ingredient, error) {
	ingredient, err := s.ingredients.FindByID(ctx, storeID, ingredientID)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, domain.NotFoundf("ingredient %d not found", ingredientID)
	}
	return ingredient, nil
}
