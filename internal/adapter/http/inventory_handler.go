package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type InventoryHandler struct {
	service interfaces.InventoryService
	logger  *zap.Logger
}

func NewInventoryHandler(service interfaces.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{service: service, logger: logger}
}

type adjustStockRequest struct {
	Type          string   `json:"type"`
	Quantity      float64  `json:"quantity"`
	Reason        *string  `json:"reason,omitempty"`
	PricePaid     *float64 `json:"price_paid,omitempty"`
	SuppressEvent bool     `json:"suppress_event,omitempty"`
}

type ingredientResponse struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Unit              string  `json:"unit"`
	Quantity          float64 `json:"quantity"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	LowStock          bool    `json:"low_stock"`
}

func (h *InventoryHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	ingredientID, err := pathID(r, "ingredientID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	ingredient, err := h.service.AdjustStock(r.Context(), storeID, interfaces.AdjustStockCommand{
		IngredientID:  ingredientID,
		Type:          domain.AdjustmentType(req.Type),
		Quantity:      req.Quantity,
		Reason:        req.Reason,
		PricePaid:     req.PricePaid,
		SuppressEvent: req.SuppressEvent,
	})
	if err != nil {
		h.logger.Warn("stock adjustment rejected",
			zap.Int64("ingredient_id", ingredientID),
			zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toIngredientResponse(ingredient))
}

func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	ingredientID, err := pathID(r, "ingredientID")
	if err != nil {
		writeError(w, err)
		return
	}

	ingredient, err := h.service.Get(r.Context(), storeID, ingredientID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientResponse(ingredient))
}

func toIngredientResponse(ingredient *domain.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:                ingredient.ID,
		Name:              ingredient.Name,
		Unit:              ingredient.Unit,
		Quantity:          ingredient.Quantity,
		LowStockThreshold: ingredient.LowStockThreshold,
		LowStock:          ingredient.IsLowStock(),
	}
}
