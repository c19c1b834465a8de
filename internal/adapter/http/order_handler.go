package http

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  *zap.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

type createOrderRequest struct {
	CustomerID       *int64             `json:"customer_id,omitempty"`
	Items            []orderItemRequest `json:"items"`
	DueDate          *time.Time         `json:"due_date,omitempty"`
	RecurringGroupID *int64             `json:"recurring_group_id,omitempty"`
}

type orderItemRequest struct {
	RecipeID  int64   `json:"recipe_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Notes     *string `json:"notes,omitempty"`
}

type orderResponse struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	CustomerID  *int64     `json:"customer_id,omitempty"`
	Status      string     `json:"status"`
	TotalAmount float64    `json:"total_amount"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type statusChangeResponse struct {
	OrderID   int64  `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	cmd := interfaces.CreateOrderCommand{
		CustomerID:       req.CustomerID,
		DueDate:          req.DueDate,
		RecurringGroupID: req.RecurringGroupID,
	}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, interfaces.CreateOrderItemCommand{
			RecipeID:  item.RecipeID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Notes:     item.Notes,
		})
	}

	order, err := h.service.Create(r.Context(), storeID, cmd)
	if err != nil {
		h.logger.Warn("order creation failed", zap.Int64("store_id", storeID), zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := h.service.Get(r.Context(), storeID, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}

	orders, err := h.service.List(r.Context(), storeID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	newStatus, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	change, err := h.service.UpdateStatus(r.Context(), storeID, orderID, newStatus)
	if err != nil {
		h.logger.Warn("status transition rejected",
			zap.Int64("order_id", orderID),
			zap.String("requested", req.Status),
			zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusChangeResponse{
		OrderID:   orderID,
		OldStatus: change.From.String(),
		NewStatus: change.To.String(),
	})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), storeID, orderID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toOrderResponse(order *domain.Order) orderResponse {
	return orderResponse{
		ID:          order.ID,
		Number:      order.Number,
		CustomerID:  order.CustomerID,
		Status:      order.Status.String(),
		TotalAmount: order.TotalAmount,
		DueDate:     order.DueDate,
		CreatedAt:   order.CreatedAt,
	}
}
