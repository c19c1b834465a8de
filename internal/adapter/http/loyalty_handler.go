package http

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type LoyaltyHandler struct {
	service interfaces.LoyaltyService
	logger  *zap.Logger
}

func NewLoyaltyHandler(service interfaces.LoyaltyService, logger *zap.Logger) *LoyaltyHandler {
	return &LoyaltyHandler{service: service, logger: logger}
}

type loyaltyTransactionRequest struct {
	CustomerID  int64   `json:"customer_id"`
	PaymentID   *int64  `json:"payment_id,omitempty"`
	Type        string  `json:"type"`
	Points      int     `json:"points"`
	Description *string `json:"description,omitempty"`
}

type loyaltyTransactionResponse struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	PaymentID    *int64    `json:"payment_id,omitempty"`
	Type         string    `json:"type"`
	Points       int       `json:"points"`
	BalanceAfter int       `json:"balance_after"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type balanceResponse struct {
	CustomerID int64 `json:"customer_id"`
	Balance    int   `json:"balance"`
}

func (h *LoyaltyHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req loyaltyTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), storeID, interfaces.LoyaltyCommand{
		CustomerID:  req.CustomerID,
		PaymentID:   req.PaymentID,
		Type:        domain.LoyaltyTxType(req.Type),
		Points:      req.Points,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Warn("loyalty transaction rejected",
			zap.Int64("customer_id", req.CustomerID),
			zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLoyaltyResponse(tx))
}

func (h *LoyaltyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	customerID, err := pathID(r, "customerID")
	if err != nil {
		writeError(w, err)
		return
	}

	balance, err := h.service.Balance(r.Context(), storeID, customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{CustomerID: customerID, Balance: balance})
}

func (h *LoyaltyHandler) History(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	customerID, err := pathID(r, "customerID")
	if err != nil {
		writeError(w, err)
		return
	}

	txs, err := h.service.History(r.Context(), storeID, customerID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]loyaltyTransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, toLoyaltyResponse(&txs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func toLoyaltyResponse(tx *domain.LoyaltyTransaction) loyaltyTransactionResponse {
	return loyaltyTransactionResponse{
		ID:           tx.ID,
		CustomerID:   tx.CustomerID,
		PaymentID:    tx.PaymentID,
		Type:         string(tx.Type),
		Points:       tx.Points,
		BalanceAfter: tx.BalanceAfter,
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}
