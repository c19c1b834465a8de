package http

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/domain"
	"github.com/dariga-s/bakehouse/internal/interfaces"
)

type PaymentHandler struct {
	service interfaces.PaymentService
	logger  *zap.Logger
}

func NewPaymentHandler(service interfaces.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, logger: logger}
}

type recordPaymentRequest struct {
	OrderID int64   `json:"order_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
}

type paymentResponse struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type paymentSummaryResponse struct {
	PaidAmount float64 `json:"paid_amount"`
	Status     string  `json:"status"`
}

func (h *PaymentHandler) Record(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.Validationf("invalid request body"))
		return
	}

	payment, err := h.service.Record(r.Context(), storeID, interfaces.RecordPaymentCommand{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Method:  domain.PaymentMethod(req.Method),
	})
	if err != nil {
		h.logger.Warn("payment rejected", zap.Int64("order_id", req.OrderID), zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPaymentResponse(payment))
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeError(w, err)
		return
	}
	paymentID, err := pathID(r, "paymentID")
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.service.Refund(r.Context(), storeID, paymentID)
	if err != nil {
		h.logger.Warn("refund rejected", zap.Int64("payment_id", paymentID), zap.Error(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *PaymentHandler) SummaryForOrder(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.service.SummaryForOrder(r.Context(), storeID, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paymentSummaryResponse{
		PaidAmount: summary.PaidAmount,
		Status:     string(summary.Status),
	})
}

func toPaymentResponse(payment *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Method:    string(payment.Method),
		Status:    string(payment.Status),
		CreatedAt: payment.CreatedAt,
	}
}
