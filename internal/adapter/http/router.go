package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every handler under the store scope. Nearly all routes are
// tenant-scoped; the store id comes from the path.
func NewRouter(orders *OrderHandler, inventory *InventoryHandler, payments *PaymentHandler, loyalty *LoyaltyHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CorrelationMiddleware)

	r.Route("/stores/{storeID}", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.Create)
			r.Get("/", orders.List)
			r.Get("/{orderID}", orders.Get)
			r.Patch("/{orderID}/status", orders.UpdateStatus)
			r.Delete("/{orderID}", orders.Delete)
			r.Get("/{orderID}/payments", payments.SummaryForOrder)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/{ingredientID}", inventory.Get)
			r.Post("/{ingredientID}/adjustments", inventory.Adjust)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", payments.Record)
			r.Post("/{paymentID}/refund", payments.Refund)
		})

		r.Route("/loyalty", func(r chi.Router) {
			r.Post("/transactions", loyalty.CreateTransaction)
			r.Get("/customers/{customerID}/balance", loyalty.Balance)
			r.Get("/customers/{customerID}/transactions", loyalty.History)
		})
	})

	return r
}
