package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dariga-s/bakehouse/internal/eventbus"
)

const correlationHeader = "X-Correlation-ID"

// CorrelationMiddleware tags every request with a correlation id, honoring
// one supplied by the client, so events published downstream can be traced
// back to the request that caused them.
func CorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(correlationHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(correlationHeader, id)
		next.ServeHTTP(w, r.WithContext(eventbus.WithCorrelation(r.Context(), id)))
	})
}
