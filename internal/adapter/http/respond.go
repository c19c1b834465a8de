package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dariga-s/bakehouse/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the domain error taxonomy onto HTTP statuses. Unclassified
// errors hide their message behind a 500.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch kind {
	case domain.KindValidation:
		status, msg = http.StatusBadRequest, err.Error()
	case domain.KindNotFound:
		status, msg = http.StatusNotFound, err.Error()
	case domain.KindForbidden:
		status, msg = http.StatusForbidden, err.Error()
	case domain.KindConflict:
		status, msg = http.StatusConflict, err.Error()
	}

	resp := errorResponse{Error: msg}
	if kind != domain.KindUnknown {
		resp.Kind = kind.String()
	}
	writeJSON(w, status, resp)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s", name)
	}
	return id, nil
}
