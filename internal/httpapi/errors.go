// Package httpapi exposes the HTTP surface of the catalog service.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopfabrik/catalog-service/internal/apperrors"
)

// errorBody is the JSON error payload. Message carries low-level detail
// for operators and is only populated on 5xx responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:   "Internal server error",
		Message: err.Error(),
	})
}

// writeDomainError maps store/coordinator errors onto status codes:
// validation failures become 400, missing resources 404, anything else
// a generic 500 with operator detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, &apperrors.ErrValidation{}):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, &apperrors.ErrNotFound{}):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeInternalError(w, err)
	}
}
