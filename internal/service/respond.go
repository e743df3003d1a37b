// Package service implements the HTTP API over the ledger engine and store.
package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JeyadeepakUR/credresolve/internal/ledger"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// writeDomainError maps engine errors onto the API error taxonomy:
// validation failures are 400, missing records 404, everything else is an
// opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var validation *ledger.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, string(validation.Code), validation.Message)
		return
	}

	var notFound *ledger.NotFoundError
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, string(notFound.Code), notFound.Message)
		return
	}

	slog.Error("internal error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
