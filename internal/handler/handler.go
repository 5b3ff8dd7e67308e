package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/srana86/frameX-sub004/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent, nothing useful left to do
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, message, code string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Str("code", code).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: message, Code: code})
}

// writeServiceError maps service-layer errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var stockErr *model.StockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   "Insufficient stock",
			Code:    model.ErrCodeInsufficientStock,
			Details: stockErr.Details,
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case model.ErrCodeCustomerBlocked:
			status = http.StatusForbidden
		case model.ErrCodeOrderNotFound, model.ErrCodeProductNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, model.ErrorResponse{
			Error:   domainErr.Message,
			Message: domainErr.Message,
			Code:    domainErr.Code,
		})
		return
	}

	writeError(w, http.StatusInternalServerError, "internal server error", model.ErrCodeInternalError, logger)
}
