// Package handler exposes the ledger over HTTP
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/division-ledger/internal/domain/entity"
	"github.com/damon-houk/division-ledger/internal/infrastructure/logger"
)

func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"status_code": statusCode,
			"error":       err.Error(),
		})
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, log, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}

// sendServiceError maps a service error onto its HTTP status
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, action, requestID string) {
	var ve *entity.ValidationError

	switch {
	case errors.As(err, &ve):
		log.Warn("Validation failed", map[string]interface{}{
			"request_id": requestID,
			"action":     action,
			"field":      ve.Field,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, ve.Message, "Field '"+ve.Field+"' is invalid", http.StatusBadRequest, requestID)
	case errors.Is(err, entity.ErrNotFound):
		log.Warn("Transaction not found", map[string]interface{}{
			"request_id": requestID,
			"action":     action,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Transaction not found",
			"The requested transaction could not be found", http.StatusNotFound, requestID)
	case errors.Is(err, entity.ErrEditWindowExpired):
		log.Warn("Edit window expired", map[string]interface{}{
			"request_id": requestID,
			"action":     action,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Edit window expired",
			"Transactions can only be edited within 12 hours of their date", http.StatusForbidden, requestID)
	default:
		log.Error("Unexpected error", map[string]interface{}{
			"request_id": requestID,
			"action":     action,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred while trying to "+action, http.StatusInternalServerError, requestID)
	}
}
