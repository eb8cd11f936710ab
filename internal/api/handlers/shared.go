package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/clearharbor/bond-platform-backend/internal/apperrors"
	"github.com/clearharbor/bond-platform-backend/internal/service"
	"github.com/clearharbor/bond-platform-backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// respondError sends a structured error response.
func respondError(w http.ResponseWriter, status int, message string, details interface{}) {
	respondJSON(w, status, map[string]interface{}{
		"error":   message,
		"details": details,
	})
}

// respondServiceError maps service-layer errors onto HTTP responses. The
// mapping is centralized here so every handler reports the same shapes.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
		return
	}

	var terr *apperrors.StatusTransitionError
	if errors.As(err, &terr) {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     "invalid status transition",
			"current":   terr.Current,
			"requested": terr.Requested,
			"allowed":   terr.Allowed,
		})
		return
	}

	var lerr *apperrors.LockupError
	if errors.As(err, &lerr) {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":            lerr.Error(),
			"lockupEndDate":    lerr.LockupEndDate,
			"overrideRequired": errors.Is(err, apperrors.ErrLockupOverrideRequired),
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrInvestmentNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrWithdrawalNotFound):
		respondError(w, http.StatusNotFound, "not found", err.Error())

	case errors.Is(err, apperrors.ErrAmountLockedOnActiveInvestment),
		errors.Is(err, apperrors.ErrIncompatiblePaymentFrequency),
		errors.Is(err, apperrors.ErrAccountTypeLocked),
		errors.Is(err, apperrors.ErrInvestmentNotDraft),
		errors.Is(err, apperrors.ErrNotDistribution),
		errors.Is(err, apperrors.ErrInvalidLockupPeriod):
		respondError(w, http.StatusBadRequest, "request rejected", err.Error())

	case errors.Is(err, apperrors.ErrInvestmentModified):
		respondError(w, http.StatusConflict, "conflict", err.Error())

	case errors.Is(err, service.ErrInvalidAccessToken):
		respondError(w, http.StatusUnauthorized, "unauthorized", err.Error())

	default:
		respondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}

// decodeJSON decodes a request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
