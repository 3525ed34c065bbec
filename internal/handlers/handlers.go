package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mypts/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, map[string]string{"error": code})
}

// respondServiceError maps the service error taxonomy onto stable error codes.
// Unknown errors collapse to a generic 500; internals never leak to callers.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrInsufficientBalance):
		respondError(w, http.StatusBadRequest, "insufficient_balance")
	case errors.Is(err, services.ErrInsufficientReserve):
		respondError(w, http.StatusBadRequest, "insufficient_reserve")
	case errors.Is(err, services.ErrInsufficientCirculation):
		respondError(w, http.StatusBadRequest, "insufficient_circulation")
	case errors.Is(err, services.ErrSupplyCeilingExceeded):
		respondError(w, http.StatusBadRequest, "supply_ceiling_exceeded")
	case errors.Is(err, services.ErrInvalidSupplyAdjustment):
		respondError(w, http.StatusBadRequest, "invalid_supply_adjustment")
	case errors.Is(err, services.ErrSelfTransfer):
		respondError(w, http.StatusBadRequest, "self_transfer_not_allowed")
	case errors.Is(err, services.ErrRecipientNotFound):
		respondError(w, http.StatusNotFound, "recipient_not_found")
	case errors.Is(err, services.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "profile_not_found")
	case errors.Is(err, services.ErrAlreadyRewarded):
		respondError(w, http.StatusConflict, "already_rewarded")
	case errors.Is(err, services.ErrInvalidActivityType):
		respondError(w, http.StatusBadRequest, "invalid_activity_type")
	case errors.Is(err, services.ErrTransactionTimeout):
		respondError(w, http.StatusGatewayTimeout, "transaction_timeout")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}
