package handlers

import (
	"encoding/json"
	"net/http"

	"mypts/internal/middleware"
	"mypts/internal/services"

	"github.com/go-chi/chi/v5"
)

type buyRequest struct {
	Amount        int64   `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentID     *string `json:"payment_id,omitempty"`
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "payment_method_required")
		return
	}
	result, err := h.ledger.Buy(r.Context(), services.BuyRequest{
		ProfileID:     profileID,
		Amount:        amount,
		PaymentMethod: req.PaymentMethod,
		PaymentID:     req.PaymentID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, operationResponse(result))
}

type sellRequest struct {
	Amount         int64  `json:"amount"`
	PaymentMethod  string `json:"payment_method"`
	AccountDetails string `json:"account_details"`
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "payment_method_required")
		return
	}
	result, err := h.ledger.Sell(r.Context(), services.SellRequest{
		ProfileID:      profileID,
		Amount:         amount,
		PaymentMethod:  req.PaymentMethod,
		AccountDetails: req.AccountDetails,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, operationResponse(result))
}

type withdrawRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.Withdraw(r.Context(), services.WithdrawRequest{
		ProfileID: profileID,
		Amount:    amount,
		Reason:    req.Reason,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, operationResponse(result))
}

type earnRequest struct {
	ActivityType string  `json:"activity_type"`
	ReferenceID  *string `json:"reference_id,omitempty"`
}

func (h *Handler) Earn(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req earnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	result, err := h.ledger.Earn(r.Context(), services.EarnRequest{
		ProfileID:    profileID,
		ActivityType: req.ActivityType,
		ReferenceID:  req.ReferenceID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	payload := operationResponse(result)
	payload["amount_earned"] = result.Amount
	respondJSON(w, http.StatusCreated, payload)
}

type transferRequest struct {
	Amount      int64  `json:"amount"`
	ToProfileID string `json:"to_profile_id"`
	Message     string `json:"message,omitempty"`
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

func (h *Handler) Donate(w http.ResponseWriter, r *http.Request) {
	h.handleTransfer(w, r, false)
}

func (h *Handler) PurchaseProduct(w http.ResponseWriter, r *http.Request) {
	h.handleTransfer(w, r, true)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request, product bool) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if req.ToProfileID == "" {
		respondError(w, http.StatusBadRequest, "to_profile_id_required")
		return
	}
	serviceReq := services.TransferRequest{
		ProfileID:   profileID,
		ToProfileID: req.ToProfileID,
		Amount:      amount,
		Message:     req.Message,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
	}
	var result services.TransferResult
	if product {
		if req.ProductID == "" || req.ProductName == "" {
			respondError(w, http.StatusBadRequest, "product_required")
			return
		}
		result, err = h.ledger.PurchaseProduct(r.Context(), serviceReq)
	} else {
		result, err = h.ledger.Donate(r.Context(), serviceReq)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction_id":           result.SenderTransactionID,
		"recipient_transaction_id": result.RecipientTransactionID,
		"type":                     result.Type,
		"amount":                   result.Amount,
		"new_balance":              result.NewBalance,
	})
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	record, err := h.balances.GetByProfile(r.Context(), profileID)
	if err != nil {
		// no credit yet: report an empty balance rather than a miss
		respondJSON(w, http.StatusOK, map[string]any{
			"profile_id":      profileID,
			"balance":         0,
			"lifetime_earned": 0,
			"lifetime_spent":  0,
		})
		return
	}
	h.balanceCache.Set(r.Context(), profileID, record.Balance)
	respondJSON(w, http.StatusOK, map[string]any{
		"profile_id":          record.ProfileID,
		"balance":             record.Balance,
		"lifetime_earned":     record.LifetimeEarned,
		"lifetime_spent":      record.LifetimeSpent,
		"last_transaction_at": record.LastTransactionAt,
	})
}

// GetQuickBalance serves the cached balance only, falling back to the store on
// a cache miss. Meant for high-frequency polling clients.
func (h *Handler) GetQuickBalance(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if balance, hit := h.balanceCache.Get(r.Context(), profileID); hit {
		respondJSON(w, http.StatusOK, map[string]any{"profile_id": profileID, "balance": balance, "cached": true})
		return
	}
	record, err := h.balances.GetByProfile(r.Context(), profileID)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]any{"profile_id": profileID, "balance": 0, "cached": false})
		return
	}
	h.balanceCache.Set(r.Context(), profileID, record.Balance)
	respondJSON(w, http.StatusOK, map[string]any{"profile_id": profileID, "balance": record.Balance, "cached": false})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, offset := parsePagination(r)
	txType := r.URL.Query().Get("type")
	rows, err := h.transactions.ListByProfile(r.Context(), profileID, txType, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_list_transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transactions": rows,
		"limit":        limit,
		"offset":       offset,
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	profileID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	row, err := h.transactions.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "transaction_not_found")
		return
	}
	// rows belonging to other profiles are indistinguishable from missing ones
	if owner, _ := row["profile_id"].(string); owner != profileID {
		respondError(w, http.StatusNotFound, "transaction_not_found")
		return
	}
	respondJSON(w, http.StatusOK, row)
}

// LookupRecipient resolves a username to a profile id so clients can confirm
// a donation target before sending points.
func (h *Handler) LookupRecipient(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	profile, err := h.profiles.GetByUsername(r.Context(), username)
	if err != nil {
		respondError(w, http.StatusNotFound, "profile_not_found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"profile_id": profile["id"],
		"username":   profile["username"],
	})
}

func operationResponse(result services.OperationResult) map[string]any {
	return map[string]any{
		"transaction_id":  result.TransactionID,
		"type":            result.Type,
		"amount":          result.Amount,
		"new_balance":     result.NewBalance,
		"lifetime_earned": result.LifetimeEarned,
		"lifetime_spent":  result.LifetimeSpent,
	}
}
