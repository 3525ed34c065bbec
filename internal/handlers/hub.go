package handlers

import (
	"encoding/json"
	"net/http"

	"mypts/internal/middleware"
	"mypts/internal/models"
	"mypts/internal/points"
	"mypts/internal/services"
	"mypts/internal/store"
	"mypts/internal/validator"

	"github.com/jmoiron/sqlx"
)

func (h *Handler) GetHubState(w http.ResponseWriter, r *http.Request) {
	state, err := h.hubStore.Get(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_load_hub_state")
		return
	}
	respondJSON(w, http.StatusOK, hubStateResponse(state))
}

type awardRequest struct {
	ProfileID string `json:"profile_id"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason,omitempty"`
}

func (h *Handler) Award(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req awardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	result, err := h.ledger.Award(r.Context(), services.AwardRequest{
		ProfileID: req.ProfileID,
		Amount:    amount,
		Reason:    req.Reason,
		AdminID:   adminID,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, operationResponse(result))
}

type supplyRequest struct {
	Amount              int64   `json:"amount"`
	Reason              string  `json:"reason"`
	LinkedTransactionID *string `json:"linked_transaction_id,omitempty"`
}

func (h *Handler) IssueSupply(w http.ResponseWriter, r *http.Request) {
	h.handleSupplyMove(w, r, func(req supplyRequest, actor *string) (store.HubStateRecord, error) {
		return h.hubService.Issue(r.Context(), req.Amount, req.Reason, actor)
	})
}

func (h *Handler) MoveToCirculation(w http.ResponseWriter, r *http.Request) {
	h.handleSupplyMove(w, r, func(req supplyRequest, actor *string) (store.HubStateRecord, error) {
		return h.hubService.MoveToCirculation(r.Context(), req.Amount, req.Reason, actor, req.LinkedTransactionID)
	})
}

func (h *Handler) MoveToReserve(w http.ResponseWriter, r *http.Request) {
	h.handleSupplyMove(w, r, func(req supplyRequest, actor *string) (store.HubStateRecord, error) {
		return h.hubService.MoveToReserve(r.Context(), req.Amount, req.Reason, actor, req.LinkedTransactionID)
	})
}

func (h *Handler) handleSupplyMove(w http.ResponseWriter, r *http.Request, apply func(supplyRequest, *string) (store.HubStateRecord, error)) {
	adminID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req supplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if _, err := parseAmount(req.Amount); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	if err := validator.ValidateReason(req.Reason); err != nil {
		respondError(w, http.StatusBadRequest, "reason_required")
		return
	}
	state, err := apply(req, &adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hubStateResponse(state))
}

type maxSupplyRequest struct {
	MaxSupply *int64 `json:"max_supply"`
	Reason    string `json:"reason"`
}

func (h *Handler) AdjustMaxSupply(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req maxSupplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if err := validator.ValidateReason(req.Reason); err != nil {
		respondError(w, http.StatusBadRequest, "reason_required")
		return
	}
	state, err := h.hubService.AdjustMaxSupply(r.Context(), req.MaxSupply, req.Reason, &adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hubStateResponse(state))
}

type valuePerUnitRequest struct {
	Value string `json:"value"`
}

func (h *Handler) UpdateValuePerUnit(w http.ResponseWriter, r *http.Request) {
	var req valuePerUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	value, err := parseValuePerUnit(req.Value)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_value")
		return
	}
	state, err := h.hubService.UpdateValuePerUnit(r.Context(), value)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hubStateResponse(state))
}

func (h *Handler) VerifyConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.VerifyConsistency(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_verify")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

type reconcileRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) ReconcileSupply(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if err := validator.ValidateReason(req.Reason); err != nil {
		respondError(w, http.StatusBadRequest, "reason_required")
		return
	}
	state, err := h.reconciler.ReconcileSupply(r.Context(), req.Reason, adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, hubStateResponse(state))
}

func (h *Handler) ListSupplyLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	logs, err := h.hubStore.ListLogs(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_list_logs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"logs": logs, "limit": limit, "offset": offset})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.stats.TotalsByType(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_load_stats")
		return
	}
	series, err := h.stats.MonthlySeries(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_load_stats")
		return
	}
	computed, err := h.balances.Sum(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_load_stats")
		return
	}
	state, err := h.hubStore.Get(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_load_stats")
		return
	}
	byType := make(map[string]map[string]int64, len(totals))
	for _, row := range totals {
		byType[row.Type] = map[string]int64{"count": row.Count, "total": row.Total}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"totals_by_type":       byType,
		"total_awarded":        creditTotal(byType, models.TxTypeAdjustment),
		"total_bought":         creditTotal(byType, models.TxTypeBuy),
		"total_sold":           debitTotal(byType, models.TxTypeSell),
		"total_earned":         creditTotal(byType, models.TxTypeEarn),
		"monthly_series":       series,
		"computed_circulating": computed,
		"hub_circulating":      state.CirculatingSupply,
	})
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	rows, err := h.transactions.ListAll(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_list_transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": rows, "limit": limit, "offset": offset})
}

type grantRoleRequest struct {
	ProfileID string `json:"profile_id"`
	Role      string `json:"role"`
}

func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if req.ProfileID == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "profile_id_and_role_required")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.admin.GrantRole(r.Context(), tx, req.ProfileID, req.Role)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_grant_role")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "granted"})
}

type promoteRequest struct {
	ProfileID string `json:"profile_id"`
	IsSuper   bool   `json:"is_super"`
}

func (h *Handler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.ProfileIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payload")
		return
	}
	if req.ProfileID == "" {
		respondError(w, http.StatusBadRequest, "profile_id_required")
		return
	}
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.admin.CreateAdmin(r.Context(), tx, req.ProfileID, req.IsSuper, &adminID)
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable_to_promote")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "promoted"})
}

func hubStateResponse(state store.HubStateRecord) map[string]any {
	perUnit, err := points.ParseValuePerUnit(state.ValuePerUnit)
	totalValue := ""
	if err == nil {
		totalValue = points.FormatValue(state.TotalSupply, perUnit)
	}
	return map[string]any{
		"total_supply":       state.TotalSupply,
		"circulating_supply": state.CirculatingSupply,
		"reserve_supply":     state.ReserveSupply,
		"max_supply":         state.MaxSupply,
		"value_per_unit":     state.ValuePerUnit,
		"total_value":        totalValue,
	}
}

func creditTotal(byType map[string]map[string]int64, txType string) int64 {
	if row, ok := byType[txType]; ok {
		return row["total"]
	}
	return 0
}

func debitTotal(byType map[string]map[string]int64, txType string) int64 {
	if row, ok := byType[txType]; ok {
		return -row["total"]
	}
	return 0
}
