package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mypts/internal/services"
	"mypts/internal/store"
)

func TestGetHubStateIncludesValuation(t *testing.T) {
	maxSupply := int64(100000)
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{}, stubTransactionStore{}, stubHubStore{
		getFn: func(context.Context) (store.HubStateRecord, error) {
			return store.HubStateRecord{
				TotalSupply:       1000,
				CirculatingSupply: 600,
				ReserveSupply:     400,
				MaxSupply:         &maxSupply,
				ValuePerUnit:      "0.024",
			}, nil
		},
	}, stubStatsStore{}, stubAdminStore{}, stubLedgerService{}, stubHubService{}, stubReconcileService{})

	req := httptest.NewRequest(http.MethodGet, "/hub/state", nil)
	rr := httptest.NewRecorder()
	handler.GetHubState(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload["total_supply"] != float64(1000) || payload["total_value"] != "24.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload["max_supply"] != float64(100000) {
		t.Fatalf("unexpected max supply: %#v", payload["max_supply"])
	}
}

func TestIssueSupplyRequiresReason(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{}, stubTransactionStore{}, stubHubStore{}, stubStatsStore{}, stubAdminStore{}, stubLedgerService{}, stubHubService{
		issueFn: func(context.Context, int64, string, *string) (store.HubStateRecord, error) {
			t.Fatalf("service must not be called without a reason")
			return store.HubStateRecord{}, nil
		},
	}, stubReconcileService{})

	body := []byte(`{"amount":100}`)
	rr := serveAuthed(handler.IssueSupply, authedRequest(t, http.MethodPost, "/admin/hub/issue", body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestIssueSupplyCeilingExceeded(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{}, stubTransactionStore{}, stubHubStore{}, stubStatsStore{}, stubAdminStore{}, stubLedgerService{}, stubHubService{
		issueFn: func(_ context.Context, amount int64, reason string, actor *string) (store.HubStateRecord, error) {
			if amount != 100 || reason != "top-up" || actor == nil || *actor != "profile-1" {
				t.Fatalf("unexpected args: %d %q %v", amount, reason, actor)
			}
			return store.HubStateRecord{}, services.ErrSupplyCeilingExceeded
		},
	}, stubReconcileService{})

	body := []byte(`{"amount":100,"reason":"top-up"}`)
	rr := serveAuthed(handler.IssueSupply, authedRequest(t, http.MethodPost, "/admin/hub/issue", body))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload["error"] != "supply_ceiling_exceeded" {
		t.Fatalf("unexpected error code: %q", payload["error"])
	}
}

func TestAwardHandlerProfileNotFound(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{}, stubTransactionStore{}, stubHubStore{}, stubStatsStore{}, stubAdminStore{}, stubLedgerService{
		awardFn: func(_ context.Context, req services.AwardRequest) (services.OperationResult, error) {
			if req.AdminID != "profile-1" {
				t.Fatalf("award must carry the acting admin, got %q", req.AdminID)
			}
			return services.OperationResult{}, services.ErrProfileNotFound
		},
	}, stubHubService{}, stubReconcileService{})

	body := []byte(`{"profile_id":"ghost","amount":50}`)
	rr := serveAuthed(handler.Award, authedRequest(t, http.MethodPost, "/admin/mypts/award", body))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestReconcileSupplyHandler(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{}, stubTransactionStore{}, stubHubStore{}, stubStatsStore{}, stubAdminStore{}, stubLedgerService{}, stubHubService{}, stubReconcileService{
		reconcileFn: func(_ context.Context, reason, actor string) (store.HubStateRecord, error) {
			if reason != "monthly audit" || actor != "profile-1" {
				t.Fatalf("unexpected args: %q %q", reason, actor)
			}
			return store.HubStateRecord{TotalSupply: 1100, CirculatingSupply: 900, ReserveSupply: 200, ValuePerUnit: "0.024"}, nil
		},
	})

	body := []byte(`{"reason":"monthly audit"}`)
	rr := serveAuthed(handler.ReconcileSupply, authedRequest(t, http.MethodPost, "/admin/hub/reconcile", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload["circulating_supply"] != float64(900) {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestVerifyConsistencyHandler(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{}, stubTransactionStore{}, stubHubStore{}, stubStatsStore{}, stubAdminStore{}, stubLedgerService{}, stubHubService{}, stubReconcileService{
		verifyFn: func(context.Context) (services.ConsistencyReport, error) {
			return services.ConsistencyReport{Consistent: false, Difference: 50}, nil
		},
	})

	rr := serveAuthed(handler.VerifyConsistency, authedRequest(t, http.MethodGet, "/admin/hub/verify", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload["consistent"] != false || payload["difference"] != float64(50) {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestStatsHandlerCombinesSources(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubProfileStore{}, stubBalanceStore{
		sumFn: func(context.Context) (int64, error) { return 600, nil },
	}, stubTransactionStore{}, stubHubStore{
		getFn: func(context.Context) (store.HubStateRecord, error) {
			return store.HubStateRecord{CirculatingSupply: 600, ValuePerUnit: "0.024"}, nil
		},
	}, stubStatsStore{
		totalsFn: func(context.Context) ([]store.TypeStat, error) {
			return []store.TypeStat{
				{Type: "BUY", Count: 3, Total: 900},
				{Type: "SELL", Count: 1, Total: -200},
			}, nil
		},
	}, stubAdminStore{}, stubLedgerService{}, stubHubService{}, stubReconcileService{})

	rr := serveAuthed(handler.Stats, authedRequest(t, http.MethodGet, "/admin/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload["total_bought"] != float64(900) || payload["total_sold"] != float64(200) {
		t.Fatalf("unexpected payload: %#v", payload)
	}
	if payload["computed_circulating"] != float64(600) || payload["hub_circulating"] != float64(600) {
		t.Fatalf("unexpected circulation cross-check: %#v", payload)
	}
}
