package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestTransactionStoreCreate(t *testing.T) {
	ctx := context.Background()
	ref := "booking-7"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO transactions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 8 {
				t.Fatalf("expected 8 args, got %d", len(args))
			}
			if args[0] != "tx-1" || args[2] != "EARN" || args[3] != int64(100) || args[4] != int64(250) {
				t.Fatalf("unexpected args: %#v", args)
			}
			ptr, ok := args[7].(*string)
			if !ok || ptr == nil || *ptr != "booking-7" {
				t.Fatalf("unexpected reference arg: %#v", args[7])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTransactionStore(stubDB{})
	err := store.Create(ctx, execer, TransactionInput{
		ID: "tx-1", ProfileID: "p1", Type: "EARN", Amount: 100, BalanceAfter: 250,
		Description: "Earned 100 MyPts for referral", Metadata: "{}", ReferenceID: &ref,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactionStoreLinkRelated(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET related_transaction_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "tx-2" || args[1] != "tx-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTransactionStore(stubDB{})
	if err := store.LinkRelated(ctx, execer, "tx-1", "tx-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactionStoreAttachHubLog(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET hub_log_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "log-1" || args[1] != "tx-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewTransactionStore(stubDB{})
	if err := store.AttachHubLog(ctx, execer, "tx-1", "log-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransactionStoreHasEarnReference(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE profile_id = $1 AND type = $2 AND reference_id = $3") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 3 || args[0] != "p1" || args[1] != "EARN" || args[2] != "ref-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*int) = 1
			return nil
		},
	})
	found, err := store.HasEarnReference(ctx, "p1", "EARN", "ref-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatalf("expected reference to be found")
	}
}

func TestTransactionStoreListByProfile(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE profile_id = $1") || strings.Contains(query, "AND type") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "LIMIT $2 OFFSET $3") {
				t.Fatalf("unexpected pagination: %s", query)
			}
			if len(args) != 3 || args[0] != "p1" || args[1] != 20 || args[2] != 0 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]transactionRow) = []transactionRow{{ID: "tx-1", Type: "BUY", Amount: 100}}
			return nil
		},
	})
	rows, err := store.ListByProfile(ctx, "p1", "", 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0]["id"] != "tx-1" || rows[0]["related_transaction_id"] != "" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}

func TestTransactionStoreListByProfileWithType(t *testing.T) {
	ctx := context.Background()
	store := NewTransactionStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "AND type = $2") || !strings.Contains(query, "LIMIT $3 OFFSET $4") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[1] != "SELL" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.ListByProfile(ctx, "p1", "SELL", 10, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
