package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestProfileStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO profiles") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "p1" || args[1] != "alice" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewProfileStore(stubDB{})
	if err := store.Create(ctx, execer, "p1", "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProfileStoreGetByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE email = $1") || !strings.Contains(query, "password_hash") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*profileRow) = profileRow{ID: "p1", Username: "alice", PasswordHash: "hash", MyPtsBalance: 120}
			return nil
		},
	})
	row, err := store.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row["id"] != "p1" || row["password_hash"] != "hash" || row["mypts_balance"] != int64(120) {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestProfileStoreExists(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "COUNT(1)") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*int) = 0
			return nil
		},
	})
	exists, err := store.Exists(ctx, "ghost")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatalf("expected profile to be missing")
	}
}

func TestProfileStoreRefreshBalanceCache(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "SET mypts_balance = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != int64(300) || args[1] != "p1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewProfileStore(stubDB{})
	if err := store.RefreshBalanceCache(ctx, execer, "p1", 300); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
