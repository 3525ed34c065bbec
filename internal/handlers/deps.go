package handlers

import (
	"context"

	"mypts/internal/services"
	"mypts/internal/store"

	"github.com/shopspring/decimal"
)

type ProfileStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (map[string]any, error)
	GetByUsername(ctx context.Context, username string) (map[string]any, error)
	GetByID(ctx context.Context, profileID string) (map[string]any, error)
}

type BalanceStore interface {
	GetByProfile(ctx context.Context, profileID string) (store.BalanceRecord, error)
	Sum(ctx context.Context) (int64, error)
}

type TransactionStore interface {
	ListByProfile(ctx context.Context, profileID, txType string, limit, offset int) ([]map[string]any, error)
	ListAll(ctx context.Context, limit, offset int) ([]map[string]any, error)
	GetByID(ctx context.Context, transactionID string) (map[string]any, error)
}

type HubStore interface {
	Get(ctx context.Context) (store.HubStateRecord, error)
	ListLogs(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type StatsStore interface {
	TotalsByType(ctx context.Context) ([]store.TypeStat, error)
	MonthlySeries(ctx context.Context) ([]store.MonthlyStat, error)
}

type AdminStore interface {
	IsAdmin(ctx context.Context, profileID string) (bool, bool, error)
	HasRole(ctx context.Context, profileID, role string) (bool, error)
	CreateAdmin(ctx context.Context, tx store.Execer, profileID string, isSuper bool, createdBy *string) error
	GrantRole(ctx context.Context, tx store.Execer, adminProfileID, role string) error
	HasAnyAdmin(ctx context.Context) (bool, error)
}

type LedgerService interface {
	Buy(ctx context.Context, req services.BuyRequest) (services.OperationResult, error)
	Sell(ctx context.Context, req services.SellRequest) (services.OperationResult, error)
	Withdraw(ctx context.Context, req services.WithdrawRequest) (services.OperationResult, error)
	Earn(ctx context.Context, req services.EarnRequest) (services.OperationResult, error)
	Award(ctx context.Context, req services.AwardRequest) (services.OperationResult, error)
	Donate(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
	PurchaseProduct(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
}

type HubService interface {
	GetState(ctx context.Context) (store.HubStateRecord, error)
	Issue(ctx context.Context, amount int64, reason string, actor *string) (store.HubStateRecord, error)
	MoveToCirculation(ctx context.Context, amount int64, reason string, actor *string, linkedTransactionID *string) (store.HubStateRecord, error)
	MoveToReserve(ctx context.Context, amount int64, reason string, actor *string, linkedTransactionID *string) (store.HubStateRecord, error)
	AdjustMaxSupply(ctx context.Context, newMax *int64, reason string, actor *string) (store.HubStateRecord, error)
	UpdateValuePerUnit(ctx context.Context, value decimal.Decimal) (store.HubStateRecord, error)
}

type ReconcileService interface {
	VerifyConsistency(ctx context.Context) (services.ConsistencyReport, error)
	ReconcileSupply(ctx context.Context, reason string, actor string) (store.HubStateRecord, error)
}
