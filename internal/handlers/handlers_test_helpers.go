package handlers

import (
	"context"
	"time"

	"mypts/internal/config"
	"mypts/internal/services"
	"mypts/internal/store"
	"mypts/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubProfileStore struct {
	createFn        func(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error
	getByEmailFn    func(ctx context.Context, email string) (map[string]any, error)
	getByUsernameFn func(ctx context.Context, username string) (map[string]any, error)
	getByIDFn       func(ctx context.Context, profileID string) (map[string]any, error)
}

func (s stubProfileStore) Create(ctx context.Context, tx store.Execer, id, username, email, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, passwordHash)
}

func (s stubProfileStore) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	if s.getByEmailFn == nil {
		return nil, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubProfileStore) GetByUsername(ctx context.Context, username string) (map[string]any, error) {
	if s.getByUsernameFn == nil {
		return nil, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubProfileStore) GetByID(ctx context.Context, profileID string) (map[string]any, error) {
	if s.getByIDFn == nil {
		return nil, nil
	}
	return s.getByIDFn(ctx, profileID)
}

type stubBalanceStore struct {
	getByProfileFn func(ctx context.Context, profileID string) (store.BalanceRecord, error)
	sumFn          func(ctx context.Context) (int64, error)
}

func (s stubBalanceStore) GetByProfile(ctx context.Context, profileID string) (store.BalanceRecord, error) {
	if s.getByProfileFn == nil {
		return store.BalanceRecord{}, nil
	}
	return s.getByProfileFn(ctx, profileID)
}

func (s stubBalanceStore) Sum(ctx context.Context) (int64, error) {
	if s.sumFn == nil {
		return 0, nil
	}
	return s.sumFn(ctx)
}

type stubTransactionStore struct {
	listByProfileFn func(ctx context.Context, profileID, txType string, limit, offset int) ([]map[string]any, error)
	listAllFn       func(ctx context.Context, limit, offset int) ([]map[string]any, error)
	getByIDFn       func(ctx context.Context, transactionID string) (map[string]any, error)
}

func (s stubTransactionStore) ListByProfile(ctx context.Context, profileID, txType string, limit, offset int) ([]map[string]any, error) {
	if s.listByProfileFn == nil {
		return nil, nil
	}
	return s.listByProfileFn(ctx, profileID, txType, limit, offset)
}

func (s stubTransactionStore) ListAll(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

func (s stubTransactionStore) GetByID(ctx context.Context, transactionID string) (map[string]any, error) {
	if s.getByIDFn == nil {
		return nil, nil
	}
	return s.getByIDFn(ctx, transactionID)
}

type stubHubStore struct {
	getFn      func(ctx context.Context) (store.HubStateRecord, error)
	listLogsFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubHubStore) Get(ctx context.Context) (store.HubStateRecord, error) {
	if s.getFn == nil {
		return store.HubStateRecord{ValuePerUnit: "0.024"}, nil
	}
	return s.getFn(ctx)
}

func (s stubHubStore) ListLogs(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listLogsFn == nil {
		return nil, nil
	}
	return s.listLogsFn(ctx, limit, offset)
}

type stubStatsStore struct {
	totalsFn  func(ctx context.Context) ([]store.TypeStat, error)
	monthlyFn func(ctx context.Context) ([]store.MonthlyStat, error)
}

func (s stubStatsStore) TotalsByType(ctx context.Context) ([]store.TypeStat, error) {
	if s.totalsFn == nil {
		return nil, nil
	}
	return s.totalsFn(ctx)
}

func (s stubStatsStore) MonthlySeries(ctx context.Context) ([]store.MonthlyStat, error) {
	if s.monthlyFn == nil {
		return nil, nil
	}
	return s.monthlyFn(ctx)
}

type stubAdminStore struct {
	isAdminFn     func(ctx context.Context, profileID string) (bool, bool, error)
	hasRoleFn     func(ctx context.Context, profileID, role string) (bool, error)
	createAdminFn func(ctx context.Context, tx store.Execer, profileID string, isSuper bool, createdBy *string) error
	grantRoleFn   func(ctx context.Context, tx store.Execer, adminProfileID, role string) error
	hasAnyAdminFn func(ctx context.Context) (bool, error)
}

func (s stubAdminStore) IsAdmin(ctx context.Context, profileID string) (bool, bool, error) {
	if s.isAdminFn == nil {
		return false, false, nil
	}
	return s.isAdminFn(ctx, profileID)
}

func (s stubAdminStore) HasRole(ctx context.Context, profileID, role string) (bool, error) {
	if s.hasRoleFn == nil {
		return false, nil
	}
	return s.hasRoleFn(ctx, profileID, role)
}

func (s stubAdminStore) CreateAdmin(ctx context.Context, tx store.Execer, profileID string, isSuper bool, createdBy *string) error {
	if s.createAdminFn == nil {
		return nil
	}
	return s.createAdminFn(ctx, tx, profileID, isSuper, createdBy)
}

func (s stubAdminStore) GrantRole(ctx context.Context, tx store.Execer, adminProfileID, role string) error {
	if s.grantRoleFn == nil {
		return nil
	}
	return s.grantRoleFn(ctx, tx, adminProfileID, role)
}

func (s stubAdminStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	if s.hasAnyAdminFn == nil {
		return true, nil
	}
	return s.hasAnyAdminFn(ctx)
}

type stubLedgerService struct {
	buyFn      func(ctx context.Context, req services.BuyRequest) (services.OperationResult, error)
	sellFn     func(ctx context.Context, req services.SellRequest) (services.OperationResult, error)
	withdrawFn func(ctx context.Context, req services.WithdrawRequest) (services.OperationResult, error)
	earnFn     func(ctx context.Context, req services.EarnRequest) (services.OperationResult, error)
	awardFn    func(ctx context.Context, req services.AwardRequest) (services.OperationResult, error)
	donateFn   func(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
	purchaseFn func(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
}

func (s stubLedgerService) Buy(ctx context.Context, req services.BuyRequest) (services.OperationResult, error) {
	return s.buyFn(ctx, req)
}

func (s stubLedgerService) Sell(ctx context.Context, req services.SellRequest) (services.OperationResult, error) {
	return s.sellFn(ctx, req)
}

func (s stubLedgerService) Withdraw(ctx context.Context, req services.WithdrawRequest) (services.OperationResult, error) {
	return s.withdrawFn(ctx, req)
}

func (s stubLedgerService) Earn(ctx context.Context, req services.EarnRequest) (services.OperationResult, error) {
	return s.earnFn(ctx, req)
}

func (s stubLedgerService) Award(ctx context.Context, req services.AwardRequest) (services.OperationResult, error) {
	return s.awardFn(ctx, req)
}

func (s stubLedgerService) Donate(ctx context.Context, req services.TransferRequest) (services.TransferResult, error) {
	return s.donateFn(ctx, req)
}

func (s stubLedgerService) PurchaseProduct(ctx context.Context, req services.TransferRequest) (services.TransferResult, error) {
	return s.purchaseFn(ctx, req)
}

type stubHubService struct {
	getStateFn          func(ctx context.Context) (store.HubStateRecord, error)
	issueFn             func(ctx context.Context, amount int64, reason string, actor *string) (store.HubStateRecord, error)
	moveToCirculationFn func(ctx context.Context, amount int64, reason string, actor *string, linked *string) (store.HubStateRecord, error)
	moveToReserveFn     func(ctx context.Context, amount int64, reason string, actor *string, linked *string) (store.HubStateRecord, error)
	adjustMaxSupplyFn   func(ctx context.Context, newMax *int64, reason string, actor *string) (store.HubStateRecord, error)
	updateValueFn       func(ctx context.Context, value decimal.Decimal) (store.HubStateRecord, error)
}

func (s stubHubService) GetState(ctx context.Context) (store.HubStateRecord, error) {
	if s.getStateFn == nil {
		return store.HubStateRecord{ValuePerUnit: "0.024"}, nil
	}
	return s.getStateFn(ctx)
}

func (s stubHubService) Issue(ctx context.Context, amount int64, reason string, actor *string) (store.HubStateRecord, error) {
	return s.issueFn(ctx, amount, reason, actor)
}

func (s stubHubService) MoveToCirculation(ctx context.Context, amount int64, reason string, actor *string, linked *string) (store.HubStateRecord, error) {
	return s.moveToCirculationFn(ctx, amount, reason, actor, linked)
}

func (s stubHubService) MoveToReserve(ctx context.Context, amount int64, reason string, actor *string, linked *string) (store.HubStateRecord, error) {
	return s.moveToReserveFn(ctx, amount, reason, actor, linked)
}

func (s stubHubService) AdjustMaxSupply(ctx context.Context, newMax *int64, reason string, actor *string) (store.HubStateRecord, error) {
	return s.adjustMaxSupplyFn(ctx, newMax, reason, actor)
}

func (s stubHubService) UpdateValuePerUnit(ctx context.Context, value decimal.Decimal) (store.HubStateRecord, error) {
	return s.updateValueFn(ctx, value)
}

type stubReconcileService struct {
	verifyFn    func(ctx context.Context) (services.ConsistencyReport, error)
	reconcileFn func(ctx context.Context, reason, actor string) (store.HubStateRecord, error)
}

func (s stubReconcileService) VerifyConsistency(ctx context.Context) (services.ConsistencyReport, error) {
	if s.verifyFn == nil {
		return services.ConsistencyReport{}, nil
	}
	return s.verifyFn(ctx)
}

func (s stubReconcileService) ReconcileSupply(ctx context.Context, reason string, actor string) (store.HubStateRecord, error) {
	return s.reconcileFn(ctx, reason, actor)
}

func newTestHandler(txRunner fakeTxRunner, profiles ProfileStore, balances BalanceStore, transactions TransactionStore, hubStore HubStore, stats StatsStore, admin AdminStore, ledger LedgerService, hubService HubService, reconciler ReconcileService) *Handler {
	cfg := config.Config{JWTSecret: "secret", TokenTTL: time.Hour, AllowedOrigins: "*"}
	return New(txRunner, cfg, profiles, balances, transactions, hubStore, stats, admin, ledger, hubService, reconciler, nil, websocket.NewHub())
}
