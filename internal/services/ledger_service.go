package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mypts/internal/models"
	"mypts/internal/store"
	"mypts/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrInsufficientReserve     = errors.New("insufficient reserve supply")
	ErrInsufficientCirculation = errors.New("insufficient circulating supply")
	ErrSupplyCeilingExceeded   = errors.New("supply ceiling exceeded")
	ErrInvalidSupplyAdjustment = errors.New("invalid supply adjustment")
	ErrSelfTransfer            = errors.New("cannot transfer to own profile")
	ErrRecipientNotFound       = errors.New("recipient profile not found")
	ErrAlreadyRewarded         = errors.New("activity already rewarded")
	ErrProfileNotFound         = errors.New("profile not found")
	ErrInvalidActivityType     = errors.New("invalid activity type")
	ErrTransactionTimeout      = errors.New("transaction timed out")
	ErrStorageFailure          = errors.New("storage failure")
)

type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

type BalanceStore interface {
	GetByProfile(ctx context.Context, profileID string) (store.BalanceRecord, error)
	GetForUpdate(ctx context.Context, tx store.Getter, profileID string) (store.BalanceRecord, error)
	FindOrCreateForUpdate(ctx context.Context, tx store.Tx, profileID string) (store.BalanceRecord, error)
	ApplyCredit(ctx context.Context, tx store.Execer, profileID string, amount int64, at time.Time) error
	ApplyDebit(ctx context.Context, tx store.Execer, profileID string, amount int64, at time.Time) error
	Sum(ctx context.Context) (int64, error)
	SumTx(ctx context.Context, q store.Getter) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	LinkRelated(ctx context.Context, tx store.Execer, transactionID, relatedID string) error
	AttachHubLog(ctx context.Context, tx store.Execer, transactionID, hubLogID string) error
	HasEarnReference(ctx context.Context, profileID, txType, referenceID string) (bool, error)
}

type HubStore interface {
	Get(ctx context.Context) (store.HubStateRecord, error)
	GetForUpdate(ctx context.Context, tx store.Getter) (store.HubStateRecord, error)
	UpdateSupply(ctx context.Context, tx store.Execer, total, circulating, reserve int64) error
	UpdateMaxSupply(ctx context.Context, tx store.Execer, maxSupply *int64) error
	UpdateValuePerUnit(ctx context.Context, tx store.Execer, value string) error
	InsertLog(ctx context.Context, tx store.Execer, input store.HubSupplyLogInput) error
}

type ProfileStore interface {
	Exists(ctx context.Context, profileID string) (bool, error)
	RefreshBalanceCache(ctx context.Context, tx store.Execer, profileID string, balance int64) error
}

type BalanceHub interface {
	BroadcastBalance(profileID string, update websocket.BalanceUpdate)
}

// QuickCache mirrors committed balances into a fast read path. Best-effort;
// implementations must never fail the ledger operation.
type QuickCache interface {
	Set(ctx context.Context, profileID string, balance int64)
}

// Activity is one entry of the earn catalog. OneTime activities are rewarded
// at most once per (profile, reference) pair.
type Activity struct {
	Reward  int64
	OneTime bool
}

var activityCatalog = map[string]Activity{
	"daily_login":        {Reward: 10},
	"share_content":      {Reward: 5},
	"profile_completion": {Reward: 25, OneTime: true},
	"connect_profile":    {Reward: 15, OneTime: true},
	"referral":           {Reward: 100, OneTime: true},
}

type LedgerService struct {
	txRunner     TxRunner
	balances     BalanceStore
	transactions TransactionStore
	hubStore     HubStore
	profiles     ProfileStore
	cache        QuickCache
	hub          BalanceHub
}

func NewLedgerService(txRunner TxRunner, balances BalanceStore, transactions TransactionStore, hubStore HubStore, profiles ProfileStore, cache QuickCache, hub BalanceHub) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		balances:     balances,
		transactions: transactions,
		hubStore:     hubStore,
		profiles:     profiles,
		cache:        cache,
		hub:          hub,
	}
}

type OperationResult struct {
	TransactionID  string
	Type           string
	Amount         int64
	NewBalance     int64
	LifetimeEarned int64
	LifetimeSpent  int64
	HubLogID       string
}

type TransferResult struct {
	SenderTransactionID    string
	RecipientTransactionID string
	Type                   string
	Amount                 int64
	NewBalance             int64
	RecipientBalance       int64
}

type BuyRequest struct {
	ProfileID     string
	Amount        int64
	PaymentMethod string
	PaymentID     *string
}

func (s *LedgerService) Buy(ctx context.Context, req BuyRequest) (OperationResult, error) {
	if req.Amount <= 0 {
		return OperationResult{}, ErrInvalidAmount
	}
	metadata := map[string]string{"payment_method": req.PaymentMethod}
	if req.PaymentID != nil {
		metadata["payment_id"] = *req.PaymentID
	}
	result, err := s.creditFromHub(ctx, hubCredit{
		ProfileID:   req.ProfileID,
		Amount:      req.Amount,
		Type:        models.TxTypeBuy,
		Description: fmt.Sprintf("Bought %d MyPts via %s", req.Amount, req.PaymentMethod),
		Metadata:    metadata,
		Reason:      "points purchase",
	})
	if err != nil {
		return OperationResult{}, wrapTxError(err)
	}
	s.afterCommit(ctx, req.ProfileID, result)
	return result, nil
}

type SellRequest struct {
	ProfileID      string
	Amount         int64
	PaymentMethod  string
	AccountDetails string
}

func (s *LedgerService) Sell(ctx context.Context, req SellRequest) (OperationResult, error) {
	if req.Amount <= 0 {
		return OperationResult{}, ErrInvalidAmount
	}
	metadata := map[string]string{
		"payment_method":  req.PaymentMethod,
		"account_details": req.AccountDetails,
	}
	result, err := s.debitToHub(ctx, hubDebit{
		ProfileID:   req.ProfileID,
		Amount:      req.Amount,
		Type:        models.TxTypeSell,
		Description: fmt.Sprintf("Sold %d MyPts via %s", req.Amount, req.PaymentMethod),
		Metadata:    metadata,
		Reason:      "points sale",
	})
	if err != nil {
		return OperationResult{}, wrapTxError(err)
	}
	s.afterCommit(ctx, req.ProfileID, result)
	return result, nil
}

type WithdrawRequest struct {
	ProfileID string
	Amount    int64
	Reason    string
}

func (s *LedgerService) Withdraw(ctx context.Context, req WithdrawRequest) (OperationResult, error) {
	if req.Amount <= 0 {
		return OperationResult{}, ErrInvalidAmount
	}
	description := fmt.Sprintf("Withdrew %d MyPts", req.Amount)
	metadata := map[string]string{}
	if req.Reason != "" {
		metadata["reason"] = req.Reason
	}
	result, err := s.debitToHub(ctx, hubDebit{
		ProfileID:   req.ProfileID,
		Amount:      req.Amount,
		Type:        models.TxTypeWithdraw,
		Description: description,
		Metadata:    metadata,
		Reason:      "points withdrawal",
	})
	if err != nil {
		return OperationResult{}, wrapTxError(err)
	}
	s.afterCommit(ctx, req.ProfileID, result)
	return result, nil
}

type EarnRequest struct {
	ProfileID    string
	ActivityType string
	ReferenceID  *string
}

func (s *LedgerService) Earn(ctx context.Context, req EarnRequest) (OperationResult, error) {
	activity, ok := activityCatalog[req.ActivityType]
	if !ok {
		return OperationResult{}, ErrInvalidActivityType
	}
	reference := req.ReferenceID
	if activity.OneTime && reference == nil {
		// one-shot activities without an external reference key on the
		// activity type itself
		activityType := req.ActivityType
		reference = &activityType
	}
	if reference != nil {
		rewarded, err := s.transactions.HasEarnReference(ctx, req.ProfileID, models.TxTypeEarn, *reference)
		if err != nil {
			return OperationResult{}, wrapTxError(err)
		}
		if rewarded {
			return OperationResult{}, ErrAlreadyRewarded
		}
	}
	metadata := map[string]string{"activity_type": req.ActivityType}
	if req.ReferenceID != nil {
		metadata["reference_id"] = *req.ReferenceID
	}
	var storedRef *string
	if activity.OneTime {
		storedRef = reference
	}
	result, err := s.creditFromHub(ctx, hubCredit{
		ProfileID:   req.ProfileID,
		Amount:      activity.Reward,
		Type:        models.TxTypeEarn,
		Description: fmt.Sprintf("Earned %d MyPts for %s", activity.Reward, req.ActivityType),
		Metadata:    metadata,
		ReferenceID: storedRef,
		Reason:      "activity reward: " + req.ActivityType,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return OperationResult{}, ErrAlreadyRewarded
		}
		return OperationResult{}, wrapTxError(err)
	}
	s.afterCommit(ctx, req.ProfileID, result)
	return result, nil
}

type AwardRequest struct {
	ProfileID string
	Amount    int64
	Reason    string
	AdminID   string
}

func (s *LedgerService) Award(ctx context.Context, req AwardRequest) (OperationResult, error) {
	if req.Amount <= 0 {
		return OperationResult{}, ErrInvalidAmount
	}
	exists, err := s.profiles.Exists(ctx, req.ProfileID)
	if err != nil {
		return OperationResult{}, wrapTxError(err)
	}
	if !exists {
		return OperationResult{}, ErrProfileNotFound
	}
	description := fmt.Sprintf("Awarded %d MyPts by admin", req.Amount)
	metadata := map[string]string{"awarded_by": req.AdminID}
	if req.Reason != "" {
		metadata["reason"] = req.Reason
	}
	reason := "admin award"
	if req.Reason != "" {
		reason = "admin award: " + req.Reason
	}
	result, err := s.creditFromHub(ctx, hubCredit{
		ProfileID:   req.ProfileID,
		Amount:      req.Amount,
		Type:        models.TxTypeAdjustment,
		Description: description,
		Metadata:    metadata,
		Actor:       &req.AdminID,
		Reason:      reason,
	})
	if err != nil {
		return OperationResult{}, wrapTxError(err)
	}
	s.afterCommit(ctx, req.ProfileID, result)
	return result, nil
}

type TransferRequest struct {
	ProfileID   string
	ToProfileID string
	Amount      int64
	Message     string
	ProductID   string
	ProductName string
}

func (s *LedgerService) Donate(ctx context.Context, req TransferRequest) (TransferResult, error) {
	description := fmt.Sprintf("Donated %d MyPts", req.Amount)
	metadata := map[string]string{}
	if req.Message != "" {
		metadata["message"] = req.Message
	}
	return s.transfer(ctx, req, models.TxTypeDonationSent, models.TxTypeDonationReceived, description, metadata)
}

func (s *LedgerService) PurchaseProduct(ctx context.Context, req TransferRequest) (TransferResult, error) {
	description := fmt.Sprintf("Purchased %s for %d MyPts", req.ProductName, req.Amount)
	metadata := map[string]string{
		"product_id":   req.ProductID,
		"product_name": req.ProductName,
	}
	return s.transfer(ctx, req, models.TxTypePurchaseProduct, models.TxTypeReceiveProductPayment, description, metadata)
}

// transfer moves points between two profiles without touching the hub: a debit
// plus credit and two mutually linked transaction rows, all in one unit of
// work. Balance rows are locked in ascending profile id order.
func (s *LedgerService) transfer(ctx context.Context, req TransferRequest, debitType, creditType, description string, metadata map[string]string) (TransferResult, error) {
	if req.Amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}
	if req.ProfileID == req.ToProfileID {
		return TransferResult{}, ErrSelfTransfer
	}
	exists, err := s.profiles.Exists(ctx, req.ToProfileID)
	if err != nil {
		return TransferResult{}, wrapTxError(err)
	}
	if !exists {
		return TransferResult{}, ErrRecipientNotFound
	}
	var result TransferResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		sender, recipient, err := s.lockTransferPair(ctx, tx, req.ProfileID, req.ToProfileID)
		if err != nil {
			return err
		}
		if sender.Balance < req.Amount {
			return ErrInsufficientBalance
		}
		if err := s.balances.ApplyDebit(ctx, tx, req.ProfileID, req.Amount, now); err != nil {
			return err
		}
		if err := s.balances.ApplyCredit(ctx, tx, req.ToProfileID, req.Amount, now); err != nil {
			return err
		}
		senderBalance := sender.Balance - req.Amount
		recipientBalance := recipient.Balance + req.Amount

		metadataJSON, _ := json.Marshal(metadata)
		senderTxID := uuid.NewString()
		recipientTxID := uuid.NewString()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           senderTxID,
			ProfileID:    req.ProfileID,
			Type:         debitType,
			Amount:       -req.Amount,
			BalanceAfter: senderBalance,
			Description:  description,
			Metadata:     string(metadataJSON),
		}); err != nil {
			return err
		}
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           recipientTxID,
			ProfileID:    req.ToProfileID,
			Type:         creditType,
			Amount:       req.Amount,
			BalanceAfter: recipientBalance,
			Description:  description,
			Metadata:     string(metadataJSON),
		}); err != nil {
			return err
		}
		// mutual back-reference: both rows exist, patch each with the other's id
		if err := s.transactions.LinkRelated(ctx, tx, senderTxID, recipientTxID); err != nil {
			return err
		}
		if err := s.transactions.LinkRelated(ctx, tx, recipientTxID, senderTxID); err != nil {
			return err
		}
		if err := s.profiles.RefreshBalanceCache(ctx, tx, req.ProfileID, senderBalance); err != nil {
			return err
		}
		if err := s.profiles.RefreshBalanceCache(ctx, tx, req.ToProfileID, recipientBalance); err != nil {
			return err
		}
		result = TransferResult{
			SenderTransactionID:    senderTxID,
			RecipientTransactionID: recipientTxID,
			Type:                   debitType,
			Amount:                 req.Amount,
			NewBalance:             senderBalance,
			RecipientBalance:       recipientBalance,
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, wrapTxError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, req.ProfileID, result.NewBalance)
		s.cache.Set(ctx, req.ToProfileID, result.RecipientBalance)
	}
	if s.hub != nil {
		s.hub.BroadcastBalance(req.ProfileID, websocket.BalanceUpdate{
			ProfileID:     req.ProfileID,
			Balance:       result.NewBalance,
			TransactionID: result.SenderTransactionID,
		})
		s.hub.BroadcastBalance(req.ToProfileID, websocket.BalanceUpdate{
			ProfileID:     req.ToProfileID,
			Balance:       result.RecipientBalance,
			TransactionID: result.RecipientTransactionID,
		})
	}
	return result, nil
}

// lockTransferPair locks both balance rows in ascending profile id order so
// concurrent opposing transfers cannot deadlock. The recipient row is created
// lazily; the sender's must already exist or the debit cannot be covered.
func (s *LedgerService) lockTransferPair(ctx context.Context, tx *sqlx.Tx, senderID, recipientID string) (store.BalanceRecord, store.BalanceRecord, error) {
	lock := func(profileID string) (store.BalanceRecord, error) {
		if profileID == senderID {
			record, err := s.balances.GetForUpdate(ctx, tx, profileID)
			if err != nil {
				if isNoRows(err) {
					return store.BalanceRecord{}, ErrInsufficientBalance
				}
				return store.BalanceRecord{}, err
			}
			return record, nil
		}
		return s.balances.FindOrCreateForUpdate(ctx, tx, profileID)
	}
	firstID, secondID := senderID, recipientID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := lock(firstID)
	if err != nil {
		return store.BalanceRecord{}, store.BalanceRecord{}, err
	}
	second, err := lock(secondID)
	if err != nil {
		return store.BalanceRecord{}, store.BalanceRecord{}, err
	}
	if firstID == senderID {
		return first, second, nil
	}
	return second, first, nil
}

type hubCredit struct {
	ProfileID   string
	Amount      int64
	Type        string
	Description string
	Metadata    map[string]string
	ReferenceID *string
	Actor       *string
	Reason      string
}

// creditFromHub credits a profile with points drawn from the hub reserve,
// auto-issuing the shortfall under the supply ceiling first. The hub row lock
// is held across the ceiling check and the reserve move, so concurrent credits
// to different profiles cannot both pass a check the other invalidates.
func (s *LedgerService) creditFromHub(ctx context.Context, req hubCredit) (OperationResult, error) {
	var result OperationResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		balance, err := s.balances.FindOrCreateForUpdate(ctx, tx, req.ProfileID)
		if err != nil {
			return err
		}
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		total := hub.TotalSupply
		circulating := hub.CirculatingSupply
		reserve := hub.ReserveSupply
		if reserve < req.Amount {
			shortfall := req.Amount - reserve
			if hub.MaxSupply != nil && total+shortfall > *hub.MaxSupply {
				return ErrSupplyCeilingExceeded
			}
			if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
				ID:                uuid.NewString(),
				Action:            models.HubActionIssue,
				Amount:            shortfall,
				ReserveBefore:     reserve,
				ReserveAfter:      reserve + shortfall,
				CirculatingBefore: circulating,
				CirculatingAfter:  circulating,
				TotalBefore:       total,
				TotalAfter:        total + shortfall,
				Reason:            "auto-issue to cover " + req.Reason,
				PerformedBy:       req.Actor,
			}); err != nil {
				return err
			}
			reserve += shortfall
			total += shortfall
		}

		newBalance := balance.Balance + req.Amount
		if err := s.balances.ApplyCredit(ctx, tx, req.ProfileID, req.Amount, now); err != nil {
			return err
		}
		metadataJSON, _ := json.Marshal(req.Metadata)
		transactionID := uuid.NewString()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           transactionID,
			ProfileID:    req.ProfileID,
			Type:         req.Type,
			Amount:       req.Amount,
			BalanceAfter: newBalance,
			Description:  req.Description,
			Metadata:     string(metadataJSON),
			ReferenceID:  req.ReferenceID,
		}); err != nil {
			return err
		}
		moveLogID := uuid.NewString()
		if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
			ID:                  moveLogID,
			Action:              models.HubActionMoveToCirculation,
			Amount:              req.Amount,
			ReserveBefore:       reserve,
			ReserveAfter:        reserve - req.Amount,
			CirculatingBefore:   circulating,
			CirculatingAfter:    circulating + req.Amount,
			TotalBefore:         total,
			TotalAfter:          total,
			Reason:              req.Reason,
			PerformedBy:         req.Actor,
			LinkedTransactionID: &transactionID,
		}); err != nil {
			return err
		}
		if err := s.hubStore.UpdateSupply(ctx, tx, total, circulating+req.Amount, reserve-req.Amount); err != nil {
			return err
		}
		if err := s.transactions.AttachHubLog(ctx, tx, transactionID, moveLogID); err != nil {
			return err
		}
		if err := s.profiles.RefreshBalanceCache(ctx, tx, req.ProfileID, newBalance); err != nil {
			return err
		}
		result = OperationResult{
			TransactionID:  transactionID,
			Type:           req.Type,
			Amount:         req.Amount,
			NewBalance:     newBalance,
			LifetimeEarned: balance.LifetimeEarned + req.Amount,
			LifetimeSpent:  balance.LifetimeSpent,
			HubLogID:       moveLogID,
		}
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}
	return result, nil
}

type hubDebit struct {
	ProfileID   string
	Amount      int64
	Type        string
	Description string
	Metadata    map[string]string
	Reason      string
}

// debitToHub debits a profile and returns the points to the hub reserve.
func (s *LedgerService) debitToHub(ctx context.Context, req hubDebit) (OperationResult, error) {
	var result OperationResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		balance, err := s.balances.GetForUpdate(ctx, tx, req.ProfileID)
		if err != nil {
			if isNoRows(err) {
				return ErrInsufficientBalance
			}
			return err
		}
		if balance.Balance < req.Amount {
			return ErrInsufficientBalance
		}
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if hub.CirculatingSupply < req.Amount {
			return ErrInsufficientCirculation
		}
		newBalance := balance.Balance - req.Amount
		if err := s.balances.ApplyDebit(ctx, tx, req.ProfileID, req.Amount, now); err != nil {
			return err
		}
		metadataJSON, _ := json.Marshal(req.Metadata)
		transactionID := uuid.NewString()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           transactionID,
			ProfileID:    req.ProfileID,
			Type:         req.Type,
			Amount:       -req.Amount,
			BalanceAfter: newBalance,
			Description:  req.Description,
			Metadata:     string(metadataJSON),
		}); err != nil {
			return err
		}
		moveLogID := uuid.NewString()
		if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
			ID:                  moveLogID,
			Action:              models.HubActionMoveToReserve,
			Amount:              req.Amount,
			ReserveBefore:       hub.ReserveSupply,
			ReserveAfter:        hub.ReserveSupply + req.Amount,
			CirculatingBefore:   hub.CirculatingSupply,
			CirculatingAfter:    hub.CirculatingSupply - req.Amount,
			TotalBefore:         hub.TotalSupply,
			TotalAfter:          hub.TotalSupply,
			Reason:              req.Reason,
			LinkedTransactionID: &transactionID,
		}); err != nil {
			return err
		}
		if err := s.hubStore.UpdateSupply(ctx, tx, hub.TotalSupply, hub.CirculatingSupply-req.Amount, hub.ReserveSupply+req.Amount); err != nil {
			return err
		}
		if err := s.transactions.AttachHubLog(ctx, tx, transactionID, moveLogID); err != nil {
			return err
		}
		if err := s.profiles.RefreshBalanceCache(ctx, tx, req.ProfileID, newBalance); err != nil {
			return err
		}
		result = OperationResult{
			TransactionID:  transactionID,
			Type:           req.Type,
			Amount:         -req.Amount,
			NewBalance:     newBalance,
			LifetimeEarned: balance.LifetimeEarned,
			LifetimeSpent:  balance.LifetimeSpent + req.Amount,
			HubLogID:       moveLogID,
		}
		return nil
	})
	if err != nil {
		return OperationResult{}, err
	}
	return result, nil
}

func (s *LedgerService) afterCommit(ctx context.Context, profileID string, result OperationResult) {
	if s.cache != nil {
		s.cache.Set(ctx, profileID, result.NewBalance)
	}
	if s.hub != nil {
		s.hub.BroadcastBalance(profileID, websocket.BalanceUpdate{
			ProfileID:      profileID,
			Balance:        result.NewBalance,
			LifetimeEarned: result.LifetimeEarned,
			LifetimeSpent:  result.LifetimeSpent,
			TransactionID:  result.TransactionID,
		})
	}
}

var sentinelErrors = []error{
	ErrInvalidAmount,
	ErrInsufficientBalance,
	ErrInsufficientReserve,
	ErrInsufficientCirculation,
	ErrSupplyCeilingExceeded,
	ErrInvalidSupplyAdjustment,
	ErrSelfTransfer,
	ErrRecipientNotFound,
	ErrAlreadyRewarded,
	ErrProfileNotFound,
	ErrInvalidActivityType,
}

// wrapTxError maps storage-level failures onto the service error taxonomy.
// Typed precondition errors pass through untouched; a deadline expiry becomes
// ErrTransactionTimeout; anything else is a storage failure. Both of the
// latter are safe for callers to retry.
func wrapTxError(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range sentinelErrors {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTransactionTimeout
	}
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
