package services

import (
	"context"

	"mypts/internal/models"
	"mypts/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// HubService owns the supply side of the ledger: issuance against the ceiling
// and reserve/circulation moves. Every mutation locks the singleton hub row
// and appends exactly one supply log row with full before/after snapshots.
type HubService struct {
	txRunner TxRunner
	hubStore HubStore
}

func NewHubService(txRunner TxRunner, hubStore HubStore) *HubService {
	return &HubService{txRunner: txRunner, hubStore: hubStore}
}

func (s *HubService) GetState(ctx context.Context) (store.HubStateRecord, error) {
	state, err := s.hubStore.Get(ctx)
	if err != nil {
		return store.HubStateRecord{}, wrapTxError(err)
	}
	return state, nil
}

// Issue mints new supply into the reserve, bounded by maxSupply when set.
func (s *HubService) Issue(ctx context.Context, amount int64, reason string, actor *string) (store.HubStateRecord, error) {
	if amount <= 0 {
		return store.HubStateRecord{}, ErrInvalidAmount
	}
	var updated store.HubStateRecord
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if hub.MaxSupply != nil && hub.TotalSupply+amount > *hub.MaxSupply {
			return ErrSupplyCeilingExceeded
		}
		newTotal := hub.TotalSupply + amount
		newReserve := hub.ReserveSupply + amount
		if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
			ID:                uuid.NewString(),
			Action:            models.HubActionIssue,
			Amount:            amount,
			ReserveBefore:     hub.ReserveSupply,
			ReserveAfter:      newReserve,
			CirculatingBefore: hub.CirculatingSupply,
			CirculatingAfter:  hub.CirculatingSupply,
			TotalBefore:       hub.TotalSupply,
			TotalAfter:        newTotal,
			Reason:            reason,
			PerformedBy:       actor,
		}); err != nil {
			return err
		}
		if err := s.hubStore.UpdateSupply(ctx, tx, newTotal, hub.CirculatingSupply, newReserve); err != nil {
			return err
		}
		updated = hub
		updated.TotalSupply = newTotal
		updated.ReserveSupply = newReserve
		return nil
	})
	if err != nil {
		return store.HubStateRecord{}, wrapTxError(err)
	}
	return updated, nil
}

// MoveToCirculation shifts reserve into circulation; total supply unchanged.
func (s *HubService) MoveToCirculation(ctx context.Context, amount int64, reason string, actor *string, linkedTransactionID *string) (store.HubStateRecord, error) {
	if amount <= 0 {
		return store.HubStateRecord{}, ErrInvalidAmount
	}
	var updated store.HubStateRecord
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if hub.ReserveSupply < amount {
			return ErrInsufficientReserve
		}
		newCirculating := hub.CirculatingSupply + amount
		newReserve := hub.ReserveSupply - amount
		if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
			ID:                  uuid.NewString(),
			Action:              models.HubActionMoveToCirculation,
			Amount:              amount,
			ReserveBefore:       hub.ReserveSupply,
			ReserveAfter:        newReserve,
			CirculatingBefore:   hub.CirculatingSupply,
			CirculatingAfter:    newCirculating,
			TotalBefore:         hub.TotalSupply,
			TotalAfter:          hub.TotalSupply,
			Reason:              reason,
			PerformedBy:         actor,
			LinkedTransactionID: linkedTransactionID,
		}); err != nil {
			return err
		}
		if err := s.hubStore.UpdateSupply(ctx, tx, hub.TotalSupply, newCirculating, newReserve); err != nil {
			return err
		}
		updated = hub
		updated.CirculatingSupply = newCirculating
		updated.ReserveSupply = newReserve
		return nil
	})
	if err != nil {
		return store.HubStateRecord{}, wrapTxError(err)
	}
	return updated, nil
}

// MoveToReserve shifts circulation back into reserve; total supply unchanged.
func (s *HubService) MoveToReserve(ctx context.Context, amount int64, reason string, actor *string, linkedTransactionID *string) (store.HubStateRecord, error) {
	if amount <= 0 {
		return store.HubStateRecord{}, ErrInvalidAmount
	}
	var updated store.HubStateRecord
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if hub.CirculatingSupply < amount {
			return ErrInsufficientCirculation
		}
		newCirculating := hub.CirculatingSupply - amount
		newReserve := hub.ReserveSupply + amount
		if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
			ID:                  uuid.NewString(),
			Action:              models.HubActionMoveToReserve,
			Amount:              amount,
			ReserveBefore:       hub.ReserveSupply,
			ReserveAfter:        newReserve,
			CirculatingBefore:   hub.CirculatingSupply,
			CirculatingAfter:    newCirculating,
			TotalBefore:         hub.TotalSupply,
			TotalAfter:          hub.TotalSupply,
			Reason:              reason,
			PerformedBy:         actor,
			LinkedTransactionID: linkedTransactionID,
		}); err != nil {
			return err
		}
		if err := s.hubStore.UpdateSupply(ctx, tx, hub.TotalSupply, newCirculating, newReserve); err != nil {
			return err
		}
		updated = hub
		updated.CirculatingSupply = newCirculating
		updated.ReserveSupply = newReserve
		return nil
	})
	if err != nil {
		return store.HubStateRecord{}, wrapTxError(err)
	}
	return updated, nil
}

// AdjustMaxSupply raises, lowers, or clears the ceiling. Lowering below the
// current total supply is rejected.
func (s *HubService) AdjustMaxSupply(ctx context.Context, newMax *int64, reason string, actor *string) (store.HubStateRecord, error) {
	if newMax != nil && *newMax < 0 {
		return store.HubStateRecord{}, ErrInvalidSupplyAdjustment
	}
	var updated store.HubStateRecord
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if newMax != nil && *newMax < hub.TotalSupply {
			return ErrInvalidSupplyAdjustment
		}
		logAmount := int64(0)
		if newMax != nil {
			logAmount = *newMax
		}
		if err := s.hubStore.InsertLog(ctx, tx, store.HubSupplyLogInput{
			ID:                uuid.NewString(),
			Action:            models.HubActionAdjustMaxSupply,
			Amount:            logAmount,
			ReserveBefore:     hub.ReserveSupply,
			ReserveAfter:      hub.ReserveSupply,
			CirculatingBefore: hub.CirculatingSupply,
			CirculatingAfter:  hub.CirculatingSupply,
			TotalBefore:       hub.TotalSupply,
			TotalAfter:        hub.TotalSupply,
			Reason:            reason,
			PerformedBy:       actor,
		}); err != nil {
			return err
		}
		if err := s.hubStore.UpdateMaxSupply(ctx, tx, newMax); err != nil {
			return err
		}
		updated = hub
		updated.MaxSupply = newMax
		return nil
	})
	if err != nil {
		return store.HubStateRecord{}, wrapTxError(err)
	}
	return updated, nil
}

// UpdateValuePerUnit changes the per-unit valuation. No pools move, so no
// supply log row is written.
func (s *HubService) UpdateValuePerUnit(ctx context.Context, value decimal.Decimal) (store.HubStateRecord, error) {
	if value.LessThanOrEqual(decimal.Zero) {
		return store.HubStateRecord{}, ErrInvalidAmount
	}
	var updated store.HubStateRecord
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		hub, err := s.hubStore.GetForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if err := s.hubStore.UpdateValuePerUnit(ctx, tx, value.String()); err != nil {
			return err
		}
		updated = hub
		updated.ValuePerUnit = value.String()
		return nil
	})
	if err != nil {
		return store.HubStateRecord{}, wrapTxError(err)
	}
	return updated, nil
}
