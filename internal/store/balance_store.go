package store

import (
	"context"
	"time"
)

type BalanceStore struct {
	db DB
}

type BalanceRecord struct {
	ProfileID         string     `db:"profile_id"`
	Balance           int64      `db:"balance"`
	LifetimeEarned    int64      `db:"lifetime_earned"`
	LifetimeSpent     int64      `db:"lifetime_spent"`
	LastTransactionAt *time.Time `db:"last_transaction_at"`
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

func (s *BalanceStore) GetByProfile(ctx context.Context, profileID string) (BalanceRecord, error) {
	var row BalanceRecord
	err := s.db.GetContext(ctx, &row, `
		SELECT profile_id, balance, lifetime_earned, lifetime_spent, last_transaction_at
		FROM balances
		WHERE profile_id = $1
	`, profileID)
	if err != nil {
		return BalanceRecord{}, err
	}
	return row, nil
}

func (s *BalanceStore) GetForUpdate(ctx context.Context, tx Getter, profileID string) (BalanceRecord, error) {
	var row BalanceRecord
	err := tx.GetContext(ctx, &row, `
		SELECT profile_id, balance, lifetime_earned, lifetime_spent, last_transaction_at
		FROM balances
		WHERE profile_id = $1
		FOR UPDATE
	`, profileID)
	if err != nil {
		return BalanceRecord{}, err
	}
	return row, nil
}

// FindOrCreateForUpdate locks the profile's balance row, creating a zero row
// first if the profile has never been credited. The insert is idempotent so a
// concurrent first credit degrades to a plain lock wait.
func (s *BalanceStore) FindOrCreateForUpdate(ctx context.Context, tx Tx, profileID string) (BalanceRecord, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO balances (profile_id, balance, lifetime_earned, lifetime_spent)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (profile_id) DO NOTHING
	`, profileID); err != nil {
		return BalanceRecord{}, err
	}
	return s.GetForUpdate(ctx, tx, profileID)
}

func (s *BalanceStore) ApplyCredit(ctx context.Context, tx Execer, profileID string, amount int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET balance = balance + $1,
		    lifetime_earned = lifetime_earned + $1,
		    last_transaction_at = $2
		WHERE profile_id = $3
	`, amount, at, profileID)
	return err
}

func (s *BalanceStore) ApplyDebit(ctx context.Context, tx Execer, profileID string, amount int64, at time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET balance = balance - $1,
		    lifetime_spent = lifetime_spent + $1,
		    last_transaction_at = $2
		WHERE profile_id = $3
	`, amount, at, profileID)
	return err
}

// Sum computes aggregate circulating supply from all balance rows.
func (s *BalanceStore) Sum(ctx context.Context) (int64, error) {
	return s.SumTx(ctx, s.db)
}

// SumTx is Sum inside an open unit of work.
func (s *BalanceStore) SumTx(ctx context.Context, q Getter) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `SELECT COALESCE(SUM(balance), 0) FROM balances`)
	return sum, err
}
