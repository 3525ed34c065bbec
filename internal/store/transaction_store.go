package store

import (
	"context"
	"fmt"
)

type TransactionStore struct {
	db DB
}

type transactionRow struct {
	ID                   string  `db:"id"`
	ProfileID            string  `db:"profile_id"`
	Type                 string  `db:"type"`
	Amount               int64   `db:"amount"`
	BalanceAfter         int64   `db:"balance_after"`
	Description          string  `db:"description"`
	Metadata             string  `db:"metadata"`
	RelatedTransactionID *string `db:"related_transaction_id"`
	HubLogID             *string `db:"hub_log_id"`
	ReferenceID          *string `db:"reference_id"`
	CreatedAt            any     `db:"created_at"`
}

type TransactionInput struct {
	ID           string
	ProfileID    string
	Type         string
	Amount       int64
	BalanceAfter int64
	Description  string
	Metadata     string
	ReferenceID  *string
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	query := `
		INSERT INTO transactions (id, profile_id, type, amount, balance_after, description, metadata, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.ProfileID, input.Type, input.Amount, input.BalanceAfter,
		input.Description, input.Metadata, input.ReferenceID,
	)
	return err
}

// LinkRelated attaches the paired transaction id to a row. Rows are otherwise
// immutable; this is the single follow-up patch allowed inside the creating
// unit of work.
func (s *TransactionStore) LinkRelated(ctx context.Context, tx Execer, transactionID, relatedID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions SET related_transaction_id = $1 WHERE id = $2
	`, relatedID, transactionID)
	return err
}

// AttachHubLog links a transaction to the hub supply log row that backed it.
func (s *TransactionStore) AttachHubLog(ctx context.Context, tx Execer, transactionID, hubLogID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions SET hub_log_id = $1 WHERE id = $2
	`, hubLogID, transactionID)
	return err
}

// HasEarnReference reports whether a one-time activity reward was already paid
// for the given reference. The partial unique index on (profile_id, type,
// reference_id) closes the race this precheck leaves open.
func (s *TransactionStore) HasEarnReference(ctx context.Context, profileID, txType, referenceID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1)
		FROM transactions
		WHERE profile_id = $1 AND type = $2 AND reference_id = $3
	`, profileID, txType, referenceID)
	return count > 0, err
}

func (s *TransactionStore) ListByProfile(ctx context.Context, profileID, txType string, limit, offset int) ([]map[string]any, error) {
	var rows []transactionRow
	query := `
		SELECT id, profile_id, type, amount, balance_after, description, metadata,
		       related_transaction_id, hub_log_id, reference_id, created_at
		FROM transactions
		WHERE profile_id = $1
	`
	args := []any{profileID}
	param := 2
	if txType != "" {
		query += " AND type = $2"
		args = append(args, txType)
		param = 3
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(param) + " OFFSET $" + itoa(param+1)
	args = append(args, limit, offset)
	err := s.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, err
	}
	return transactionRowsToMaps(rows), nil
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	var rows []transactionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, profile_id, type, amount, balance_after, description, metadata,
		       related_transaction_id, hub_log_id, reference_id, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return transactionRowsToMaps(rows), nil
}

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (map[string]any, error) {
	var row transactionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, profile_id, type, amount, balance_after, description, metadata,
		       related_transaction_id, hub_log_id, reference_id, created_at
		FROM transactions
		WHERE id = $1
	`, transactionID)
	if err != nil {
		return nil, err
	}
	return transactionRowToMap(row), nil
}

func itoa(value int) string {
	return fmt.Sprintf("%d", value)
}

func derefStringPtr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func transactionRowsToMaps(rows []transactionRow) []map[string]any {
	maps := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		maps = append(maps, transactionRowToMap(row))
	}
	return maps
}

func transactionRowToMap(row transactionRow) map[string]any {
	return map[string]any{
		"id":                     row.ID,
		"profile_id":             row.ProfileID,
		"type":                   row.Type,
		"amount":                 row.Amount,
		"balance_after":          row.BalanceAfter,
		"description":            row.Description,
		"metadata":               row.Metadata,
		"related_transaction_id": derefStringPtr(row.RelatedTransactionID),
		"hub_log_id":             derefStringPtr(row.HubLogID),
		"reference_id":           derefStringPtr(row.ReferenceID),
		"created_at":             row.CreatedAt,
	}
}
