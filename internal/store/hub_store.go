package store

import "context"

// HubStore manages the singleton hub_state row and the append-only
// hub_supply_logs audit trail. Every supply mutation goes through a FOR UPDATE
// lock on the singleton so reserve/circulating updates are serialized.
type HubStore struct {
	db DB
}

type HubStateRecord struct {
	TotalSupply       int64  `db:"total_supply"`
	CirculatingSupply int64  `db:"circulating_supply"`
	ReserveSupply     int64  `db:"reserve_supply"`
	MaxSupply         *int64 `db:"max_supply"`
	ValuePerUnit      string `db:"value_per_unit"`
	UpdatedAt         any    `db:"updated_at"`
}

type HubSupplyLogInput struct {
	ID                  string
	Action              string
	Amount              int64
	ReserveBefore       int64
	ReserveAfter        int64
	CirculatingBefore   int64
	CirculatingAfter    int64
	TotalBefore         int64
	TotalAfter          int64
	Reason              string
	PerformedBy         *string
	LinkedTransactionID *string
}

type hubSupplyLogRow struct {
	ID                  string  `db:"id"`
	Action              string  `db:"action"`
	Amount              int64   `db:"amount"`
	ReserveBefore       int64   `db:"reserve_before"`
	ReserveAfter        int64   `db:"reserve_after"`
	CirculatingBefore   int64   `db:"circulating_before"`
	CirculatingAfter    int64   `db:"circulating_after"`
	TotalBefore         int64   `db:"total_before"`
	TotalAfter          int64   `db:"total_after"`
	Reason              string  `db:"reason"`
	PerformedBy         *string `db:"performed_by"`
	LinkedTransactionID *string `db:"linked_transaction_id"`
	CreatedAt           any     `db:"created_at"`
}

func NewHubStore(db DB) *HubStore {
	return &HubStore{db: db}
}

func (s *HubStore) Get(ctx context.Context) (HubStateRecord, error) {
	var row HubStateRecord
	err := s.db.GetContext(ctx, &row, `
		SELECT total_supply, circulating_supply, reserve_supply, max_supply, value_per_unit, updated_at
		FROM hub_state
		WHERE id = 1
	`)
	if err != nil {
		return HubStateRecord{}, err
	}
	return row, nil
}

func (s *HubStore) GetForUpdate(ctx context.Context, tx Getter) (HubStateRecord, error) {
	var row HubStateRecord
	err := tx.GetContext(ctx, &row, `
		SELECT total_supply, circulating_supply, reserve_supply, max_supply, value_per_unit, updated_at
		FROM hub_state
		WHERE id = 1
		FOR UPDATE
	`)
	if err != nil {
		return HubStateRecord{}, err
	}
	return row, nil
}

func (s *HubStore) UpdateSupply(ctx context.Context, tx Execer, total, circulating, reserve int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE hub_state
		SET total_supply = $1, circulating_supply = $2, reserve_supply = $3, updated_at = NOW()
		WHERE id = 1
	`, total, circulating, reserve)
	return err
}

func (s *HubStore) UpdateMaxSupply(ctx context.Context, tx Execer, maxSupply *int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE hub_state
		SET max_supply = $1, updated_at = NOW()
		WHERE id = 1
	`, maxSupply)
	return err
}

func (s *HubStore) UpdateValuePerUnit(ctx context.Context, tx Execer, value string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE hub_state
		SET value_per_unit = $1, updated_at = NOW()
		WHERE id = 1
	`, value)
	return err
}

func (s *HubStore) InsertLog(ctx context.Context, tx Execer, input HubSupplyLogInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO hub_supply_logs (id, action, amount, reserve_before, reserve_after,
		                             circulating_before, circulating_after, total_before, total_after,
		                             reason, performed_by, linked_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, input.ID, input.Action, input.Amount, input.ReserveBefore, input.ReserveAfter,
		input.CirculatingBefore, input.CirculatingAfter, input.TotalBefore, input.TotalAfter,
		input.Reason, input.PerformedBy, input.LinkedTransactionID)
	return err
}

func (s *HubStore) ListLogs(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	var rows []hubSupplyLogRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, action, amount, reserve_before, reserve_after,
		       circulating_before, circulating_after, total_before, total_after,
		       reason, performed_by, linked_transaction_id, created_at
		FROM hub_supply_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	logs := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, map[string]any{
			"id":                    row.ID,
			"action":                row.Action,
			"amount":                row.Amount,
			"reserve_before":        row.ReserveBefore,
			"reserve_after":         row.ReserveAfter,
			"circulating_before":    row.CirculatingBefore,
			"circulating_after":     row.CirculatingAfter,
			"total_before":          row.TotalBefore,
			"total_after":           row.TotalAfter,
			"reason":                row.Reason,
			"performed_by":          derefStringPtr(row.PerformedBy),
			"linked_transaction_id": derefStringPtr(row.LinkedTransactionID),
			"created_at":            row.CreatedAt,
		})
	}
	return logs, nil
}
