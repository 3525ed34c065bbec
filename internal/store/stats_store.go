package store

import "context"

// StatsStore is read-only aggregation over the transaction log.
type StatsStore struct {
	db DB
}

type TypeStat struct {
	Type  string `db:"type"`
	Count int64  `db:"count"`
	Total int64  `db:"total"`
}

type MonthlyStat struct {
	Month string `db:"month"`
	Type  string `db:"type"`
	Count int64  `db:"count"`
	Total int64  `db:"total"`
}

func NewStatsStore(db DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) TotalsByType(ctx context.Context) ([]TypeStat, error) {
	var rows []TypeStat
	err := s.db.SelectContext(ctx, &rows, `
		SELECT type, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		GROUP BY type
		ORDER BY type
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MonthlySeries returns per-type transaction volume for the rolling twelve
// month window, oldest month first.
func (s *StatsStore) MonthlySeries(ctx context.Context) ([]MonthlyStat, error) {
	var rows []MonthlyStat
	err := s.db.SelectContext(ctx, &rows, `
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
		       type,
		       COUNT(*) AS count,
		       COALESCE(SUM(amount), 0) AS total
		FROM transactions
		WHERE created_at >= date_trunc('month', NOW()) - INTERVAL '11 months'
		GROUP BY date_trunc('month', created_at), type
		ORDER BY month, type
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
