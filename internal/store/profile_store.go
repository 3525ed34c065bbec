package store

import "context"

type ProfileStore struct {
	db DB
}

func NewProfileStore(db DB) *ProfileStore {
	return &ProfileStore{db: db}
}

type profileRow struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	MyPtsBalance int64  `db:"mypts_balance"`
	CreatedAt    any    `db:"created_at"`
}

func (s *ProfileStore) Create(ctx context.Context, tx Execer, id, username, email, passwordHash string) error {
	query := `
		INSERT INTO profiles (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, username, email, passwordHash)
	return err
}

func (s *ProfileStore) GetByEmail(ctx context.Context, email string) (map[string]any, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, password_hash, mypts_balance, created_at FROM profiles WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":            row.ID,
		"username":      row.Username,
		"email":         row.Email,
		"password_hash": row.PasswordHash,
		"mypts_balance": row.MyPtsBalance,
		"created_at":    row.CreatedAt,
	}, nil
}

func (s *ProfileStore) GetByUsername(ctx context.Context, username string) (map[string]any, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, mypts_balance, created_at FROM profiles WHERE username = $1`, username)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":            row.ID,
		"username":      row.Username,
		"email":         row.Email,
		"mypts_balance": row.MyPtsBalance,
		"created_at":    row.CreatedAt,
	}, nil
}

func (s *ProfileStore) GetByID(ctx context.Context, profileID string) (map[string]any, error) {
	var row profileRow
	err := s.db.GetContext(ctx, &row, `SELECT id, username, email, mypts_balance, created_at FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":            row.ID,
		"username":      row.Username,
		"email":         row.Email,
		"mypts_balance": row.MyPtsBalance,
		"created_at":    row.CreatedAt,
	}, nil
}

func (s *ProfileStore) Exists(ctx context.Context, profileID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM profiles WHERE id = $1`, profileID)
	return count > 0, err
}

// RefreshBalanceCache updates the denormalized quick-access balance column on
// the profile row. Runs inside the same unit of work as the ledger mutation.
func (s *ProfileStore) RefreshBalanceCache(ctx context.Context, tx Execer, profileID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE profiles
		SET mypts_balance = $1
		WHERE id = $2
	`, balance, profileID)
	return err
}
