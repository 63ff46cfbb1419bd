package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/billing/pkg/models"
	"github.com/shopspring/decimal"
)

const profileColumns = `id, first_name, last_name, profession, balance, type`

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("profile is nil")
	}

	var id any
	if p.ID > 0 {
		id = p.ID
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.FirstName, p.LastName, p.Profession, p.Balance, string(p.Type))
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *SQLiteRepo) GetProfileByType(ctx context.Context, id int64, typ models.ProfileType) (*models.Profile, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ? AND type = ?`, id, string(typ))
	return scanProfile(row)
}

// UpdateBalance stores the new balance of a profile.
func (r *SQLiteRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := r.conn.Exec(ctx, `UPDATE profiles SET balance = ? WHERE id = ?`, balance, id)
	if err != nil {
		return fmt.Errorf("update balance of profile %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update balance: profile %d not found", id)
	}
	return nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	var typ string
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Profession, &p.Balance, &typ); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}
	p.Type = models.ProfileType(typ)

	return &p, nil
}
