package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/billing/pkg/models"
)

const contractColumns = `id, terms, status, client_id, contractor_id`

func (r *SQLiteRepo) CreateContract(ctx context.Context, c *models.Contract) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("contract is nil")
	}

	var id any
	if c.ID > 0 {
		id = c.ID
	}
	status := c.Status
	if status == "" {
		status = models.ContractStatusNew
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO contracts (`+contractColumns+`) VALUES (?, ?, ?, ?, ?)`,
		id, c.Terms, string(status), c.ClientID, c.ContractorID)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetContract(ctx context.Context, id int64) (*models.Contract, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = ?`, id)

	var c models.Contract
	var status string
	if err := row.Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}
	c.Status = models.ContractStatus(status)

	return &c, nil
}

// ListActiveByProfile returns the non-terminated contracts where the profile
// is either the client or the contractor.
func (r *SQLiteRepo) ListActiveByProfile(ctx context.Context, profileID int64) ([]models.Contract, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+contractColumns+` FROM contracts
		WHERE (client_id = ? OR contractor_id = ?) AND status <> ?
		ORDER BY id`, profileID, profileID, string(models.ContractStatusTerminated))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Contract{}
	for rows.Next() {
		var c models.Contract
		var status string
		if err := rows.Scan(&c.ID, &c.Terms, &status, &c.ClientID, &c.ContractorID); err != nil {
			return nil, err
		}

		c.Status = models.ContractStatus(status)
		out = append(out, c)
	}

	return out, rows.Err()
}
