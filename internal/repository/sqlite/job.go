package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/garnizeh/billing/pkg/models"
	"github.com/shopspring/decimal"
)

const jobColumns = `j.id, j.description, j.price, j.paid, j.payment_date, j.contract_id`

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}

	var id, paymentDate any
	if j.ID > 0 {
		id = j.ID
	}
	if j.PaymentDate != nil {
		paymentDate = formatTime(*j.PaymentDate)
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO jobs (id, description, price, paid, payment_date, contract_id) VALUES (?, ?, ?, ?, ?, ?)`,
		id, j.Description, j.Price, j.Paid, paymentDate, j.ContractID)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs AS j WHERE j.id = ?`, id)
	return nullableJob(scanJob(row))
}

// GetJobForClient returns the job only when it belongs to a contract whose
// client is clientID.
func (r *SQLiteRepo) GetJobForClient(ctx context.Context, jobID, clientID int64) (*models.Job, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs AS j
		INNER JOIN contracts AS c ON c.id = j.contract_id
		WHERE j.id = ? AND c.client_id = ?`, jobID, clientID)
	return nullableJob(scanJob(row))
}

// ListUnpaidByProfile returns unpaid jobs of every contract where the profile
// is the client or the contractor.
func (r *SQLiteRepo) ListUnpaidByProfile(ctx context.Context, profileID int64) ([]models.Job, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+jobColumns+` FROM jobs AS j
		INNER JOIN contracts AS c ON c.id = j.contract_id
		WHERE j.paid = 0 AND (c.client_id = ? OR c.contractor_id = ?)
		ORDER BY j.id`, profileID, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, r.scanFailed("list unpaid jobs", err)
		}
		out = append(out, *j)
	}

	return out, rows.Err()
}

// SumUnpaidByClient totals the price of unpaid jobs on the client's contracts.
// Prices are added as decimals in Go; SQLite would sum them as floats.
func (r *SQLiteRepo) SumUnpaidByClient(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT j.price FROM jobs AS j
		INNER JOIN contracts AS c ON c.id = j.contract_id
		WHERE j.paid = 0 AND c.client_id = ?`, clientID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum unpaid jobs of client %d: %w", clientID, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var price decimal.Decimal
		if err := rows.Scan(&price); err != nil {
			return decimal.Zero, r.scanFailed("sum unpaid jobs", err)
		}
		total = total.Add(price)
	}

	return total, rows.Err()
}

func (r *SQLiteRepo) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	res, err := r.conn.Exec(ctx, `UPDATE jobs SET paid = 1, payment_date = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("mark job %d paid: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark paid: job %d not found", id)
	}
	return nil
}

func scanJob(s scanner) (*models.Job, error) {
	var j models.Job
	var paymentDate sql.NullString
	if err := s.Scan(&j.ID, &j.Description, &j.Price, &j.Paid, &paymentDate, &j.ContractID); err != nil {
		return nil, err
	}

	t, err := parseTime(paymentDate)
	if err != nil {
		return nil, err
	}
	j.PaymentDate = t

	return &j, nil
}

func nullableJob(j *models.Job, err error) (*models.Job, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return j, err
}
