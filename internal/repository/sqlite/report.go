package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/garnizeh/billing/pkg/models"
	"github.com/shopspring/decimal"
)

// paidWithin renders the payment-date filter for tf and its arguments.
func paidWithin(tf models.Timeframe) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString("j.paid = 1")
	if tf.Start != nil {
		sb.WriteString(" AND j.payment_date >= ?")
		args = append(args, formatTime(*tf.Start))
	}
	if tf.End != nil {
		sb.WriteString(" AND j.payment_date <= ?")
		args = append(args, formatTime(*tf.End))
	}

	return sb.String(), args
}

// ProfessionEarnings sums paid jobs per contractor profession, highest first.
// Ties are ordered by profession name.
func (r *SQLiteRepo) ProfessionEarnings(ctx context.Context, tf models.Timeframe) ([]models.ProfessionEarnings, error) {
	where, args := paidWithin(tf)
	q := fmt.Sprintf(`SELECT p.profession, j.price
		FROM jobs AS j
		INNER JOIN contracts AS c ON c.id = j.contract_id
		INNER JOIN profiles AS p ON p.id = c.contractor_id
		WHERE %s`, where)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("profession earnings: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var profession string
		var price decimal.Decimal
		if err := rows.Scan(&profession, &price); err != nil {
			return nil, r.scanFailed("profession earnings", err)
		}
		totals[profession] = totals[profession].Add(price)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.ProfessionEarnings, 0, len(totals))
	for profession, total := range totals {
		out = append(out, models.ProfessionEarnings{Profession: profession, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Profession < out[j].Profession
	})

	r.logger.Debug("profession earnings computed", slog.Int("professions", len(out)))
	return out, nil
}

// TopPayingClients ranks clients by the total of their paid jobs. Ties are
// ordered by profile id.
func (r *SQLiteRepo) TopPayingClients(ctx context.Context, tf models.Timeframe, limit int) ([]models.ClientPayments, error) {
	where, args := paidWithin(tf)
	q := fmt.Sprintf(`SELECT p.id, p.first_name || ' ' || p.last_name AS full_name, j.price
		FROM jobs AS j
		INNER JOIN contracts AS c ON c.id = j.contract_id
		INNER JOIN profiles AS p ON p.id = c.client_id
		WHERE %s`, where)

	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("top paying clients: %w", err)
	}
	defer rows.Close()

	byClient := make(map[int64]*models.ClientPayments)
	for rows.Next() {
		var id int64
		var fullName string
		var price decimal.Decimal
		if err := rows.Scan(&id, &fullName, &price); err != nil {
			return nil, r.scanFailed("top paying clients", err)
		}
		cp, ok := byClient[id]
		if !ok {
			cp = &models.ClientPayments{ID: id, FullName: fullName, Paid: decimal.Zero}
			byClient[id] = cp
		}
		cp.Paid = cp.Paid.Add(price)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]models.ClientPayments, 0, len(byClient))
	for _, cp := range byClient {
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Paid.Cmp(out[j].Paid); c != 0 {
			return c > 0
		}
		return out[i].ID < out[j].ID
	})
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}

	r.logger.Debug("top paying clients computed", slog.Int("clients", len(out)))
	return out, nil
}
