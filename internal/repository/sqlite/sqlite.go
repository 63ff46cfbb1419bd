package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/billing/internal/db"
	"github.com/garnizeh/billing/pkg/repository"
)

// TimeLayout is the on-disk format of job payment dates. It is fixed width
// and always UTC so range filters can compare the text directly.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ProfileRepo = (*SQLiteRepo)(nil)
var _ repository.ContractRepo = (*SQLiteRepo)(nil)
var _ repository.JobRepo = (*SQLiteRepo)(nil)
var _ repository.ReportRepo = (*SQLiteRepo)(nil)
var _ repository.Transactor = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(TimeLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", s.String, err)
	}
	return &t, nil
}

// scanFailed logs a row that could not be decoded and wraps err with op.
func (r *SQLiteRepo) scanFailed(op string, err error) error {
	r.logger.Error("failed to scan row", slog.String("op", op), slog.Any("err", err))
	return fmt.Errorf("%s: %w", op, err)
}
