package repository

import (
	"context"
	"time"

	"github.com/garnizeh/billing/pkg/models"
	"github.com/shopspring/decimal"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Lookups return (nil, nil) when the row does not exist.

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) (int64, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	GetProfileByType(ctx context.Context, id int64, typ models.ProfileType) (*models.Profile, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

type ContractRepo interface {
	CreateContract(ctx context.Context, c *models.Contract) (int64, error)
	GetContract(ctx context.Context, id int64) (*models.Contract, error)
	ListActiveByProfile(ctx context.Context, profileID int64) ([]models.Contract, error)
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) (int64, error)
	GetJob(ctx context.Context, id int64) (*models.Job, error)
	GetJobForClient(ctx context.Context, jobID, clientID int64) (*models.Job, error)
	ListUnpaidByProfile(ctx context.Context, profileID int64) ([]models.Job, error)
	SumUnpaidByClient(ctx context.Context, clientID int64) (decimal.Decimal, error)
	MarkPaid(ctx context.Context, id int64, at time.Time) error
}

type ReportRepo interface {
	ProfessionEarnings(ctx context.Context, tf models.Timeframe) ([]models.ProfessionEarnings, error)
	TopPayingClients(ctx context.Context, tf models.Timeframe, limit int) ([]models.ClientPayments, error)
}

// Transactor runs fn atomically; repository calls made with the ctx passed
// to fn take part in the same transaction.
type Transactor interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}
