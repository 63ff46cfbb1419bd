package billing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/garnizeh/billing/pkg/models"
	"github.com/garnizeh/billing/pkg/repository"
	"github.com/shopspring/decimal"
)

// DefaultBestClientsLimit is used when the caller does not ask for a size.
const DefaultBestClientsLimit = 2

// depositCapRatio is the share of the depositor's unpaid jobs that can be
// deposited in a single operation.
var depositCapRatio = decimal.RequireFromString("0.25")

// Repos groups the storage dependencies of the Service.
type Repos struct {
	Profiles  repository.ProfileRepo
	Contracts repository.ContractRepo
	Jobs      repository.JobRepo
	Reports   repository.ReportRepo
	Tx        repository.Transactor
}

type Service struct {
	repos  Repos
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for payment dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(repos Repos, opts ...Option) *Service {
	s := &Service{
		repos:  repos,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate resolves the calling profile.
func (s *Service) Authenticate(ctx context.Context, profileID int64) (*models.Profile, error) {
	p, err := s.repos.Profiles.GetProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile %d: %w", profileID, err)
	}
	if p == nil {
		return nil, ErrForbidden
	}
	return p, nil
}

// GetContract returns the contract when profileID is one of its parties.
// Contracts of other profiles are reported as missing.
func (s *Service) GetContract(ctx context.Context, profileID, contractID int64) (*models.Contract, error) {
	c, err := s.repos.Contracts.GetContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("load contract %d: %w", contractID, err)
	}
	if c == nil || !c.HasParty(profileID) {
		s.logger.Debug("contract not visible", slog.Int64("profile_id", profileID), slog.Int64("contract_id", contractID))
		return nil, ErrEntityNotFound
	}
	return c, nil
}

func (s *Service) ListContracts(ctx context.Context, profileID int64) ([]models.Contract, error) {
	contracts, err := s.repos.Contracts.ListActiveByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list contracts of profile %d: %w", profileID, err)
	}
	s.logger.Debug("contracts listed", slog.Int64("profile_id", profileID), slog.Int("count", len(contracts)))
	return contracts, nil
}

func (s *Service) ListUnpaidJobs(ctx context.Context, profileID int64) ([]models.Job, error) {
	jobs, err := s.repos.Jobs.ListUnpaidByProfile(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("list unpaid jobs of profile %d: %w", profileID, err)
	}
	s.logger.Debug("unpaid jobs listed", slog.Int64("profile_id", profileID), slog.Int("count", len(jobs)))
	return jobs, nil
}

// PayJob moves the price of the job from the client to the contractor and
// marks the job paid. All reads and writes share one transaction.
func (s *Service) PayJob(ctx context.Context, clientID, jobID int64) error {
	err := s.repos.Tx.RunAtomic(ctx, func(ctx context.Context) error {
		job, err := s.repos.Jobs.GetJobForClient(ctx, jobID, clientID)
		if err != nil {
			return fmt.Errorf("load job %d: %w", jobID, err)
		}
		if job == nil {
			return ErrEntityNotFound
		}
		if job.Paid {
			return ErrJobAlreadyPaid
		}

		client, err := s.repos.Profiles.GetProfile(ctx, clientID)
		if err != nil {
			return fmt.Errorf("load client %d: %w", clientID, err)
		}
		if client == nil {
			return ErrEntityNotFound
		}
		if job.Price.GreaterThan(client.Balance) {
			return ErrInsufficientBalance
		}

		contract, err := s.repos.Contracts.GetContract(ctx, job.ContractID)
		if err != nil {
			return fmt.Errorf("load contract %d: %w", job.ContractID, err)
		}
		if contract == nil {
			return ErrEntityNotFound
		}
		contractor, err := s.repos.Profiles.GetProfile(ctx, contract.ContractorID)
		if err != nil {
			return fmt.Errorf("load contractor %d: %w", contract.ContractorID, err)
		}
		if contractor == nil {
			return ErrEntityNotFound
		}

		if err := s.repos.Profiles.UpdateBalance(ctx, client.ID, client.Balance.Sub(job.Price)); err != nil {
			return err
		}
		if err := s.repos.Profiles.UpdateBalance(ctx, contractor.ID, contractor.Balance.Add(job.Price)); err != nil {
			return err
		}
		return s.repos.Jobs.MarkPaid(ctx, job.ID, s.now())
	})
	if err != nil {
		return err
	}

	s.logger.Info("job paid", slog.Int64("job_id", jobID), slog.Int64("client_id", clientID))
	return nil
}

// Deposit moves amount from the depositor to the client profile clientID.
// A deposit cannot exceed a quarter of the depositor's unpaid jobs.
func (s *Service) Deposit(ctx context.Context, depositorID, clientID int64, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	err := s.repos.Tx.RunAtomic(ctx, func(ctx context.Context) error {
		depositor, err := s.repos.Profiles.GetProfile(ctx, depositorID)
		if err != nil {
			return fmt.Errorf("load depositor %d: %w", depositorID, err)
		}
		if depositor == nil {
			return ErrEntityNotFound
		}

		target, err := s.repos.Profiles.GetProfileByType(ctx, clientID, models.ProfileTypeClient)
		if err != nil {
			return fmt.Errorf("load client %d: %w", clientID, err)
		}
		if target == nil {
			return ErrEntityNotFound
		}

		unpaid, err := s.repos.Jobs.SumUnpaidByClient(ctx, depositorID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(unpaid.Mul(depositCapRatio)) {
			return ErrMaxDeposit
		}
		if amount.GreaterThan(depositor.Balance) {
			return ErrInsufficientBalance
		}

		if target.ID == depositor.ID {
			// self deposit leaves the balance untouched
			return nil
		}
		if err := s.repos.Profiles.UpdateBalance(ctx, target.ID, target.Balance.Add(amount)); err != nil {
			return err
		}
		return s.repos.Profiles.UpdateBalance(ctx, depositor.ID, depositor.Balance.Sub(amount))
	})
	if err != nil {
		return err
	}

	s.logger.Info("balance deposited",
		slog.Int64("depositor_id", depositorID),
		slog.Int64("client_id", clientID),
		slog.String("amount", amount.String()),
	)
	return nil
}

// BestProfession returns the profession that earned the most within tf.
func (s *Service) BestProfession(ctx context.Context, tf models.Timeframe) (string, error) {
	ranking, err := s.repos.Reports.ProfessionEarnings(ctx, tf)
	if err != nil {
		return "", err
	}
	if len(ranking) == 0 {
		s.logger.Debug("no paid jobs within timeframe")
		return "", ErrNoDataWithinTimeframe
	}
	s.logger.Debug("best profession computed",
		slog.String("profession", ranking[0].Profession),
		slog.String("total", ranking[0].Total.String()),
	)
	return ranking[0].Profession, nil
}

// BestClients returns the clients that paid the most within tf.
func (s *Service) BestClients(ctx context.Context, tf models.Timeframe, limit int) ([]models.ClientPayments, error) {
	if limit <= 0 {
		limit = DefaultBestClientsLimit
	}
	clients, err := s.repos.Reports.TopPayingClients(ctx, tf, limit)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("best clients computed", slog.Int("limit", limit), slog.Int("count", len(clients)))
	return clients, nil
}
