package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/garnizeh/billing/pkg/models"
	"github.com/garnizeh/billing/pkg/repository"
	"github.com/shopspring/decimal"
)

// Test helpers and mocks
var (
	_ repository.ProfileRepo  = (*Repo)(nil)
	_ repository.ContractRepo = (*Repo)(nil)
	_ repository.JobRepo      = (*Repo)(nil)
	_ repository.ReportRepo   = (*Repo)(nil)
	_ repository.Transactor   = (*Repo)(nil)
)

// Repo is an in-memory implementation of the repository interfaces. Setting
// Err makes every call fail with it; Errs fails only the named methods.
// Reports returns the configured rankings as is.
type Repo struct {
	mu        sync.Mutex
	Profiles  map[int64]*models.Profile
	Contracts map[int64]*models.Contract
	Jobs      map[int64]*models.Job

	Professions []models.ProfessionEarnings
	Clients     []models.ClientPayments

	Err  error
	Errs map[string]error
}

func New() *Repo {
	return &Repo{
		Profiles:  make(map[int64]*models.Profile),
		Contracts: make(map[int64]*models.Contract),
		Jobs:      make(map[int64]*models.Job),
		Errs:      make(map[string]error),
	}
}

// fail returns the error configured for method, if any.
func (m *Repo) fail(method string) error {
	if m.Err != nil {
		return m.Err
	}
	return m.Errs[method]
}

// RunAtomic calls fn without isolation; the mock has no rollback.
func (m *Repo) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := m.fail("RunAtomic"); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *Repo) CreateProfile(ctx context.Context, p *models.Profile) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateProfile"); err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("profile is nil")
	}
	cp := *p
	if cp.ID == 0 {
		cp.ID = int64(len(m.Profiles) + 1)
	}
	m.Profiles[cp.ID] = &cp
	return cp.ID, nil
}

func (m *Repo) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetProfile"); err != nil {
		return nil, err
	}
	if p, ok := m.Profiles[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) GetProfileByType(ctx context.Context, id int64, typ models.ProfileType) (*models.Profile, error) {
	p, err := m.GetProfile(ctx, id)
	if err != nil || p == nil || p.Type != typ {
		return nil, err
	}
	return p, nil
}

func (m *Repo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateBalance"); err != nil {
		return err
	}
	p, ok := m.Profiles[id]
	if !ok {
		return fmt.Errorf("update balance: profile %d not found", id)
	}
	p.Balance = balance
	return nil
}

func (m *Repo) CreateContract(ctx context.Context, c *models.Contract) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateContract"); err != nil {
		return 0, err
	}
	if c == nil {
		return 0, fmt.Errorf("contract is nil")
	}
	cp := *c
	if cp.ID == 0 {
		cp.ID = int64(len(m.Contracts) + 1)
	}
	if cp.Status == "" {
		cp.Status = models.ContractStatusNew
	}
	m.Contracts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *Repo) GetContract(ctx context.Context, id int64) (*models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetContract"); err != nil {
		return nil, err
	}
	if c, ok := m.Contracts[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) ListActiveByProfile(ctx context.Context, profileID int64) ([]models.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListActiveByProfile"); err != nil {
		return nil, err
	}
	out := []models.Contract{}
	for _, c := range m.Contracts {
		if c.Status != models.ContractStatusTerminated && c.HasParty(profileID) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Repo) CreateJob(ctx context.Context, j *models.Job) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateJob"); err != nil {
		return 0, err
	}
	if j == nil {
		return 0, fmt.Errorf("job is nil")
	}
	cp := *j
	if cp.ID == 0 {
		cp.ID = int64(len(m.Jobs) + 1)
	}
	m.Jobs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *Repo) GetJob(ctx context.Context, id int64) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetJob"); err != nil {
		return nil, err
	}
	if j, ok := m.Jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, nil
}

func (m *Repo) GetJobForClient(ctx context.Context, jobID, clientID int64) (*models.Job, error) {
	j, err := m.GetJob(ctx, jobID)
	if err != nil || j == nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Contracts[j.ContractID]; !ok || c.ClientID != clientID {
		return nil, nil
	}
	return j, nil
}

func (m *Repo) ListUnpaidByProfile(ctx context.Context, profileID int64) ([]models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListUnpaidByProfile"); err != nil {
		return nil, err
	}
	out := []models.Job{}
	for _, j := range m.Jobs {
		c, ok := m.Contracts[j.ContractID]
		if !j.Paid && ok && c.HasParty(profileID) {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (m *Repo) SumUnpaidByClient(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SumUnpaidByClient"); err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, j := range m.Jobs {
		if c, ok := m.Contracts[j.ContractID]; ok && !j.Paid && c.ClientID == clientID {
			sum = sum.Add(j.Price)
		}
	}
	return sum, nil
}

func (m *Repo) MarkPaid(ctx context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("MarkPaid"); err != nil {
		return err
	}
	j, ok := m.Jobs[id]
	if !ok {
		return fmt.Errorf("mark paid: job %d not found", id)
	}
	at = at.UTC()
	j.Paid = true
	j.PaymentDate = &at
	return nil
}

func (m *Repo) ProfessionEarnings(ctx context.Context, tf models.Timeframe) ([]models.ProfessionEarnings, error) {
	if err := m.fail("ProfessionEarnings"); err != nil {
		return nil, err
	}
	return append([]models.ProfessionEarnings{}, m.Professions...), nil
}

func (m *Repo) TopPayingClients(ctx context.Context, tf models.Timeframe, limit int) ([]models.ClientPayments, error) {
	if err := m.fail("TopPayingClients"); err != nil {
		return nil, err
	}
	out := append([]models.ClientPayments{}, m.Clients...)
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
