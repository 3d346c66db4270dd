package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/repository"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memAttempts is an in-memory AttemptRepository.
type memAttempts struct {
	mu   sync.Mutex
	rows []*models.VerificationAttempt
	// createErr fails every Create when set.
	createErr error
}

func (m *memAttempts) Create(_ context.Context, a *models.VerificationAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = strconv.Itoa(len(m.rows) + 1)
	cp := *a
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *memAttempts) FindLatestPending(_ context.Context, email string) (*models.VerificationAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.Email == email && r.Status == models.StatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAttempts) FindLatestIssued(_ context.Context, email string) (*models.VerificationAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.Email == email && r.Status != models.StatusFailed {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memAttempts) find(id string) *models.VerificationAttempt {
	for _, r := range m.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *memAttempts) UpdateStatus(_ context.Context, id string, from, to models.AttemptStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(id)
	if r == nil || r.Status != from {
		return repository.ErrNotFound
	}
	r.Status = to
	return nil
}

func (m *memAttempts) IncrementAttempts(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(id)
	if r == nil {
		return 0, repository.ErrNotFound
	}
	r.Attempts++
	return r.Attempts, nil
}

func (m *memAttempts) MarkVerified(_ context.Context, id, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(id)
	if r == nil || r.Status != models.StatusPending {
		return repository.ErrNotFound
	}
	r.Status = models.StatusVerified
	r.SessionToken = token
	r.SessionExpiresAt = &expiresAt
	return nil
}

func (m *memAttempts) MarkNotificationSent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.find(id)
	if r == nil {
		return repository.ErrNotFound
	}
	r.NotificationSent = true
	return nil
}

func (m *memAttempts) ExpirePending(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.Status == models.StatusPending && r.CodeExpiresAt != nil && r.CodeExpiresAt.Before(cutoff) {
			r.Status = models.StatusExpired
			n++
		}
	}
	return n, nil
}

func (m *memAttempts) snapshot() []models.VerificationAttempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.VerificationAttempt, len(m.rows))
	for i, r := range m.rows {
		out[i] = *r
	}
	return out
}

// fakeMailer records what would have been sent.
type fakeMailer struct {
	mu        sync.Mutex
	codes     map[string]string
	notices   []LoginNotice
	codeErr   error
	notifyErr error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: make(map[string]string)}
}

func (f *fakeMailer) SendVerificationCode(_ context.Context, to, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.codeErr != nil {
		return f.codeErr
	}
	f.codes[to] = code
	return nil
}

func (f *fakeMailer) SendLoginNotification(_ context.Context, notice LoginNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notices = append(f.notices, notice)
	return nil
}

func (f *fakeMailer) codeFor(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[email]
}

// fakeShipments is a ShipmentRepository returning fixed records.
type fakeShipments struct {
	mu      sync.Mutex
	records []models.ShipmentRecord
	err     error
	calls   int
	since   time.Time
}

func (f *fakeShipments) ListShipments(ctx context.Context, since time.Time) ([]models.ShipmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.records, nil
}

func (f *fakeShipments) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var errStoreDown = errors.New("connection refused")
