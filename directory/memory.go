package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Each instance owns its own maps, so test
// fixtures and per-tenant deployments stay isolated.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]Identity
	byEmail map[string]string // normalized email -> id
	now     func() time.Time
}

// MemoryOption configures a [Memory] store.
type MemoryOption func(*Memory)

// WithClock overrides the time source. Useful for tests that assert
// pending-list ordering.
func WithClock(fn func() time.Time) MemoryOption {
	return func(m *Memory) {
		if fn != nil {
			m.now = fn
		}
	}
}

// NewMemory creates an empty in-process directory.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		byID:    make(map[string]Identity),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) create(input CreateInput, approved bool) (Identity, error) {
	email := NormalizeEmail(input.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return Identity{}, ErrDuplicateEmail
	}

	ident := Identity{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		Department:   input.Department,
		Approved:     approved,
		CreatedAt:    m.now().UTC(),
	}

	m.byID[ident.ID] = ident
	m.byEmail[email] = ident.ID

	return ident, nil
}

// Register implements [Store].
func (m *Memory) Register(_ context.Context, input CreateInput) (Identity, error) {
	return m.create(input, false)
}

// CreateActive implements [Store].
func (m *Memory) CreateActive(_ context.Context, input CreateInput) (Identity, error) {
	return m.create(input, true)
}

// Approve implements [Store].
func (m *Memory) Approve(_ context.Context, id string) (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ident, ok := m.byID[id]
	if !ok || ident.Approved {
		return Identity{}, ErrIdentityNotFound
	}

	ident.Approved = true
	m.byID[id] = ident

	return ident, nil
}

// Reject implements [Store].
func (m *Memory) Reject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ident, ok := m.byID[id]
	if !ok || ident.Approved {
		return ErrIdentityNotFound
	}

	delete(m.byID, id)
	delete(m.byEmail, ident.Email)

	return nil
}

// FindByEmail implements [Store].
func (m *Memory) FindByEmail(_ context.Context, email string) (Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[NormalizeEmail(email)]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return m.byID[id], nil
}

// FindActiveByEmail implements [Store].
func (m *Memory) FindActiveByEmail(ctx context.Context, email string) (Identity, error) {
	ident, err := m.FindByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if !ident.Approved {
		return Identity{}, ErrIdentityNotFound
	}
	return ident, nil
}

// FindByID implements [Store].
func (m *Memory) FindByID(_ context.Context, id string) (Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ident, ok := m.byID[id]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return ident, nil
}

// ListPending implements [Store].
func (m *Memory) ListPending(_ context.Context) ([]Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Identity, 0)
	for _, ident := range m.byID {
		if !ident.Approved {
			out = append(out, ident)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

// UpdatePasswordHash implements [Store].
func (m *Memory) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ident, ok := m.byID[id]
	if !ok {
		return ErrIdentityNotFound
	}

	ident.PasswordHash = hash
	m.byID[id] = ident

	return nil
}
