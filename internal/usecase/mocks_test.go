//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/domain/model"
	"registration-service/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockTxManager runs the callback without a real transaction. The mock
// repositories keep their own consistency with mutexes and a conditional
// MarkUsed, mirroring what the store guarantees in production.
type mockTxManager struct{}

func NewMockTxManager() *mockTxManager { return &mockTxManager{} }

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User // by ID

	FindByIDFunc    func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByEmailFunc func(ctx context.Context, tx repository.Tx, email string) (*model.User, error)
	CreateFunc      func(ctx context.Context, tx repository.Tx, u *model.User) error
	MarkActiveFunc  func(ctx context.Context, tx repository.Tx, id string) error
}

func NewMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, u)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return domain.ErrAlreadyExists
		}
	}
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, tx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) MarkActive(ctx context.Context, tx repository.Tx, id string) error {
	if m.MarkActiveFunc != nil {
		return m.MarkActiveFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = true
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// seed inserts a user bypassing the duplicate check.
func (m *memUserRepo) seed(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
}

// memCodeRepo is the in-memory activation code store. MarkUsed is a
// compare-and-set like the real repository, so at most one racing
// redemption can consume a record.
type memCodeRepo struct {
	mu    sync.Mutex
	store []*model.ActivationCode

	CreateFunc    func(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error
	FindValidFunc func(ctx context.Context, tx repository.Tx, userID, code string, now time.Time) (*model.ActivationCode, error)
}

func NewMemCodeRepo() *memCodeRepo { return &memCodeRepo{} }

func (m *memCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.store = append(m.store, &cp)
	return nil
}

func (m *memCodeRepo) FindValid(ctx context.Context, tx repository.Tx, userID, code string, now time.Time) (*model.ActivationCode, error) {
	if m.FindValidFunc != nil {
		return m.FindValidFunc(ctx, tx, userID, code, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *model.ActivationCode
	for _, c := range m.store {
		if c.UserID != userID || c.Code != code || !c.IsLive(now) {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) ||
			(c.CreatedAt.Equal(best.CreatedAt) && c.ID > best.ID) {
			best = c
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *memCodeRepo) MarkUsed(ctx context.Context, tx repository.Tx, id string, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.ID == id {
			if c.UsedAt != nil {
				return domain.ErrInvalidOrExpiredCode
			}
			at := usedAt
			c.UsedAt = &at
			return nil
		}
	}
	return domain.ErrInvalidOrExpiredCode
}

func (m *memCodeRepo) InvalidateAllUnused(ctx context.Context, tx repository.Tx, userID string, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.UserID == userID && c.UsedAt == nil {
			at := usedAt
			c.UsedAt = &at
		}
	}
	return nil
}

// seed inserts a code record directly.
func (m *memCodeRepo) seed(code *model.ActivationCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.store = append(m.store, &cp)
}

// byID fetches a record for assertions.
func (m *memCodeRepo) byID(id string) *model.ActivationCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.store {
		if c.ID == id {
			cp := *c
			return &cp
		}
	}
	return nil
}

// all returns a snapshot of every record.
func (m *memCodeRepo) all() []*model.ActivationCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ActivationCode, 0, len(m.store))
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out
}
