//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/domain/model"
)

// --- Mock use cases ---

type mockUserUC struct {
	mu    sync.Mutex
	users map[string]*model.User // by ID

	RegisterErr error
	VerifyErr   error
}

func newMockUserUC() *mockUserUC {
	return &mockUserUC{users: make(map[string]*model.User)}
}

func (m *mockUserUC) Register(ctx context.Context, email, password string) (*model.User, error) {
	if m.RegisterErr != nil {
		return nil, m.RegisterErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u, err := model.NewUser("", email, "hash:"+password)
	if err != nil {
		return nil, err
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserUC) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserUC) VerifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	if m.VerifyErr != nil {
		return nil, m.VerifyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email && u.PasswordHash == "hash:"+password {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserUC) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func (m *mockUserUC) activate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.IsActive = true
	}
}

type mockActivationUC struct {
	mu        sync.Mutex
	codes     map[string]string // userID -> live code
	users     *mockUserUC
	IssueErr  error
	RedeemErr error
	issued    int
}

func newMockActivationUC(users *mockUserUC) *mockActivationUC {
	return &mockActivationUC{codes: make(map[string]string), users: users}
}

func (m *mockActivationUC) Issue(ctx context.Context, userID string) (string, error) {
	if m.IssueErr != nil {
		return "", m.IssueErr
	}
	if _, err := m.users.GetByID(ctx, userID); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	code := "CODE0" + string(rune('0'+m.issued%10))
	m.codes[userID] = code
	return code, nil
}

func (m *mockActivationUC) Redeem(ctx context.Context, userID, submittedCode string) error {
	if m.RedeemErr != nil {
		return m.RedeemErr
	}
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsActive {
		return domain.ErrAlreadyActive
	}
	m.mu.Lock()
	live, ok := m.codes[userID]
	if ok && live == submittedCode {
		delete(m.codes, userID)
		m.mu.Unlock()
		m.users.activate(userID)
		return nil
	}
	m.mu.Unlock()
	return domain.ErrInvalidOrExpiredCode
}

// --- Mock notifier ---

type mockNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	Email string
	Code  string
}

func (m *mockNotifier) SendActivationCode(ctx context.Context, email, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Email: email, Code: code})
	return !m.fail
}

func (m *mockNotifier) allSent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// --- Mock rate limiter ---

type mockLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int
	err    error
}

func newMockLimiter(limit int) *mockLimiter {
	return &mockLimiter{counts: make(map[string]int), limit: limit}
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	if m.limit > 0 {
		return m.counts[key] <= m.limit, nil
	}
	return m.counts[key] <= limit, nil
}
