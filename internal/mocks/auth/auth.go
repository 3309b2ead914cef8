package auth

// Package auth contains simple hand-written test doubles for auth and access ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider           = (*MockAuthProvider)(nil)
	_ ports.SessionStore           = (*MemorySessionStore)(nil)
	_ ports.RoleStore              = (*MemoryRoleStore)(nil)
	_ ports.DeveloperOverrideStore = (*MemoryDeveloperOverrides)(nil)
)

// MockAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/auth",
		DefaultUser: domainauth.Identity{
			UserID:      "mock-user-1",
			Email:       "mock.user@example.com",
			ClaimedRole: "student",
		},
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	authURL := m.AuthURL
	if authURL == "" {
		authURL = "https://mock-idp/auth"
	}
	return authURL, fmt.Sprintf("state-%d", n), fmt.Sprintf("nonce-%d", n), nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	user := m.DefaultUser
	if user.UserID == "" {
		user = NewMockAuthProvider().DefaultUser
	}
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	// Err, when set, is returned from every call.
	Err error
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.Err != nil {
		return m.Err
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if m.Err != nil {
		return domainauth.Session{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MemoryRoleStore is an in-memory durable role table.
type MemoryRoleStore struct {
	mu    sync.Mutex
	roles map[string]string

	// GetErr, when set, is returned from GetRole.
	GetErr error
	// Gate, when set, blocks GetRole until it is closed.
	Gate chan struct{}
	// Ensured receives every record passed to EnsureRole when non-nil.
	Ensured chan ports.RoleRecord
}

// NewMemoryRoleStore creates a role store seeded with userID to role pairs.
func NewMemoryRoleStore(seed map[string]string) *MemoryRoleStore {
	roles := make(map[string]string, len(seed))
	for k, v := range seed {
		roles[k] = v
	}
	return &MemoryRoleStore{roles: roles}
}

func (m *MemoryRoleStore) GetRole(ctx context.Context, userID string) (string, bool, error) {
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[userID]
	return role, ok, nil
}

func (m *MemoryRoleStore) EnsureRole(_ context.Context, rec ports.RoleRecord) error {
	m.mu.Lock()
	if _, ok := m.roles[rec.UserID]; !ok {
		m.roles[rec.UserID] = string(rec.Role)
	}
	m.mu.Unlock()
	if m.Ensured != nil {
		m.Ensured <- rec
	}
	return nil
}

func (m *MemoryRoleStore) SetRole(_ context.Context, rec ports.RoleRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[rec.UserID] = string(rec.Role)
	return nil
}

// Role returns the stored value for userID.
func (m *MemoryRoleStore) Role(userID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	role, ok := m.roles[userID]
	return role, ok
}

// MemoryDeveloperOverrides is an in-memory developer override set.
type MemoryDeveloperOverrides struct {
	mu     sync.Mutex
	emails map[string]struct{}
	// ListErr, when set, is returned from List.
	ListErr error
}

// NewMemoryDeveloperOverrides creates an override set seeded with emails.
func NewMemoryDeveloperOverrides(emails ...string) *MemoryDeveloperOverrides {
	m := &MemoryDeveloperOverrides{emails: make(map[string]struct{})}
	for _, e := range emails {
		m.emails[e] = struct{}{}
	}
	return m
}

func (m *MemoryDeveloperOverrides) List(context.Context) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.emails))
	for e := range m.emails {
		out = append(out, e)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryDeveloperOverrides) Add(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[email] = struct{}{}
	return nil
}

func (m *MemoryDeveloperOverrides) Remove(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.emails, email)
	return nil
}
