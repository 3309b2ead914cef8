package ports

// Package ports defines interfaces (hexagonal ports) for auth and access behavior.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore implementations when no live
// session exists for an id. Any other error is treated as transient.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SessionStore persists and retrieves visitor sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleStore is the durable per-identity role record.
type RoleStore interface {
	// GetRole returns the stored raw role value and whether a row exists.
	GetRole(ctx context.Context, userID string) (role string, found bool, err error)
	// EnsureRole creates the row if missing and leaves an existing row untouched.
	EnsureRole(ctx context.Context, rec RoleRecord) error
	// SetRole creates or overwrites the row.
	SetRole(ctx context.Context, rec RoleRecord) error
}

// RoleRecord is one durable role row.
type RoleRecord struct {
	UserID string
	Email  string
	Role   domainauth.Role
}

// DeveloperOverrideStore holds the operator-managed developer email overrides.
type DeveloperOverrideStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, email string) error
	Remove(ctx context.Context, email string) error
}
