package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/ports"
)

// DefaultSessionTTL applies when neither the config nor the IdP bounds a session.
const DefaultSessionTTL = 24 * time.Hour

// ErrSessionExpired is returned when a stored session is past its expiry.
var ErrSessionExpired = errors.New("session expired")

// AuthServiceConfig holds optional settings for AuthService.
type AuthServiceConfig struct {
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    *RoleTracker // Optional: publishes roles for new sessions
	Config   AuthServiceConfig
}

// AuthService orchestrates login, guest entry and logout. Identity sessions
// and guest sessions are mutually exclusive: establishing one always drops
// the previous session.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    *RoleTracker
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.Config.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		ttl:      ttl,
		logger:   logger.With("component", "auth_service"),
		now:      now,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
	// PreviousSessionID is the visitor's current session, if any. It is
	// removed once the new session is stored.
	PreviousSessionID string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
	Role    RoleView
}

// CompleteLogin exchanges the code for an identity, stores a new session and
// publishes its preliminary role.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if identity.UserID == "" {
		return nil, errors.New("identity has no subject")
	}

	now := s.now()
	session := domainauth.Session{
		ID:          generateSessionID(),
		UserID:      identity.UserID,
		Email:       identity.Email,
		ClaimedRole: identity.ClaimedRole,
		CreatedAt:   now,
		ExpiresAt:   s.expiry(now, identity.ExpiresAt),
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	s.dropPrevious(ctx, input.PreviousSessionID, session.ID)

	result := &CompleteLoginResult{Session: session}
	if s.roles != nil {
		result.Role = s.roles.Begin(session.ID, session.Identity())
	}

	s.logger.InfoContext(ctx, "login completed",
		"user_id", session.UserID,
		"role", result.Role.Role,
		"role_source", result.Role.Source,
	)
	return result, nil
}

// EnterGuest replaces any current session with a guest session.
func (s *AuthService) EnterGuest(ctx context.Context, previousSessionID string) (*domainauth.Session, error) {
	now := s.now()
	session := domainauth.Session{
		ID:        generateSessionID(),
		Guest:     true,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save guest session: %w", err)
	}

	s.dropPrevious(ctx, previousSessionID, session.ID)
	s.logger.DebugContext(ctx, "guest session started")
	return &session, nil
}

// GetSession retrieves a live session by ID. Missing sessions wrap
// ports.ErrSessionNotFound; expired sessions are removed and return
// ErrSessionExpired. Either way the session's tracked role is dropped.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("get session: %w", ports.ErrSessionNotFound)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			s.forget(sessionID)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !session.ExpiresAt.IsZero() && s.now().After(session.ExpiresAt) {
		s.forget(sessionID)
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes a session and forgets its role.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	s.forget(sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (s *AuthService) dropPrevious(ctx context.Context, previousID, currentID string) {
	if previousID == "" || previousID == currentID {
		return
	}
	s.forget(previousID)
	if err := s.sessions.Delete(ctx, previousID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete replaced session", "error", err)
	}
}

func (s *AuthService) forget(sessionID string) {
	if s.roles != nil {
		s.roles.End(sessionID)
	}
}

// expiry caps the configured TTL at the IdP token expiry when one is known.
func (s *AuthService) expiry(now, idpExpiry time.Time) time.Time {
	exp := now.Add(s.ttl)
	if !idpExpiry.IsZero() && idpExpiry.After(now) && idpExpiry.Before(exp) {
		return idpExpiry
	}
	return exp
}

// generateSessionID creates a random, URL-safe session ID.
func generateSessionID() string {
	return uuid.NewString()
}
