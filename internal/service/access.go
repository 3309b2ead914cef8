package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/observability/metrics"
	"github.com/target/talent-ui-api/internal/observability/statsd"
	"github.com/target/talent-ui-api/internal/ports"
)

// SessionReader loads a live session by id.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// AccessServiceConfig holds optional collaborators for AccessService.
type AccessServiceConfig struct {
	Guard   *access.Guard // Defaults to a guard with the standard grace period
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// AccessServiceOptions groups dependencies for AccessService.
type AccessServiceOptions struct {
	Sessions SessionReader // Required
	Roles    *RoleTracker  // Required
	Config   AccessServiceConfig
}

// Visitor is the resolved session and role state of one request.
type Visitor struct {
	SessionID  string                `json:"-"`
	HasSession bool                  `json:"authenticated"`
	Guest      bool                  `json:"guest"`
	UserID     string                `json:"user_id,omitempty"`
	Email      string                `json:"email,omitempty"`
	Role       domainauth.Role       `json:"role,omitempty"`
	Source     domainauth.RoleSource `json:"role_source,omitempty"`
	// Settled is false when the session store could not be reached.
	Settled bool `json:"settled"`
	// Durable is true once the stored role has been consulted.
	Durable bool `json:"role_durable"`
}

// AccessService answers route authorization and navigation questions for a
// session id.
type AccessService struct {
	sessions SessionReader
	roles    *RoleTracker
	guard    *access.Guard
	logger   *slog.Logger
	metrics  statsd.Sink
}

// NewAccessService constructs an AccessService.
func NewAccessService(opts AccessServiceOptions) *AccessService {
	if opts.Sessions == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("SessionReader is required")
	}
	if opts.Roles == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("RoleTracker is required")
	}
	guard := opts.Config.Guard
	if guard == nil {
		guard = access.NewGuard(access.DefaultGracePeriod)
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessService{
		sessions: opts.Sessions,
		roles:    opts.Roles,
		guard:    guard,
		logger:   logger.With("component", "access_service"),
		metrics:  opts.Config.Metrics,
	}
}

// GracePeriod returns the loading grace period of the guard.
func (s *AccessService) GracePeriod() time.Duration { return s.guard.GracePeriod() }

// Visitor loads the session and role state for sessionID. It never fails;
// store errors produce an unsettled visitor.
func (s *AccessService) Visitor(ctx context.Context, sessionID string) Visitor {
	v := Visitor{SessionID: sessionID, Settled: true}
	if sessionID == "" {
		return v
	}

	sess, err := s.sessions.GetSession(ctx, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, ports.ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return v
	default:
		s.logger.WarnContext(ctx, "session lookup failed; visitor unresolved", "error", err)
		v.Settled = false
		return v
	}

	switch {
	case sess.IsGuest():
		v.Guest = true
	case sess.Authenticated():
		view := s.roles.Begin(sess.ID, sess.Identity())
		v.HasSession = true
		v.UserID = sess.UserID
		v.Email = sess.Email
		v.Role = view.Role
		v.Source = view.Source
		v.Durable = view.Durable
	}
	return v
}

// Authorize evaluates the route guard for path. elapsed is the time since the
// navigation began and only matters while the visitor is unsettled.
func (s *AccessService) Authorize(
	ctx context.Context,
	sessionID, path string,
	elapsed time.Duration,
) (access.Decision, Visitor) {
	v := s.Visitor(ctx, sessionID)
	d := s.Decide(v, path, elapsed)
	return d, v
}

// Decide runs the guard against an already loaded visitor.
func (s *AccessService) Decide(v Visitor, path string, elapsed time.Duration) access.Decision {
	d := s.guard.Authorize(access.Request{
		Path:       path,
		HasSession: v.HasSession,
		Guest:      v.Guest,
		Role:       v.Role,
		Settled:    v.Settled,
		Elapsed:    elapsed,
	})
	metrics.EmitDecision(s.metrics, d)
	if d.Kind == access.DecisionRedirect {
		s.logger.Debug("route redirected",
			"path", access.CleanPath(path),
			"target", d.Target,
			"reason", d.Reason,
			"role", d.Role,
		)
	}
	return d
}

// Navigation selects the navigation set for path.
func (s *AccessService) Navigation(ctx context.Context, sessionID, path string) (access.Navigation, Visitor) {
	v := s.Visitor(ctx, sessionID)
	return access.SelectNavigation(access.NavRequest{
		Path:   path,
		Role:   v.Role,
		Guest:  v.Guest,
		UserID: v.UserID,
	}), v
}

// NavigationTarget decides where clicking a navigation entry for path leads.
func (s *AccessService) NavigationTarget(ctx context.Context, sessionID, path string) access.Decision {
	v := s.Visitor(ctx, sessionID)
	return access.NavigationTarget(path, v.Guest)
}
