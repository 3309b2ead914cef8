package access

import (
	"net/url"
	"time"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

// DefaultGracePeriod bounds how long an unsettled role may hold a decision.
const DefaultGracePeriod = 5 * time.Second

// DecisionKind is the outcome class of an authorization check.
type DecisionKind string

const (
	DecisionAllow    DecisionKind = "allow"
	DecisionRedirect DecisionKind = "redirect"
	DecisionPending  DecisionKind = "pending"
)

// Reason explains which rule produced a decision.
type Reason string

const (
	ReasonPublic          Reason = "public"
	ReasonLoading         Reason = "loading"
	ReasonGuestRestricted Reason = "guest_restricted"
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonElevated        Reason = "elevated"
	ReasonArea            Reason = "area"
	ReasonAreaDenied      Reason = "area_denied"
)

// Request is everything the guard needs to decide on one navigation.
type Request struct {
	Path       string
	HasSession bool
	Guest      bool
	// Role is empty while unresolved.
	Role domainauth.Role
	// Settled is false until session restoration and the preliminary role are known.
	Settled bool
	// Elapsed is the time since the navigation began.
	Elapsed time.Duration
}

// Decision is the guard's verdict. Denials are values, never errors.
type Decision struct {
	Kind   DecisionKind `json:"decision"`
	Reason Reason       `json:"reason"`
	// Target is set for redirects.
	Target string `json:"target,omitempty"`
	// ShowSignup asks the login page to pre-select the signup form.
	ShowSignup bool `json:"show_signup,omitempty"`
	// ReturnTo is the original path for post-auth return.
	ReturnTo string `json:"return_to,omitempty"`
	// Role is the role the decision was made with.
	Role domainauth.Role `json:"role,omitempty"`
}

// Location renders the redirect target with its carried state as a URL.
func (d Decision) Location() string {
	if d.Kind != DecisionRedirect {
		return ""
	}
	q := url.Values{}
	if d.ShowSignup {
		q.Set("mode", "signup")
	}
	if d.ReturnTo != "" {
		q.Set("redirect_uri", d.ReturnTo)
	}
	u := url.URL{Path: d.Target, RawQuery: q.Encode()}
	return u.String()
}

// Guard evaluates route authorization rules in a fixed order.
type Guard struct {
	grace time.Duration
}

// NewGuard builds a guard; a non-positive grace period uses DefaultGracePeriod.
func NewGuard(grace time.Duration) *Guard {
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Guard{grace: grace}
}

// GracePeriod returns the configured loading timeout.
func (g *Guard) GracePeriod() time.Duration { return g.grace }

// Authorize decides whether req may render. It never panics or errors; an
// unsettled request is pending until the grace period elapses and concrete after.
func (g *Guard) Authorize(req Request) Decision {
	path := CleanPath(req.Path)

	if IsPublic(path) {
		return Decision{Kind: DecisionAllow, Reason: ReasonPublic, Role: req.Role}
	}

	role := req.Role
	if req.Guest {
		// Guest state and sessions are exclusive; a guest never carries a role.
		role = ""
	}
	if !req.Settled {
		if req.Elapsed < g.grace {
			return Decision{Kind: DecisionPending, Reason: ReasonLoading}
		}
		if role == "" {
			role = domainauth.RoleClient
		}
	}

	if req.Guest && IsGuestBlocked(path) {
		return loginRedirect(path, ReasonGuestRestricted, role)
	}

	if !req.HasSession && !req.Guest {
		return loginRedirect(path, ReasonUnauthenticated, role)
	}

	if role.IsElevated() {
		return Decision{Kind: DecisionAllow, Reason: ReasonElevated, Role: role}
	}

	// Guests and unresolved sessions browse the shared client area.
	if role != domainauth.RoleStudent {
		role = domainauth.RoleClient
	}
	if !permitted(role, path) {
		return Decision{Kind: DecisionRedirect, Reason: ReasonAreaDenied, Target: HomePath, Role: role}
	}
	return Decision{Kind: DecisionAllow, Reason: ReasonArea, Role: role}
}

func permitted(role domainauth.Role, path string) bool {
	switch role {
	case domainauth.RoleStudent:
		return IsStudentArea(path) || IsClientArea(path)
	default:
		return IsClientArea(path)
	}
}

func loginRedirect(path string, reason Reason, role domainauth.Role) Decision {
	return Decision{
		Kind:       DecisionRedirect,
		Reason:     reason,
		Target:     LoginPath,
		ShowSignup: true,
		ReturnTo:   path,
		Role:       role,
	}
}
