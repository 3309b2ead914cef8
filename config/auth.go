package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

const defaultSessionTTL = 24 * time.Hour

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"       envDefault:"talent"`
	ClientSecret string `env:"CLIENT_SECRET"   envDefault:"talent"`
	RedirectURL  string `env:"REDIRECT_URL"    envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"           envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	// RoleClaimPath is a JMESPath expression locating the self-reported role in ID token claims.
	RoleClaimPath string `env:"ROLE_CLAIM_PATH" envDefault:"user_metadata.role"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID      string `env:"USER_ID"      envDefault:"dev-user"`
	Email       string `env:"EMAIL"        envDefault:"dev@example.com"`
	ClaimedRole string `env:"CLAIMED_ROLE" envDefault:"student"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// SessionTTL bounds server-side session lifetime. IdP expiry wins when earlier.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL <= 0 {
		a.SessionTTL = defaultSessionTTL
	}
	a.OAuth.RoleClaimPath = strings.TrimSpace(a.OAuth.RoleClaimPath)
	a.DevAuth.Email = strings.TrimSpace(a.DevAuth.Email)
}
