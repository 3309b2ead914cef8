package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/talent-ui-api/config"
	"github.com/target/talent-ui-api/internal/adapters/devauth"
	"github.com/target/talent-ui-api/internal/adapters/oidc"
	"github.com/target/talent-ui-api/internal/ports"
)

// BuildAuthProvider creates the identity provider for the configured auth mode.
//
//nolint:ireturn // the provider implementation is selected by AUTH_MODE at runtime.
func BuildAuthProvider(cfg config.AuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Mode {
	case config.AuthModeMock:
		logger.Warn("mock authentication enabled; do not use in production",
			"user_id", cfg.DevAuth.UserID,
			"claimed_role", cfg.DevAuth.ClaimedRole,
		)
		prov, err := devauth.NewProvider(devauth.Config{
			UserID:          cfg.DevAuth.UserID,
			Email:           cfg.DevAuth.Email,
			ClaimedRole:     cfg.DevAuth.ClaimedRole,
			SessionDuration: cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("create dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth, "":
		oauth := cfg.OAuth
		if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
			logger.Error("oauth mode selected but required config missing",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
			return nil, errors.New("oauth configuration incomplete")
		}
		prov, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:      oauth.ClientID,
			ClientSecret:  oauth.ClientSecret,
			RedirectURL:   oauth.RedirectURL,
			Scope:         oauth.Scope,
			DiscoveryURL:  oauth.DiscoveryURL,
			RoleClaimPath: oauth.RoleClaimPath,
		})
		if err != nil {
			return nil, fmt.Errorf("create oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}
