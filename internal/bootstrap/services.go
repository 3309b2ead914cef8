package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/talent-ui-api/config"
	"github.com/target/talent-ui-api/internal/domain/access"
	"github.com/target/talent-ui-api/internal/observability/statsd"
	"github.com/target/talent-ui-api/internal/ports"
	"github.com/target/talent-ui-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth       *service.AuthService
	Access     *service.AccessService
	Resolver   *service.RoleResolver
	Roles      *service.RoleTracker
	Developers *service.DeveloperDirectory
	Waitlist   *service.WaitlistService // nil without a database
	Settings   *service.SettingsService
	Metrics    *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	// Provider overrides the provider built from Config.Auth.
	Provider ports.AuthProvider
	Logger   *slog.Logger
}

// buildMetrics returns the StatsD client; a dial failure disables metrics.
func buildMetrics(logger *slog.Logger, cfg config.ObservabilityMetricsConfig) *statsd.Client {
	client, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.IsEnabled(),
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client; metrics disabled", "error", err)
		return nil
	}
	return client
}

// NewServices wires the role resolution, access and onboarding services.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service config is required")
	}
	if deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("redis client is required for sessions")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	provider := deps.Provider
	if provider == nil {
		var err error
		if provider, err = BuildAuthProvider(cfg.Auth, logger); err != nil {
			return ServiceContainer{}, err
		}
	}

	repos := buildRepositories(deps.DB, deps.RedisClient, cfg.Access)
	metrics := buildMetrics(logger, cfg.Observability.Metrics)
	var sink statsd.Sink
	if metrics != nil {
		sink = metrics
	}

	developers := service.NewDeveloperDirectory(service.DeveloperDirectoryOptions{
		Configured: cfg.Access.DeveloperEmailList(),
		Overrides:  repos.Overrides,
		Logger:     logger,
	})
	if err := developers.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "developer overrides unavailable at startup; using configured list", "error", err)
	}

	resolver := service.NewRoleResolver(service.RoleResolverOptions{
		Store:      repos.Roles,
		Developers: developers,
		Config: service.RoleResolverConfig{
			LookupTimeout: cfg.Access.RoleResolutionTimeout,
			Logger:        logger,
			Metrics:       sink,
		},
	})
	tracker := service.NewRoleTracker(service.RoleTrackerOptions{
		Resolver:        resolver,
		RefreshInterval: cfg.Access.RoleRefreshInterval,
		Logger:          logger,
		Metrics:         sink,
	})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: repos.Sessions,
		Roles:    tracker,
		Config: service.AuthServiceConfig{
			SessionTTL: cfg.Auth.SessionTTL,
			Logger:     logger,
		},
	})
	accessSvc := service.NewAccessService(service.AccessServiceOptions{
		Sessions: auth,
		Roles:    tracker,
		Config: service.AccessServiceConfig{
			Guard:   access.NewGuard(cfg.Access.RoleResolutionTimeout),
			Logger:  logger,
			Metrics: sink,
		},
	})

	var waitlist *service.WaitlistService
	if repos.Waitlist != nil {
		waitlist = service.NewWaitlistService(service.WaitlistServiceOptions{
			Repo:      repos.Waitlist,
			Passcodes: cfg.Access.Passcodes(),
			Logger:    logger,
		})
	} else {
		logger.WarnContext(ctx, "waitlist disabled: database not configured")
	}

	return ServiceContainer{
		Auth:       auth,
		Access:     accessSvc,
		Resolver:   resolver,
		Roles:      tracker,
		Developers: developers,
		Waitlist:   waitlist,
		Settings:   service.NewSettingsService(repos.Settings),
		Metrics:    metrics,
	}, nil
}

// Drain waits for background role work to finish and closes the metrics sink.
func (c ServiceContainer) Drain(ctx context.Context) error {
	var errs []error
	if c.Roles != nil {
		if err := c.Roles.Drain(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain role tracker: %w", err))
		}
	}
	if c.Resolver != nil {
		if err := c.Resolver.Drain(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain role writes: %w", err))
		}
	}
	if c.Metrics != nil {
		if err := c.Metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close metrics: %w", err))
		}
	}
	return errors.Join(errs...)
}
