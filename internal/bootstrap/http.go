package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/target/talent-ui-api/config"
	httpx "github.com/target/talent-ui-api/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
}

// BuildHTTPHandler assembles the router from the service container.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Access:       cfg.Services.Access,
		Settings:     cfg.Services.Settings,
		Developers:   cfg.Services.Developers,
		Ready:        readinessChecks(cfg.Infra),
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	}
	// Assigned separately so a nil service stays a nil interface.
	if cfg.Services.Waitlist != nil {
		services.Waitlist = cfg.Services.Waitlist
	}
	if appCfg.HTTP.StaticDir != "" {
		logger.Info("serving SPA assets", "dir", appCfg.HTTP.StaticDir)
		services.App = httpx.NewSPAHandlerFromDir(appCfg.HTTP.StaticDir)
	}

	return httpx.NewRouter(services)
}

func readinessChecks(infra *Infrastructure) map[string]httpx.Pinger {
	checks := map[string]httpx.Pinger{}
	if infra == nil {
		return checks
	}
	if infra.DB != nil {
		checks["postgres"] = httpx.PingerFunc(infra.DB.PingContext)
	}
	if infra.Redis != nil {
		checks["redis"] = httpx.PingerFunc(func(ctx context.Context) error {
			return infra.Redis.Ping(ctx).Err()
		})
	}
	return checks
}

// NewHTTPServer creates the HTTP server without starting it.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	addr := ":8080"
	if cfg.Config != nil && cfg.Config.HTTP.Addr != "" {
		addr = cfg.Config.HTTP.Addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           BuildHTTPHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Page requests may wait out the role grace period in the route guard.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
