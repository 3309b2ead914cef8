package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/talent-ui-api/config"
)

// RunConfig contains everything Run needs.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    *Infrastructure
	Logger   *slog.Logger
}

// Run serves HTTP and refreshes the developer allowlist until ctx is canceled
// or SIGINT/SIGTERM arrives, then shuts down gracefully.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Infra:    cfg.Infra,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if cfg.Services.Developers != nil {
		g.Go(func() error {
			cfg.Services.Developers.Watch(gctx, cfg.Config.Access.DeveloperRefreshInterval)
			return nil
		})
	}

	if cfg.Services.Roles != nil {
		g.Go(func() error {
			cfg.Services.Roles.Watch(gctx, cfg.Config.Access.RoleRefreshInterval)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down services...")
		return shutdown(server, cfg.Services, cfg.Config.HTTP.ShutdownTimeout, logger)
	})

	return g.Wait()
}

func shutdown(server *http.Server, services ServiceContainer, timeout time.Duration, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	} else {
		logger.Info("HTTP server stopped")
	}
	if err := services.Drain(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
