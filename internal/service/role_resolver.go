package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/observability/metrics"
	"github.com/target/talent-ui-api/internal/observability/statsd"
	"github.com/target/talent-ui-api/internal/ports"
)

// DefaultRoleLookupTimeout bounds a single durable role lookup or write.
const DefaultRoleLookupTimeout = access.DefaultGracePeriod

// DeveloperChecker reports whether an email is on the developer allowlist.
type DeveloperChecker interface {
	IsDeveloper(email string) bool
}

// RoleResolverConfig holds optional tuning and observability hooks.
type RoleResolverConfig struct {
	LookupTimeout time.Duration
	Logger        *slog.Logger
	Metrics       statsd.Sink
}

// RoleResolverOptions groups dependencies for RoleResolver.
type RoleResolverOptions struct {
	Store      ports.RoleStore  // Optional: durable role rows; nil means claims only
	Developers DeveloperChecker // Optional: developer allowlist
	Config     RoleResolverConfig
}

// RoleResolver merges the developer allowlist, durable role rows and
// self-reported claims into one effective role.
type RoleResolver struct {
	store      ports.RoleStore
	developers DeveloperChecker
	timeout    time.Duration
	logger     *slog.Logger
	metrics    statsd.Sink

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewRoleResolver constructs a RoleResolver.
func NewRoleResolver(opts RoleResolverOptions) *RoleResolver {
	timeout := opts.Config.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultRoleLookupTimeout
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleResolver{
		store:      opts.Store,
		developers: opts.Developers,
		timeout:    timeout,
		logger:     logger.With("component", "role_resolver"),
		metrics:    opts.Config.Metrics,
	}
}

// Preliminary returns the role available without any I/O: the developer
// allowlist, then the claimed role, then client.
func (r *RoleResolver) Preliminary(id domainauth.Identity) domainauth.Resolution {
	return r.Overlay(id, r.Claimed(id))
}

// Claimed returns the role derived from the identity's self-reported claim.
func (r *RoleResolver) Claimed(id domainauth.Identity) domainauth.Resolution {
	if id.ClaimedRole == "" {
		return domainauth.Resolution{Role: domainauth.RoleClient, Source: domainauth.SourceFallback}
	}
	return domainauth.Resolution{Role: domainauth.NormalizeRole(id.ClaimedRole), Source: domainauth.SourceClaim}
}

// Overlay applies the developer allowlist on top of a base resolution.
func (r *RoleResolver) Overlay(id domainauth.Identity, base domainauth.Resolution) domainauth.Resolution {
	if r.developers != nil && id.Email != "" && r.developers.IsDeveloper(id.Email) {
		return domainauth.Resolution{Role: domainauth.RoleDeveloper, Source: domainauth.SourceAllowlist}
	}
	return base
}

// Resolve returns the effective role after consulting durable storage.
// It never fails: lookup errors leave the claimed role in place.
func (r *RoleResolver) Resolve(ctx context.Context, id domainauth.Identity) domainauth.Resolution {
	return r.Overlay(id, r.Durable(ctx, id))
}

// Durable returns the role from storage, the claim or the fallback, without
// the developer overlay. When no row exists one is created in the background
// from the claimed role.
func (r *RoleResolver) Durable(ctx context.Context, id domainauth.Identity) domainauth.Resolution {
	res, _ := r.Lookup(ctx, id)
	return res
}

// Lookup is Durable that also reports whether the store answered. On a failed
// lookup it returns the claimed role and false.
func (r *RoleResolver) Lookup(ctx context.Context, id domainauth.Identity) (domainauth.Resolution, bool) {
	claimed := r.Claimed(id)
	if r.store == nil || id.UserID == "" {
		return claimed, true
	}

	v, _, _ := r.group.Do(id.UserID, func() (any, error) {
		return r.lookup(ctx, id, claimed), nil
	})
	out, ok := v.(lookupResult)
	if !ok {
		return claimed, false
	}
	return out.res, out.ok
}

type lookupResult struct {
	res domainauth.Resolution
	ok  bool
}

func (r *RoleResolver) lookup(
	ctx context.Context,
	id domainauth.Identity,
	claimed domainauth.Resolution,
) lookupResult {
	start := time.Now()
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, found, err := r.store.GetRole(lookupCtx, id.UserID)
	if err != nil {
		r.logger.WarnContext(ctx, "durable role lookup failed; keeping claimed role",
			"user_id", id.UserID,
			"role", claimed.Role,
			"error", err,
		)
		metrics.EmitResolution(r.metrics, metrics.ResolutionMetric{
			Source:   claimed.Source,
			Result:   metrics.ResultError,
			Duration: time.Since(start),
		})
		return lookupResult{res: claimed}
	}

	if found {
		res := domainauth.Resolution{Role: domainauth.NormalizeRole(raw), Source: domainauth.SourceStored}
		metrics.EmitResolution(r.metrics, metrics.ResolutionMetric{
			Source:   res.Source,
			Result:   metrics.ResultSuccess,
			Duration: time.Since(start),
		})
		return lookupResult{res: res, ok: true}
	}

	r.ensure(ctx, id, claimed.Role)
	metrics.EmitResolution(r.metrics, metrics.ResolutionMetric{
		Source:   claimed.Source,
		Result:   metrics.ResultSuccess,
		Duration: time.Since(start),
	})
	return lookupResult{res: claimed, ok: true}
}

// ensure writes the first durable row without blocking the caller.
func (r *RoleResolver) ensure(ctx context.Context, id domainauth.Identity, role domainauth.Role) {
	if !role.Persistable() {
		return
	}
	rec := ports.RoleRecord{UserID: id.UserID, Email: access.NormalizeEmail(id.Email), Role: role}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		if err := r.store.EnsureRole(writeCtx, rec); err != nil {
			r.logger.WarnContext(writeCtx, "failed to create durable role row",
				"user_id", rec.UserID,
				"role", rec.Role,
				"error", err,
			)
			return
		}
		r.logger.DebugContext(writeCtx, "durable role row ensured", "user_id", rec.UserID, "role", rec.Role)
	}()
}

// Drain waits for background role writes to finish or ctx to end.
func (r *RoleResolver) Drain(ctx context.Context) error {
	return waitGroupContext(ctx, &r.wg)
}

func waitGroupContext(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
