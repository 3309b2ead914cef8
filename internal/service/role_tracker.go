package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/observability/metrics"
	"github.com/target/talent-ui-api/internal/observability/statsd"
)

// DefaultRoleRefreshInterval is how long a durable role is served before the
// stored row is read again.
const DefaultRoleRefreshInterval = 30 * time.Second

// RoleTrackerOptions groups dependencies for RoleTracker.
type RoleTrackerOptions struct {
	Resolver *RoleResolver // Required
	// RefreshInterval bounds how stale a durable role may get. Defaults to
	// DefaultRoleRefreshInterval.
	RefreshInterval time.Duration
	Logger          *slog.Logger     // Optional
	Metrics         statsd.Sink      // Optional
	Now             func() time.Time // Optional
}

// RoleView is the current role of one session.
type RoleView struct {
	domainauth.Resolution
	// Durable is true once the durable lookup has completed for the session.
	Durable bool
}

type roleState struct {
	gen        uint64
	identity   domainauth.Identity
	base       domainauth.Resolution
	durable    bool
	checkedAt  time.Time
	refreshing bool
}

// RoleTracker publishes a preliminary role per session immediately and refines
// it once the durable lookup returns. Durable roles older than the refresh
// interval are re-read in the background while the previous role is served.
// Every lookup gets a new generation; a result is applied only while its
// generation is still current.
type RoleTracker struct {
	resolver *RoleResolver
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink
	now      func() time.Time

	mu        sync.Mutex
	gen       uint64
	states    map[string]*roleState
	lastPrune time.Time

	wg sync.WaitGroup
}

// NewRoleTracker constructs a RoleTracker.
func NewRoleTracker(opts RoleTrackerOptions) *RoleTracker {
	if opts.Resolver == nil {
		//nolint:forbidigo // Service construction must fail fast during wiring when dependencies are missing
		panic("RoleResolver is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = DefaultRoleRefreshInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &RoleTracker{
		resolver: opts.Resolver,
		interval: interval,
		logger:   logger.With("component", "role_tracker"),
		metrics:  opts.Metrics,
		now:      now,
		states:   make(map[string]*roleState),
	}
}

// Begin binds an identity to a session and returns its current role. Calling
// Begin again for the same session and user returns the tracked role and
// starts a background refresh once it is older than the refresh interval.
func (t *RoleTracker) Begin(sessionID string, id domainauth.Identity) RoleView {
	now := t.now()

	t.mu.Lock()
	if now.Sub(t.lastPrune) >= t.interval {
		t.pruneLocked(now)
	}
	if st, ok := t.states[sessionID]; ok && st.identity.UserID == id.UserID {
		st.identity = id
		view := t.view(st)
		gen, refresh := t.markRefreshLocked(st, now)
		t.mu.Unlock()
		if refresh {
			t.startLookup(sessionID, gen, id)
		}
		return view
	}

	t.gen++
	st := &roleState{
		gen:      t.gen,
		identity: id,
		base:     t.resolver.Claimed(id),
	}
	t.states[sessionID] = st
	view := t.view(st)
	gen := st.gen
	t.mu.Unlock()

	t.startLookup(sessionID, gen, id)
	return view
}

// Current returns the role of a tracked session. A stale durable role is
// refreshed in the background.
func (t *RoleTracker) Current(sessionID string) (RoleView, bool) {
	t.mu.Lock()
	st, ok := t.states[sessionID]
	if !ok {
		t.mu.Unlock()
		return RoleView{}, false
	}
	view := t.view(st)
	id := st.identity
	gen, refresh := t.markRefreshLocked(st, t.now())
	t.mu.Unlock()

	if refresh {
		t.startLookup(sessionID, gen, id)
	}
	return view, true
}

// End forgets a session. A refinement still in flight for it is discarded.
func (t *RoleTracker) End(sessionID string) {
	if sessionID == "" {
		return
	}
	t.mu.Lock()
	delete(t.states, sessionID)
	t.mu.Unlock()
}

// Len reports how many sessions are tracked.
func (t *RoleTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.states)
}

// Prune forgets sessions whose identity has expired and returns how many were
// removed.
func (t *RoleTracker) Prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pruneLocked(t.now())
}

// Watch prunes expired sessions every interval until ctx is canceled.
func (t *RoleTracker) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = t.interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Prune(); n > 0 {
				t.logger.DebugContext(ctx, "pruned expired role sessions", "count", n)
			}
		}
	}
}

// Drain waits for in-flight refinements to finish or ctx to end.
func (t *RoleTracker) Drain(ctx context.Context) error {
	return waitGroupContext(ctx, &t.wg)
}

func (t *RoleTracker) startLookup(sessionID string, gen uint64, id domainauth.Identity) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		res, ok := t.resolver.Lookup(context.Background(), id)
		t.apply(sessionID, gen, res, ok)
	}()
}

// markRefreshLocked claims a new generation for a durable role that is due
// for a refresh. Must be called with t.mu held.
func (t *RoleTracker) markRefreshLocked(st *roleState, now time.Time) (uint64, bool) {
	if !st.durable || st.refreshing || now.Sub(st.checkedAt) < t.interval {
		return 0, false
	}
	t.gen++
	st.gen = t.gen
	st.refreshing = true
	return st.gen, true
}

// pruneLocked must be called with t.mu held.
func (t *RoleTracker) pruneLocked(now time.Time) int {
	t.lastPrune = now
	removed := 0
	for sid, st := range t.states {
		if exp := st.identity.ExpiresAt; !exp.IsZero() && now.After(exp) {
			delete(t.states, sid)
			removed++
		}
	}
	return removed
}

func (t *RoleTracker) apply(sessionID string, gen uint64, res domainauth.Resolution, ok bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, found := t.states[sessionID]
	if !found || st.gen != gen {
		t.logger.Debug("discarding stale role resolution", "generation", gen, "role", res.Role)
		metrics.EmitResolution(t.metrics, metrics.ResolutionMetric{Source: res.Source, Result: metrics.ResultStale})
		return false
	}
	st.refreshing = false
	st.checkedAt = t.now()
	if !ok && st.durable {
		// A failed refresh keeps the last known role until the next interval.
		return false
	}
	if st.base.Role != res.Role {
		t.logger.Info("session role refined",
			"user_id", st.identity.UserID,
			"from", st.base.Role,
			"to", res.Role,
			"source", res.Source,
		)
	}
	st.base = res
	st.durable = true
	return true
}

// view must be called with t.mu held. The developer overlay is applied on
// read so allowlist changes take effect without a new lookup.
func (t *RoleTracker) view(st *roleState) RoleView {
	return RoleView{
		Resolution: t.resolver.Overlay(st.identity, st.base),
		Durable:    st.durable,
	}
}
