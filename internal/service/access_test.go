package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	authmocks "github.com/target/talent-ui-api/internal/mocks/auth"
	"github.com/target/talent-ui-api/internal/ports"
)

type accessFixture struct {
	*authFixture
	roles  *authmocks.MemoryRoleStore
	access *AccessService
}

func newAccessFixture(
	t *testing.T,
	claimed string,
	stored map[string]string,
	opts ...func(*RoleTrackerOptions),
) *accessFixture {
	t.Helper()
	roles := authmocks.NewMemoryRoleStore(stored)
	trackerOpts := RoleTrackerOptions{Resolver: newTestResolver(roles)}
	for _, opt := range opts {
		opt(&trackerOpts)
	}
	f := &authFixture{
		provider: authmocks.NewMockAuthProvider(),
		sessions: authmocks.NewMemorySessionStore(),
		tracker:  NewRoleTracker(trackerOpts),
	}
	f.provider.DefaultUser.ClaimedRole = claimed
	f.svc = NewAuthService(AuthServiceOptions{Provider: f.provider, Sessions: f.sessions, Roles: f.tracker})
	t.Cleanup(func() { drainTracker(t, f.tracker) })

	return &accessFixture{
		authFixture: f,
		roles:       roles,
		access:      NewAccessService(AccessServiceOptions{Sessions: f.svc, Roles: f.tracker}),
	}
}

func TestAccessService_NoSessionRedirectsToLogin(t *testing.T) {
	f := newAccessFixture(t, "client", nil)

	d, v := f.access.Authorize(context.Background(), "", "/browse-jobs", 0)

	assert.Equal(t, access.DecisionRedirect, d.Kind)
	assert.Equal(t, access.ReasonUnauthenticated, d.Reason)
	assert.Equal(t, "/auth?mode=signup&redirect_uri=%2Fbrowse-jobs", d.Location())
	assert.True(t, v.Settled)

	d, _ = f.access.Authorize(context.Background(), "unknown-session", "/waitlist", 0)
	assert.Equal(t, access.DecisionAllow, d.Kind)
}

func TestAccessService_Guest(t *testing.T) {
	f := newAccessFixture(t, "client", nil)
	guest, err := f.svc.EnterGuest(context.Background(), "")
	require.NoError(t, err)

	d, v := f.access.Authorize(context.Background(), guest.ID, "/post-job", 0)
	assert.True(t, v.Guest)
	assert.Equal(t, access.DecisionRedirect, d.Kind)
	assert.Equal(t, access.LoginPath, d.Target)
	assert.True(t, d.ShowSignup)

	d, _ = f.access.Authorize(context.Background(), guest.ID, "/browse-jobs", 0)
	assert.Equal(t, access.DecisionAllow, d.Kind)

	nav := f.access.NavigationTarget(context.Background(), guest.ID, "/client/settings")
	assert.Equal(t, access.DecisionRedirect, nav.Kind)
}

func TestAccessService_AdminToGuestDropsElevation(t *testing.T) {
	f := newAccessFixture(t, "admin", nil)
	f.roles.Gate = make(chan struct{})
	ctx := context.Background()

	login := completeLogin(t, f.authFixture, "")
	d, v := f.access.Authorize(ctx, login.Session.ID, "/admin/users", 0)
	require.Equal(t, access.DecisionAllow, d.Kind)
	assert.Equal(t, domainauth.RoleAdmin, v.Role)

	guest, err := f.svc.EnterGuest(ctx, login.Session.ID)
	require.NoError(t, err)

	close(f.roles.Gate)
	drainTracker(t, f.tracker)

	d, _ = f.access.Authorize(ctx, guest.ID, "/admin/users", 0)
	assert.Equal(t, access.DecisionRedirect, d.Kind)

	d, _ = f.access.Authorize(ctx, login.Session.ID, "/admin/users", 0)
	assert.Equal(t, access.DecisionRedirect, d.Kind)
	assert.Equal(t, access.ReasonUnauthenticated, d.Reason)
}

func TestAccessService_StoredRoleRefinesNextNavigation(t *testing.T) {
	f := newAccessFixture(t, "admin", map[string]string{"mock-user-1": "student"})
	f.roles.Gate = make(chan struct{})
	ctx := context.Background()

	login := completeLogin(t, f.authFixture, "")
	d, _ := f.access.Authorize(ctx, login.Session.ID, "/admin-dashboard", 0)
	assert.Equal(t, access.DecisionAllow, d.Kind)

	close(f.roles.Gate)
	drainTracker(t, f.tracker)

	d, v := f.access.Authorize(ctx, login.Session.ID, "/admin-dashboard", 0)
	assert.Equal(t, domainauth.RoleStudent, v.Role)
	assert.True(t, v.Durable)
	assert.Equal(t, access.DecisionRedirect, d.Kind)
	assert.Equal(t, access.HomePath, d.Target)

	d, _ = f.access.Authorize(ctx, login.Session.ID, "/resources", 0)
	assert.Equal(t, access.DecisionAllow, d.Kind)
}

func TestAccessService_DemotionTakesEffectAfterRefresh(t *testing.T) {
	clock := newTestClock()
	f := newAccessFixture(t, "student", map[string]string{"mock-user-1": "admin"}, func(o *RoleTrackerOptions) {
		o.RefreshInterval = time.Minute
		o.Now = clock.Now
	})
	ctx := context.Background()

	login := completeLogin(t, f.authFixture, "")
	drainTracker(t, f.tracker)

	d, v := f.access.Authorize(ctx, login.Session.ID, "/admin/users", 0)
	require.Equal(t, domainauth.RoleAdmin, v.Role)
	require.Equal(t, access.DecisionAllow, d.Kind)

	require.NoError(t, f.roles.SetRole(ctx, ports.RoleRecord{UserID: "mock-user-1", Role: domainauth.RoleClient}))
	clock.Advance(2 * time.Minute)

	// The visit that notices the stale role starts the refresh.
	_, _ = f.access.Authorize(ctx, login.Session.ID, "/admin/users", 0)
	drainTracker(t, f.tracker)

	d, v = f.access.Authorize(ctx, login.Session.ID, "/admin/users", 0)
	assert.Equal(t, domainauth.RoleClient, v.Role)
	assert.Equal(t, domainauth.SourceStored, v.Source)
	assert.Equal(t, access.DecisionRedirect, d.Kind)
}

func TestAccessService_StoreErrorIsPendingThenClient(t *testing.T) {
	f := newAccessFixture(t, "student", nil)
	login := completeLogin(t, f.authFixture, "")
	f.sessions.Err = errors.New("dial tcp: connection refused")
	ctx := context.Background()

	d, v := f.access.Authorize(ctx, login.Session.ID, "/student-dashboard", 4999*time.Millisecond)
	assert.False(t, v.Settled)
	assert.Equal(t, access.DecisionPending, d.Kind)

	d, _ = f.access.Authorize(ctx, login.Session.ID, "/student-dashboard", access.DefaultGracePeriod)
	assert.Equal(t, access.DecisionRedirect, d.Kind)
	assert.NotEqual(t, access.DecisionPending, d.Kind)
}

func TestAccessService_Navigation(t *testing.T) {
	f := newAccessFixture(t, "student", nil)
	login := completeLogin(t, f.authFixture, "")
	ctx := context.Background()

	nav, _ := f.access.Navigation(ctx, login.Session.ID, "/student-dashboard")
	assert.Equal(t, access.NavSetStudent, nav.Set)
	found := false
	for _, item := range nav.Items {
		if item.Path == access.StudentProfilePath("mock-user-1") {
			found = true
		}
	}
	assert.True(t, found, "student profile entry points at the user's own profile")

	nav, _ = f.access.Navigation(ctx, login.Session.ID, "/")
	assert.Equal(t, access.NavSetClient, nav.Set)
}
