package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	authmocks "github.com/target/talent-ui-api/internal/mocks/auth"
	"github.com/target/talent-ui-api/internal/ports"
)

func drainTracker(t *testing.T, tr *RoleTracker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, tr.Drain(ctx))
}

func TestRoleTracker_PreliminaryThenDurable(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"u1": "student"})
	store.Gate = make(chan struct{})
	tr := NewRoleTracker(RoleTrackerOptions{Resolver: newTestResolver(store)})

	view := tr.Begin("s1", domainauth.Identity{UserID: "u1", ClaimedRole: "admin"})
	assert.Equal(t, domainauth.RoleAdmin, view.Role, "claimed role is published before the lookup returns")
	assert.False(t, view.Durable)

	close(store.Gate)
	drainTracker(t, tr)

	view, ok := tr.Current("s1")
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleStudent, view.Role)
	assert.Equal(t, domainauth.SourceStored, view.Source)
	assert.True(t, view.Durable)
}

func TestRoleTracker_BeginIsIdempotentPerUser(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"u1": "client"})
	tr := NewRoleTracker(RoleTrackerOptions{Resolver: newTestResolver(store)})

	tr.Begin("s1", domainauth.Identity{UserID: "u1", ClaimedRole: "student"})
	drainTracker(t, tr)

	view := tr.Begin("s1", domainauth.Identity{UserID: "u1", ClaimedRole: "student"})
	assert.Equal(t, domainauth.RoleClient, view.Role)
	assert.True(t, view.Durable)
}

func TestRoleTracker_EndDiscardsInFlightResolution(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"u1": "admin"})
	store.Gate = make(chan struct{})
	tr := NewRoleTracker(RoleTrackerOptions{Resolver: newTestResolver(store)})

	tr.Begin("s1", domainauth.Identity{UserID: "u1", ClaimedRole: "client"})
	tr.End("s1")

	close(store.Gate)
	drainTracker(t, tr)

	_, ok := tr.Current("s1")
	assert.False(t, ok, "a resolution for an ended session must not resurrect it")
}

func TestRoleTracker_StaleGenerationIsDiscarded(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"old": "admin", "new": "client"})
	store.Gate = make(chan struct{})
	tr := NewRoleTracker(RoleTrackerOptions{Resolver: newTestResolver(store)})

	tr.Begin("s1", domainauth.Identity{UserID: "old"})
	tr.Begin("s1", domainauth.Identity{UserID: "new", ClaimedRole: "student"})

	close(store.Gate)
	drainTracker(t, tr)

	view, ok := tr.Current("s1")
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleClient, view.Role)
	assert.Equal(t, domainauth.SourceStored, view.Source)
}

func TestRoleTracker_DeveloperOverlayIsLive(t *testing.T) {
	dir := NewDeveloperDirectory(DeveloperDirectoryOptions{Overrides: authmocks.NewMemoryDeveloperOverrides()})
	resolver := NewRoleResolver(RoleResolverOptions{Developers: dir})
	tr := NewRoleTracker(RoleTrackerOptions{Resolver: resolver})

	id := domainauth.Identity{UserID: "u1", Email: "ops@example.com", ClaimedRole: "student"}
	assert.Equal(t, domainauth.RoleStudent, tr.Begin("s1", id).Role)

	require.NoError(t, dir.AddOverride(context.Background(), "OPS@example.com"))

	view, ok := tr.Current("s1")
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleDeveloper, view.Role)
	drainTracker(t, tr)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRoleTracker_RefreshPicksUpStoredRoleChange(t *testing.T) {
	ctx := context.Background()
	store := authmocks.NewMemoryRoleStore(map[string]string{"u1": "admin"})
	clock := newTestClock()
	tr := NewRoleTracker(RoleTrackerOptions{
		Resolver:        newTestResolver(store),
		RefreshInterval: time.Minute,
		Now:             clock.Now,
	})
	id := domainauth.Identity{UserID: "u1", ClaimedRole: "student"}

	tr.Begin("s1", id)
	drainTracker(t, tr)
	assert.Equal(t, domainauth.RoleAdmin, tr.Begin("s1", id).Role)

	require.NoError(t, store.SetRole(ctx, ports.RoleRecord{UserID: "u1", Role: domainauth.RoleClient}))

	clock.Advance(30 * time.Second)
	tr.Begin("s1", id)
	drainTracker(t, tr)
	assert.Equal(t, domainauth.RoleAdmin, tr.Begin("s1", id).Role, "within the interval the tracked role is served")

	clock.Advance(31 * time.Second)
	view := tr.Begin("s1", id)
	assert.Equal(t, domainauth.RoleAdmin, view.Role, "the stale role is served while the refresh runs")
	drainTracker(t, tr)

	view = tr.Begin("s1", id)
	assert.Equal(t, domainauth.RoleClient, view.Role)
	assert.Equal(t, domainauth.SourceStored, view.Source)
	assert.True(t, view.Durable)
}

func TestRoleTracker_FailedRefreshKeepsLastRole(t *testing.T) {
	store := authmocks.NewMemoryRoleStore(map[string]string{"u1": "student"})
	clock := newTestClock()
	tr := NewRoleTracker(RoleTrackerOptions{
		Resolver:        newTestResolver(store),
		RefreshInterval: time.Minute,
		Now:             clock.Now,
	})
	id := domainauth.Identity{UserID: "u1", ClaimedRole: "admin"}

	tr.Begin("s1", id)
	drainTracker(t, tr)

	store.GetErr = errors.New("db down")
	clock.Advance(2 * time.Minute)
	tr.Begin("s1", id)
	drainTracker(t, tr)

	view, ok := tr.Current("s1")
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleStudent, view.Role, "a failed refresh must not fall back to the claim")
	assert.Equal(t, domainauth.SourceStored, view.Source)
}

func TestRoleTracker_PrunesExpiredSessions(t *testing.T) {
	clock := newTestClock()
	tr := NewRoleTracker(RoleTrackerOptions{
		Resolver:        newTestResolver(nil),
		RefreshInterval: time.Minute,
		Now:             clock.Now,
	})

	for i := range 100 {
		tr.Begin(fmt.Sprintf("s%d", i), domainauth.Identity{
			UserID:    fmt.Sprintf("u%d", i),
			ExpiresAt: clock.Now().Add(time.Hour),
		})
	}
	tr.Begin("long", domainauth.Identity{UserID: "long", ExpiresAt: clock.Now().Add(48 * time.Hour)})
	drainTracker(t, tr)
	require.Equal(t, 101, tr.Len())

	clock.Advance(2 * time.Hour)
	assert.Equal(t, 100, tr.Prune())
	assert.Equal(t, 1, tr.Len())

	_, ok := tr.Current("long")
	assert.True(t, ok)
}

func TestRoleTracker_BeginPrunesOnInterval(t *testing.T) {
	clock := newTestClock()
	tr := NewRoleTracker(RoleTrackerOptions{
		Resolver:        newTestResolver(nil),
		RefreshInterval: time.Minute,
		Now:             clock.Now,
	})

	tr.Begin("old", domainauth.Identity{UserID: "u1", ExpiresAt: clock.Now().Add(time.Minute)})
	clock.Advance(5 * time.Minute)
	tr.Begin("new", domainauth.Identity{UserID: "u2", ExpiresAt: clock.Now().Add(time.Hour)})
	drainTracker(t, tr)

	_, ok := tr.Current("old")
	assert.False(t, ok)
	assert.Equal(t, 1, tr.Len())
}

func TestRoleTracker_WatchStopsOnCancel(t *testing.T) {
	tr := NewRoleTracker(RoleTrackerOptions{Resolver: newTestResolver(nil)})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.Watch(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
