package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	redisadapter "github.com/target/talent-ui-api/internal/adapters/redis"
	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	authmocks "github.com/target/talent-ui-api/internal/mocks/auth"
	"github.com/target/talent-ui-api/internal/ports"
	"github.com/target/talent-ui-api/internal/service"
	"github.com/target/talent-ui-api/internal/testutil"
)

const testDeveloperEmail = "dev@talent.test"

type harness struct {
	provider   *authmocks.MockAuthProvider
	sessions   *authmocks.MemorySessionStore
	roles      *authmocks.MemoryRoleStore
	overrides  *authmocks.MemoryDeveloperOverrides
	waitlist   *memoryWaitlist
	tracker    *service.RoleTracker
	auth       *service.AuthService
	access     *service.AccessService
	developers *service.DeveloperDirectory
	handler    http.Handler
}

type harnessOptions struct {
	Grace time.Duration
	App   http.Handler
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	h := &harness{
		provider:  authmocks.NewMockAuthProvider(),
		sessions:  authmocks.NewMemorySessionStore(),
		roles:     authmocks.NewMemoryRoleStore(nil),
		overrides: authmocks.NewMemoryDeveloperOverrides(),
		waitlist:  &memoryWaitlist{},
	}
	h.developers = service.NewDeveloperDirectory(service.DeveloperDirectoryOptions{
		Configured: []string{testDeveloperEmail},
		Overrides:  h.overrides,
	})
	resolver := service.NewRoleResolver(service.RoleResolverOptions{
		Store:      h.roles,
		Developers: h.developers,
		Config:     service.RoleResolverConfig{LookupTimeout: time.Second},
	})
	h.tracker = service.NewRoleTracker(service.RoleTrackerOptions{Resolver: resolver})
	h.auth = service.NewAuthService(service.AuthServiceOptions{
		Provider: h.provider,
		Sessions: h.sessions,
		Roles:    h.tracker,
	})
	h.access = service.NewAccessService(service.AccessServiceOptions{
		Sessions: h.auth,
		Roles:    h.tracker,
		Config:   service.AccessServiceConfig{Guard: access.NewGuard(opts.Grace)},
	})

	_, rdb := testutil.SetupTestRedis(t)
	settings := service.NewSettingsService(redisadapter.NewSettingsStore(rdb))
	waitlist := service.NewWaitlistService(service.WaitlistServiceOptions{
		Repo:      h.waitlist,
		Passcodes: access.NewPasscodePolicy("", "", ""),
	})

	h.handler = NewRouter(RouterServices{
		Auth:       h.auth,
		Access:     h.access,
		Waitlist:   waitlist,
		Settings:   settings,
		Developers: h.developers,
		App:        opts.App,
		Ready: map[string]Pinger{
			"redis": PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
	})

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = h.tracker.Drain(ctx)
		_ = resolver.Drain(ctx)
	})
	return h
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

// login runs the login and callback round trip and returns the session cookie.
func (h *harness) login(t *testing.T, user domainauth.Identity) *http.Cookie {
	t.Helper()
	if user.UserID != "" {
		h.provider.DefaultUser = user
	}

	rec := h.do(t, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/browse-jobs", nil))
	require.Equal(t, http.StatusFound, rec.Code)

	cookies := rec.Result().Cookies()
	state := cookieValue(cookies, "oauth_state")
	require.NotEmpty(t, state)

	cb := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state="+url.QueryEscape(state), nil)
	for _, c := range cookies {
		cb.AddCookie(c)
	}
	rec = h.do(t, cb)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	require.Equal(t, "/browse-jobs", rec.Header().Get("Location"))

	sid := cookieValue(rec.Result().Cookies(), SessionCookieName)
	require.NotEmpty(t, sid)
	return &http.Cookie{Name: SessionCookieName, Value: sid}
}

func (h *harness) guest(t *testing.T) *http.Cookie {
	t.Helper()
	rec := h.do(t, httptest.NewRequest(http.MethodPost, "/auth/guest", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	sid := cookieValue(rec.Result().Cookies(), SessionCookieName)
	require.NotEmpty(t, sid)
	return &http.Cookie{Name: SessionCookieName, Value: sid}
}

func withCookie(req *http.Request, c *http.Cookie) *http.Request {
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name && c.MaxAge >= 0 {
			return c.Value
		}
	}
	return ""
}

type memoryWaitlist struct {
	mu      sync.Mutex
	entries []ports.WaitlistEntry
}

func (m *memoryWaitlist) Create(_ context.Context, email, name string, role domainauth.Role) (*ports.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := ports.WaitlistEntry{ID: "w-" + email, Email: email, Name: name, Role: role, CreatedAt: time.Now()}
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memoryWaitlist) List(_ context.Context, limit int) ([]ports.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[:min(limit, len(m.entries))], nil
}
