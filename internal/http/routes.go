package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       AuthServiceInterface   // Optional: auth routes are skipped when nil
	Access     AccessServiceInterface // Required
	Waitlist   WaitlistServiceInterface
	Settings   SettingsServiceInterface
	Developers DeveloperDirectoryInterface

	// Ready lists dependencies checked by /readyz.
	Ready map[string]Pinger

	// App serves SPA pages behind the route guard. Optional.
	App http.Handler

	CookieDomain string
	Logger       *slog.Logger // Optional
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Ready, logger))

	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          services.Auth,
			Visitors:     services.Access,
			CookieDomain: services.CookieDomain,
			Logger:       logger,
		})
	}
	registerAccessRoutes(mux, &AccessHandlers{Svc: services.Access, Logger: logger})

	if services.Waitlist != nil {
		registerWaitlistRoutes(mux, &WaitlistHandlers{Svc: services.Waitlist, Logger: logger}, services.Access)
	}
	if services.Settings != nil {
		registerSettingsRoutes(mux, &SettingsHandlers{Svc: services.Settings, Logger: logger}, services.Access)
	}
	if services.Developers != nil {
		registerDeveloperRoutes(mux, &DeveloperHandlers{Svc: services.Developers, Logger: logger}, services.Access)
	}

	mux.HandleFunc("/api/", notFoundJSON)
	if services.App != nil {
		guard := RouteGuard(RouteGuardOptions{Access: services.Access, Logger: logger})
		mux.Handle("GET /", guardPages(guard, services.App))
	}

	return Recover(logger)(Logging(logger)(mux))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/guest", h.Guest)
}

func registerAccessRoutes(mux *http.ServeMux, h *AccessHandlers) {
	mux.HandleFunc("GET /api/access/authorize", h.Authorize)
	mux.HandleFunc("GET /api/access/navigation", h.Navigation)
	mux.HandleFunc("GET /api/access/navigate", h.Navigate)
}

func registerWaitlistRoutes(mux *http.ServeMux, h *WaitlistHandlers, visitors VisitorLoader) {
	mux.HandleFunc("POST /api/waitlist", h.Join)
	mux.Handle("GET /api/admin/waitlist", RequireElevated(visitors)(http.HandlerFunc(h.List)))
}

func registerSettingsRoutes(mux *http.ServeMux, h *SettingsHandlers, visitors VisitorLoader) {
	auth := RequireAuth(visitors)
	mux.Handle("GET /api/settings", auth(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/settings", auth(http.HandlerFunc(h.Put)))
	mux.Handle("PUT /api/settings/2fa", auth(http.HandlerFunc(h.SetTwoFactor)))
}

func registerDeveloperRoutes(mux *http.ServeMux, h *DeveloperHandlers, visitors VisitorLoader) {
	elevated := RequireElevated(visitors)
	mux.Handle("GET /api/admin/developers", elevated(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/admin/developers", elevated(http.HandlerFunc(h.Add)))
	mux.Handle("DELETE /api/admin/developers/{email}", elevated(http.HandlerFunc(h.Remove)))
}
