package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/target/talent-ui-api/internal/domain/access"
	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that requires an identity session. Guests
// and anonymous visitors get 401; an unreachable session store gets 503.
func RequireAuth(visitors VisitorLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := visitors.Visitor(r.Context(), sessionIDFromRequest(r))
			if !v.Settled {
				WriteError(w, ErrorParams{
					Code:    http.StatusServiceUnavailable,
					ErrCode: "session_unavailable",
					Err:     errors.New("session could not be loaded"),
				})
				return
			}
			if !v.HasSession {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetVisitorInContext(r.Context(), v)))
		})
	}
}

// RequireElevated returns a middleware that admits admin and developer
// visitors. The role must come from the allowlist or the stored role row;
// a self-reported claim alone is not enough.
func RequireElevated(visitors VisitorLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(visitors)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, _ := VisitorFromContext(r.Context())
			trusted := v.Source == domainauth.SourceAllowlist || v.Source == domainauth.SourceStored
			if !v.Role.IsElevated() || !trusted {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RouteGuardOptions configures RouteGuard.
type RouteGuardOptions struct {
	Access AccessServiceInterface
	// PollInterval is how often an unsettled visitor is re-checked. Defaults to 100ms.
	PollInterval time.Duration
	Logger       *slog.Logger
}

const defaultGuardPollInterval = 100 * time.Millisecond

// RouteGuard applies the route authorization guard to page requests. While
// the visitor is unsettled it re-checks until the grace period runs out, so
// the response is always a concrete allow or redirect.
func RouteGuard(opts RouteGuardOptions) func(http.Handler) http.Handler {
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultGuardPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sid := sessionIDFromRequest(r)
			start := time.Now()

			for {
				v := opts.Access.Visitor(ctx, sid)
				d := opts.Access.Decide(v, r.URL.Path, time.Since(start))
				switch d.Kind {
				case access.DecisionAllow:
					next.ServeHTTP(w, r.WithContext(SetVisitorInContext(ctx, v)))
					return
				case access.DecisionRedirect:
					http.Redirect(w, r, d.Location(), http.StatusSeeOther)
					return
				}

				wait := min(poll, max(opts.Access.GracePeriod()-time.Since(start), 0))
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					logger.DebugContext(ctx, "route guard abandoned", "path", r.URL.Path)
					return
				case <-timer.C:
				}
			}
		})
	}
}
