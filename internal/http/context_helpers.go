package httpx

import (
	"context"
	"net/http"

	"github.com/target/talent-ui-api/internal/service"
)

// SessionCookieName holds the opaque session id for both identity and guest sessions.
const SessionCookieName = "session_id"

// visitorKey is an unexported context key type to avoid collisions across packages.
type visitorKey struct{}

// SetVisitorInContext returns a child context that carries the visitor.
func SetVisitorInContext(ctx context.Context, v service.Visitor) context.Context {
	return context.WithValue(ctx, visitorKey{}, v)
}

// VisitorFromContext returns the visitor loaded by middleware and whether one was present.
func VisitorFromContext(ctx context.Context) (service.Visitor, bool) {
	v, ok := ctx.Value(visitorKey{}).(service.Visitor)
	return v, ok
}

// sessionIDFromRequest returns the session cookie value, or "".
func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
