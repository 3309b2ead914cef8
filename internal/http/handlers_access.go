package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/target/talent-ui-api/internal/domain/access"
	"github.com/target/talent-ui-api/internal/service"
)

// AccessServiceInterface answers authorization and navigation questions.
type AccessServiceInterface interface {
	VisitorLoader
	Decide(v service.Visitor, path string, elapsed time.Duration) access.Decision
	Navigation(ctx context.Context, sessionID, path string) (access.Navigation, service.Visitor)
	NavigationTarget(ctx context.Context, sessionID, path string) access.Decision
	GracePeriod() time.Duration
}

// AccessHandlers exposes the route guard and navigation model to the SPA.
type AccessHandlers struct {
	Svc    AccessServiceInterface
	Logger *slog.Logger
}

// decisionResponse is a guard decision plus the rendered redirect location.
type decisionResponse struct {
	access.Decision
	Location string          `json:"location,omitempty"`
	Visitor  service.Visitor `json:"visitor"`
}

// navigationResponse is the navigation model plus the visitor it was built for.
type navigationResponse struct {
	access.Navigation
	Visitor service.Visitor `json:"visitor"`
}

// Authorize evaluates the route guard for a page path.
// GET /api/access/authorize?path=<path>&elapsed_ms=<ms>.
func (h *AccessHandlers) Authorize(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r)
	if !ok {
		return
	}
	elapsed, err := parseElapsed(r.URL.Query().Get("elapsed_ms"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err, Field: "elapsed_ms"})
		return
	}

	v := h.Svc.Visitor(r.Context(), sessionIDFromRequest(r))
	d := h.Svc.Decide(v, path, elapsed)
	WriteJSON(w, http.StatusOK, decisionResponse{Decision: d, Location: d.Location(), Visitor: v})
}

// Navigation returns the navigation set for a page path.
// GET /api/access/navigation?path=<path>.
func (h *AccessHandlers) Navigation(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = access.HomePath
	}
	nav, v := h.Svc.Navigation(r.Context(), sessionIDFromRequest(r), path)
	WriteJSON(w, http.StatusOK, navigationResponse{Navigation: nav, Visitor: v})
}

// Navigate resolves a click on a navigation entry.
// GET /api/access/navigate?path=<path>.
func (h *AccessHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePath(w, r)
	if !ok {
		return
	}
	d := h.Svc.NavigationTarget(r.Context(), sessionIDFromRequest(r), path)
	location := d.Location()
	if location == "" {
		location = d.Target
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"decision": d.Kind,
		"reason":   d.Reason,
		"location": location,
	})
}

func requirePath(w http.ResponseWriter, r *http.Request) (string, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Err:     errors.New("path is required"),
			Field:   "path",
		})
		return "", false
	}
	return path, true
}

// maxElapsedMillis is the largest elapsed_ms that fits in a time.Duration.
const maxElapsedMillis = math.MaxInt64 / int64(time.Millisecond)

func parseElapsed(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return 0, errors.New("elapsed_ms must be a non-negative integer")
	}
	if ms > maxElapsedMillis {
		return 0, fmt.Errorf("elapsed_ms must not exceed %d", maxElapsedMillis)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
