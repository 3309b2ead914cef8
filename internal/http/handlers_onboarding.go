package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	domainauth "github.com/target/talent-ui-api/internal/domain/auth"
	"github.com/target/talent-ui-api/internal/ports"
	"github.com/target/talent-ui-api/internal/service"
)

// WaitlistServiceInterface is the waitlist behavior the handlers need.
type WaitlistServiceInterface interface {
	Join(ctx context.Context, req service.JoinWaitlistRequest) (*ports.WaitlistEntry, error)
	List(ctx context.Context, limit int) ([]ports.WaitlistEntry, error)
}

// SettingsServiceInterface is the settings behavior the handlers need.
type SettingsServiceInterface interface {
	Get(ctx context.Context, userID string, role domainauth.Role) (*service.Settings, error)
	Put(ctx context.Context, userID string, role domainauth.Role, blob []byte) error
	SetTwoFactor(ctx context.Context, userID string, enabled bool) error
}

// WaitlistHandlers serves waitlist signup and the operator listing.
type WaitlistHandlers struct {
	Svc    WaitlistServiceInterface
	Logger *slog.Logger
}

// Join handles POST /api/waitlist.
func (h *WaitlistHandlers) Join(w http.ResponseWriter, r *http.Request) {
	var req service.JoinWaitlistRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	entry, err := h.Svc.Join(r.Context(), req)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// List handles GET /api/admin/waitlist?limit=<n>.
func (h *WaitlistHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "validation",
				Err:     errors.New("limit must be an integer"),
				Field:   "limit",
			})
			return
		}
		limit = n
	}
	entries, err := h.Svc.List(r.Context(), limit)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if entries == nil {
		entries = []ports.WaitlistEntry{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// SettingsHandlers serves the current identity's settings. Routes are wrapped
// in RequireAuth, so a visitor is always in context.
type SettingsHandlers struct {
	Svc    SettingsServiceInterface
	Logger *slog.Logger
}

// Get handles GET /api/settings.
func (h *SettingsHandlers) Get(w http.ResponseWriter, r *http.Request) {
	v, _ := VisitorFromContext(r.Context())
	settings, err := h.Svc.Get(r.Context(), v.UserID, v.Role)
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, settings)
}

// Put handles PUT /api/settings with a JSON object body.
func (h *SettingsHandlers) Put(w http.ResponseWriter, r *http.Request) {
	v, _ := VisitorFromContext(r.Context())
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, service.MaxSettingsBytes))
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusRequestEntityTooLarge,
			ErrCode: "validation",
			Err:     errors.New("settings payload is too large"),
			Field:   "settings",
		})
		return
	}
	if err := h.Svc.Put(r.Context(), v.UserID, v.Role, body); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type twoFactorRequest struct {
	Enabled bool `json:"enabled"`
}

// SetTwoFactor handles PUT /api/settings/2fa.
func (h *SettingsHandlers) SetTwoFactor(w http.ResponseWriter, r *http.Request) {
	v, _ := VisitorFromContext(r.Context())
	var req twoFactorRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.Svc.SetTwoFactor(r.Context(), v.UserID, req.Enabled); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"two_factor_enabled": req.Enabled})
}
