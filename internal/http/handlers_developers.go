package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/talent-ui-api/internal/domain/access"
)

// DeveloperDirectoryInterface is the operator-facing developer allowlist.
type DeveloperDirectoryInterface interface {
	Allowlist() access.DeveloperAllowlist
	Overrides(ctx context.Context) ([]string, error)
	AddOverride(ctx context.Context, email string) error
	RemoveOverride(ctx context.Context, email string) error
}

// DeveloperHandlers manages the developer override list.
type DeveloperHandlers struct {
	Svc    DeveloperDirectoryInterface
	Logger *slog.Logger
}

type developerOverrideRequest struct {
	Email string `json:"email"`
}

// List handles GET /api/admin/developers.
func (h *DeveloperHandlers) List(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Svc.Overrides(r.Context())
	if err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	if overrides == nil {
		overrides = []string{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"effective": h.Svc.Allowlist().Emails(),
		"overrides": overrides,
	})
}

// Add handles POST /api/admin/developers.
func (h *DeveloperHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req developerOverrideRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := h.Svc.AddOverride(r.Context(), req.Email); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/admin/developers/{email}.
func (h *DeveloperHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.RemoveOverride(r.Context(), r.PathValue("email")); err != nil {
		WriteAppError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
