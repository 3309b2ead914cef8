package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/talent-ui-api/internal/errors"
)

func TestDetermineErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.Validation("bad"), http.StatusBadRequest},
		{apperrors.NotFound("gone"), http.StatusNotFound},
		{apperrors.Conflict("dup"), http.StatusConflict},
		{apperrors.Forbidden("no"), http.StatusForbidden},
		{apperrors.Wrap(errors.New("slow"), apperrors.ErrCodeTimeout, "timed out"), http.StatusGatewayTimeout},
		{fmt.Errorf("join: %w", apperrors.ValidationField("email", "bad")), http.StatusBadRequest},
		{apperrors.Internal("oops"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetermineErrorStatus(tt.err), "%v", tt.err)
	}
}

func TestWriteAppError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/waitlist", nil)

	rec := httptest.NewRecorder()
	WriteAppError(rec, req, discardLogger(), fmt.Errorf("create: %w", apperrors.ValidationField("passcode", "Invalid passcode.")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"validation","message":"Invalid passcode.","field":"passcode"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteAppError(rec, req, discardLogger(), errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Contains(t, rec.Body.String(), `"error":"internal"`)
}
