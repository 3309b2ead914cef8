package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandlerGET(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthHandlerHEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)
	rec := httptest.NewRecorder()

	healthHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len(), "expected empty body for HEAD request")
}

func TestReadyHandler(t *testing.T) {
	up := PingerFunc(func(context.Context) error { return nil })
	down := PingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("all up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		readyHandler(map[string]Pinger{"postgres": up, "redis": up}, discardLogger())(
			rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"OK","checks":{"postgres":"ok","redis":"ok"}}`, rec.Body.String())
	})

	t.Run("one down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		readyHandler(map[string]Pinger{"postgres": down, "redis": up}, discardLogger())(
			rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"postgres":"down"`)
		assert.NotContains(t, rec.Body.String(), "refused")
	})

	t.Run("routed", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		rec := h.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
