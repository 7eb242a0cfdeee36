package pkgrouter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sankalp250/health-insight-dashboard/internal/pkg/pkgerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouterHealthz(t *testing.T) {
	ro := NewRouter(&staticGenerator{value: "cid"})

	rec := serve(t, ro, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "cid", rec.Header().Get(HeaderCorrelationID))
}

func TestRouterWritesPayloadAsIs(t *testing.T) {
	ro := NewRouter(nil)
	ro.GET("/items", func(ctx context.Context, r *http.Request) (any, error) {
		return map[string]int{"total": 2}, nil
	})

	rec := serve(t, ro, http.MethodGet, "/items")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":2}`, rec.Body.String())
}

func TestRouterMapsErrors(t *testing.T) {
	ro := NewRouter(nil)
	ro.GET("/invalid", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, pkgerror.NewInvalidField("limit", "must be between 1 and 500")
	})
	ro.GET("/boom", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, errors.New("boom")
	})

	rec := serve(t, ro, http.MethodGet, "/invalid")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"validation error","error":{"limit":"must be between 1 and 500"}}`, rec.Body.String())

	rec = serve(t, ro, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	ro := NewRouter(nil)
	ro.POST("/chat", func(ctx context.Context, r *http.Request) (any, error) {
		return nil, nil
	})

	rec := serve(t, ro, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"endpoint not found"}`, rec.Body.String())

	rec = serve(t, ro, http.MethodGet, "/chat")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(t, ro, http.MethodPost, "/chat")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterRecoversPanics(t *testing.T) {
	ro := NewRouter(nil)
	ro.GET("/panic", func(ctx context.Context, r *http.Request) (any, error) {
		panic("kaboom")
	})

	rec := serve(t, ro, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
}
