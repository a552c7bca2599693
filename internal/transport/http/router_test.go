package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/budget-bot/internal/config"
	"github.com/budget-bot/internal/infrastructure/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	return NewRouter(cfg, &Deps{MessageRepo: dynamo.NewMessageRepo(nil, "ProcessedMessages")})
}

func TestRouter_AdminRoutesAreRateLimited(t *testing.T) {
	router := testRouter(t)

	last := 0
	for i := 0; i < 25; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil)
		req.RemoteAddr = "198.51.100.7:4242"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouter_AdminRateLimitIsPerIP(t *testing.T) {
	router := testRouter(t)

	for i := 0; i < 25; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil)
		req.RemoteAddr = "198.51.100.8:4242"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/health-check/ping", nil)
	req.RemoteAddr = "203.0.113.9:4242"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_WebhookIsRateLimited(t *testing.T) {
	router := testRouter(t)

	last := 0
	for i := 0; i < 15; i++ {
		req := httptest.NewRequest(http.MethodPost, "/tracker", nil)
		req.RemoteAddr = "198.51.100.9:4242"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
