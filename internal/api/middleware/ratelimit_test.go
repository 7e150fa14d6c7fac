package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type stubLimiter struct {
	allowed    bool
	retryAfter time.Duration
	err        error
	lastKey    string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.lastKey = key
	return s.allowed, s.retryAfter, s.err
}

func runRateLimit(limiter *stubLimiter) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/login")

	h := RateLimit(limiter, zerolog.Nop())(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec
}

func TestRateLimit_Allows(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	rec := runRateLimit(limiter)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if limiter.lastKey == "" {
		t.Fatalf("limiter key must include caller and route")
	}
}

func TestRateLimit_RejectsWithRetryAfter(t *testing.T) {
	rec := runRateLimit(&stubLimiter{allowed: false, retryAfter: 30 * time.Second})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("expected Retry-After 30, got %q", got)
	}
}

func TestRateLimit_BackendFailureFailsOpen(t *testing.T) {
	rec := runRateLimit(&stubLimiter{err: context.DeadlineExceeded})
	if rec.Code != http.StatusOK {
		t.Fatalf("limiter outage must admit the request, got %d", rec.Code)
	}
}
