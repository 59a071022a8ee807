package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
)

type stubLimiter struct {
	hits map[string]int
	err  error
}

func (l *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.hits[key]++
	return l.hits[key] <= limit, nil
}

func callLimited(t *testing.T, mw echo.MiddlewareFunc) (error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return err, called
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	limiter := &stubLimiter{hits: map[string]int{}}
	mw := RateLimit(limiter, RateLimitConfig{Name: "login", Limit: 2, Window: time.Minute, Message: "slow down"}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if err, called := callLimited(t, mw); err != nil || !called {
			t.Fatalf("request %d should pass: %v", i, err)
		}
	}

	err, called := callLimited(t, mw)
	if called {
		t.Fatalf("third request must be blocked")
	}
	if !errors.Is(err, domain.ErrTooManyRequests) || err.Error() != "slow down" {
		t.Fatalf("expected ErrTooManyRequests, got %v", err)
	}
	if limiter.hits["login:10.0.0.1"] != 3 {
		t.Fatalf("expected key per client ip, got %v", limiter.hits)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mw := RateLimit(&stubLimiter{err: errors.New("redis down")}, RateLimitConfig{Name: "login", Limit: 1}, zerolog.Nop())
	if err, called := callLimited(t, mw); err != nil || !called {
		t.Fatalf("limiter failure must let the request through: %v", err)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	if err, called := callLimited(t, RateLimit(nil, RateLimitConfig{Limit: 5}, zerolog.Nop())); err != nil || !called {
		t.Fatalf("nil limiter must pass through")
	}
	limiter := &stubLimiter{hits: map[string]int{}}
	if err, called := callLimited(t, RateLimit(limiter, RateLimitConfig{Limit: 0}, zerolog.Nop())); err != nil || !called {
		t.Fatalf("zero limit must pass through")
	}
	if len(limiter.hits) != 0 {
		t.Fatalf("disabled limit must not count")
	}
}
