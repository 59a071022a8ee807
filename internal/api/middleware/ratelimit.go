package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
	"github.com/complaintdesk/complaints-api/internal/pkg/metrics"
)

// RateLimitConfig describes one throttled route.
type RateLimitConfig struct {
	// Name prefixes the limiter key, e.g. "login".
	Name   string
	Limit  int
	Window time.Duration
	// Message is returned with 429 when the limit is exceeded.
	Message string
}

// RateLimit throttles requests per client IP. With a nil limiter or a
// non-positive limit it passes every request through. Limiter failures are
// logged and the request is allowed.
func RateLimit(limiter ports.RateLimiter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil || cfg.Limit <= 0 {
			return next
		}
		return func(c echo.Context) error {
			key := cfg.Name + ":" + c.RealIP()
			allowed, err := limiter.Allow(c.Request().Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				return next(c)
			}
			if !allowed {
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				log.Warn().
					Str("ip", c.RealIP()).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Msg(cfg.Message)
				return domain.TooManyRequests("%s", cfg.Message)
			}
			return next(c)
		}
	}
}
