package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/complaintdesk/complaints-api/internal/api/handler"
	"github.com/complaintdesk/complaints-api/internal/api/middleware"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
)

// loginThrottledMessage names the pause the client has to wait out. A
// non-positive window is the limiter's one-minute default.
func loginThrottledMessage(window time.Duration) string {
	if window <= 0 {
		window = time.Minute
	}
	seconds := int((window + time.Second - 1) / time.Second)
	return fmt.Sprintf("Too many login attempts from this IP, please try again after a %d second pause", seconds)
}

// RouterConfig carries everything the HTTP layer needs.
type RouterConfig struct {
	JWTSecret          string
	SecureCookies      bool
	CORSAllowedOrigins []string
	LegacyStatusCodes  bool
	LoginRateLimit     int
	LoginRateWindow    time.Duration

	Users      ports.UserService
	Complaints ports.ComplaintService
	Auth       ports.AuthService
	// Limiter may be nil, which disables login throttling.
	Limiter   ports.RateLimiter
	Readiness map[string]handler.Check
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger, ErrorHandlerOptions{LegacyStatusCodes: cfg.LegacyStatusCodes})

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(cfg.Logger))
	e.Use(echomiddleware.CORSWithConfig(corsConfig(cfg.CORSAllowedOrigins)))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "complaints",
		Registerer: cfg.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(cfg.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(cfg.Auth, cfg.SecureCookies)
	loginLimit := middleware.RateLimit(cfg.Limiter, middleware.RateLimitConfig{
		Name:    "login",
		Limit:   cfg.LoginRateLimit,
		Window:  cfg.LoginRateWindow,
		Message: loginThrottledMessage(cfg.LoginRateWindow),
	}, cfg.Logger)

	auth := e.Group("/auth")
	auth.POST("", authHandler.Login, loginLimit)
	auth.GET("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	// --- Protected resources ---
	requireAuth := middleware.Auth(cfg.JWTSecret)

	userHandler := handler.NewUserHandler(cfg.Users)
	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PATCH("", userHandler.Update)
	users.DELETE("", userHandler.Delete)

	complaintHandler := handler.NewComplaintHandler(cfg.Complaints)
	complaints := e.Group("/complaints", requireAuth)
	complaints.GET("", complaintHandler.List)
	complaints.POST("", complaintHandler.Create)
	complaints.PATCH("", complaintHandler.Update)
	complaints.DELETE("", complaintHandler.Delete)

	return e
}

func corsConfig(origins []string) echomiddleware.CORSConfig {
	cfg := echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	// Cookies are only sent cross-origin to an explicit allow list.
	cfg.AllowCredentials = len(origins) > 0 && origins[0] != "*"
	return cfg
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
