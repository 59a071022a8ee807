// @title                       Complaints API
// @version                     1.0
// @description                 Users and complaints backed by MongoDB, with JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	_ "github.com/complaintdesk/complaints-api/docs"
	"github.com/complaintdesk/complaints-api/internal/api"
	"github.com/complaintdesk/complaints-api/internal/api/handler"
	"github.com/complaintdesk/complaints-api/internal/core/domain"
	"github.com/complaintdesk/complaints-api/internal/core/ports"
	"github.com/complaintdesk/complaints-api/internal/core/service"
	"github.com/complaintdesk/complaints-api/internal/infrastructure/db"
	"github.com/complaintdesk/complaints-api/internal/infrastructure/db/redis"
	"github.com/complaintdesk/complaints-api/internal/infrastructure/queue"
	"github.com/complaintdesk/complaints-api/internal/pkg/config"
	"github.com/complaintdesk/complaints-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		File:    cfg.LogFile,
		Service: "complaints-api",
	})
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	var (
		rdb      *goredis.Client
		denylist ports.TokenDenylist
		limiter  ports.RateLimiter
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		denylist = redis.NewDenylist(rdb)
		limiter = redis.NewRateLimiter(rdb)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, logout revocation and login throttling disabled")
	}

	// Audit writes outlive the request that produced them but not the process.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, store.Audit, log)
	dispatcher.Start(auditCtx)

	userSvc := service.NewUserService(store.Users, dispatcher, service.UserServiceConfig{
		BcryptCost: cfg.Users.BcryptCost,
		Defaults:   domain.UserDefaults{Roles: cfg.Users.DefaultRoles, Active: true},
	}, log)
	complaintSvc := service.NewComplaintService(store.Complaints, store.Users, dispatcher, log)
	authSvc := service.NewAuthService(store.Users, denylist, service.AuthConfig{
		AccessSecret:  cfg.Auth.JWTSecret,
		RefreshSecret: cfg.Auth.JWTRefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	}, log)

	readiness := map[string]handler.Check{cfg.Store.Driver: store.Ping}
	if rdb != nil {
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	router := api.NewRouter(api.RouterConfig{
		JWTSecret:          cfg.Auth.JWTSecret,
		SecureCookies:      cfg.IsProduction(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		LegacyStatusCodes:  cfg.LegacyStatusCodes,
		LoginRateLimit:     cfg.Auth.LoginRateLimit,
		LoginRateWindow:    cfg.Auth.LoginRateWindow,
		Users:              userSvc,
		Complaints:         complaintSvc,
		Auth:               authSvc,
		Limiter:            limiter,
		Readiness:          readiness,
		Logger:             log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("api server starting")
		errorCh <- srv.ListenAndServe()
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	dispatcher.Stop()
	stopAudit()
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close failed")
	}
	log.Info().Msg("api server stopped")

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
