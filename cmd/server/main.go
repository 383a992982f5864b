package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/casting-agency/internal/auth"
	"github.com/iliyamo/casting-agency/internal/config"
	"github.com/iliyamo/casting-agency/internal/database"
	"github.com/iliyamo/casting-agency/internal/handler"
	"github.com/iliyamo/casting-agency/internal/middleware"
	"github.com/iliyamo/casting-agency/internal/queue"
	"github.com/iliyamo/casting-agency/internal/repository"
	"github.com/iliyamo/casting-agency/internal/router"
)

func main() {
	cfg := config.Load() // Load environment config
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	logger.Info("database connection pool established")

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable: rate limiting falls back to memory and caching is off")
	} else {
		defer rdb.Close()
	}

	verifier, err := auth.NewVerifier(cfg.Auth, logger)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.EventsEnabled {
		events = queue.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue, logger)
		if cfg.AuditConsumerEnabled {
			go func() {
				if err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, cfg.EventsQueue, logger); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("audit consumer stopped", "error", err)
				}
			}()
		}
	}

	h := handler.New(
		repository.NewMovieRepo(db),
		repository.NewActorRepo(db),
		repository.NewDirectorRepo(db),
		repository.NewMovieActorRepo(db),
		events,
		logger,
	)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoprometheus.NewMiddleware("casting"))

	checks := map[string]handler.Check{"mysql": db.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	router.RegisterRoutes(e, cfg.Auth, checks)
	rlCfg := config.LoadRateLimitConfig()
	router.RegisterResources(e, h, verifier,
		[]echo.MiddlewareFunc{middleware.NewTokenBucket(rlCfg.PreAuth(), rdb, logger)},
		middleware.NewTokenBucket(rlCfg, rdb, logger),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger),
	)

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	h.Wait()
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
