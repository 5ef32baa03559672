package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pah-access/internal/access"
	"pah-access/internal/config"
	"pah-access/internal/database"
	"pah-access/internal/event"
	"pah-access/internal/gateway"
	"pah-access/internal/handler"
	"pah-access/internal/metrics"
	"pah-access/internal/middleware"
	"pah-access/internal/repository"
	"pah-access/internal/router"
	"pah-access/internal/service"
	"pah-access/internal/session"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New(cfg *config.Config) (*App, error) {
	a := &App{}
	ctx := context.Background()

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	binder, err := a.openSessions(ctx, cfg)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	policy := access.NewPolicy()
	bus := event.NewBus()
	gw := gateway.New(store, policy, bus)

	authService := service.NewAuthService(gw, session.NewManager(cfg.SessionTTL), bus)
	userService := service.NewUserService(gw, policy, bus)
	if err := userService.SeedAdmin(ctx, cfg.SeedAdminPassword); err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	sessions := middleware.NewSessionMiddleware(binder, authService, policy, bus)
	appMetrics := metrics.New()
	appRouter := router.New(cfg, sessions, router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(userService),
		Status: handler.NewStatusHandler(userService),
		Docs:   handler.NewDocsHandler(),
	}, appMetrics)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	go event.LogEvents(bgCtx, bus, slog.Default().With("component", "events"))
	go appMetrics.CountEvents(bgCtx, bus)
	go service.NewKeepAlive(gw, cfg.KeepAliveInterval).OnResult(appMetrics.SetStoreUp).Run(bgCtx)
	// stop background work before the store and session backends close
	a.cleanupFuncs = append([]func(){bgCancel}, a.cleanupFuncs...)

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (gateway.Store, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		slog.Warn("using in-memory user store; users are lost on restart")
		return repository.NewMemoryUserRepository(), nil
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, database.Options{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		ConnectAttempts: cfg.DBConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.cleanupFuncs = append(a.cleanupFuncs, db.Close)

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	slog.Info("database ready")
	return repository.NewUserRepository(db.Pool), nil
}

func (a *App) openSessions(ctx context.Context, cfg *config.Config) (session.Binder, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.cleanupFuncs = append(a.cleanupFuncs, func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close redis client", "error", err)
			}
		})

		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		slog.Info("session backend ready", "backend", cfg.SessionBackend, "addr", cfg.RedisAddr)
		return session.NewTabBinder(session.NewRedisStorage(client, cfg.RedisRetention), cfg.SessionCookieSecure), nil

	case config.SessionBackendMemory:
		slog.Info("session backend ready", "backend", cfg.SessionBackend)
		return session.NewTabBinder(session.NewMemoryStorage(), cfg.SessionCookieSecure), nil

	default:
		slog.Info("session backend ready", "backend", config.SessionBackendCookie)
		return session.NewCookieBinder(session.NewSigner(cfg.SessionSecret), cfg.SessionCookieSecure), nil
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
	a.cleanupFuncs = nil
}
