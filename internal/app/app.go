package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-shop-api/internal/config"
	"go-shop-api/internal/database"
	"go-shop-api/internal/event"
	"go-shop-api/internal/handler"
	"go-shop-api/internal/metrics"
	"go-shop-api/internal/middleware"
	"go-shop-api/internal/permission"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/router"
	"go-shop-api/internal/seed"
	"go-shop-api/internal/service"
	"go-shop-api/internal/token"
	"go-shop-api/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// New connects the stores and wires every component. Whatever was opened
// before a failure is released again.
func New(ctx context.Context, cfg *config.Config) (app *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.cleanup()
		}
	}()

	slog.Info("connecting to document store")
	mongo, err := database.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}
	a.onShutdown(func() {
		if closeErr := mongo.Close(); closeErr != nil {
			slog.Warn("document store close failed", "error", closeErr)
		}
	})

	if err := mongo.EnsureIndexes(ctx, cfg.BlacklistRetention); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	checks := map[string]handler.Pinger{"mongodb": mongo}
	userRepo := repository.NewUserRepository(mongo)
	productRepo := repository.NewProductRepository(mongo)

	var blacklist repository.Blacklist = repository.NewMongoBlacklist(mongo)
	if cfg.BlacklistBackend == config.BlacklistRedis {
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisBlacklist := repository.NewRedisBlacklist(client, cfg.BlacklistRetention)
		a.onShutdown(func() { _ = redisBlacklist.Close() })
		blacklist = redisBlacklist
		checks["redis"] = redisBlacklist
	}

	var auditRepo repository.AuditRepository
	if cfg.AuditDatabaseURL != "" {
		slog.Info("connecting to audit database")
		db, err := database.NewPostgres(ctx, cfg.AuditDatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to audit database: %w", err)
		}
		a.onShutdown(db.Close)

		if err := db.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure audit schema: %w", err)
		}
		auditRepo = repository.NewAuditRepository(db.Pool)
		checks["postgres"] = db
	} else {
		slog.Warn("AUDIT_DATABASE_URL not set, audit trail is log only")
	}

	issuer, err := token.NewIssuer(map[token.Purpose]token.Config{
		token.Access:  {Secret: cfg.AccessTokenSecret, TTL: cfg.AccessTokenTTL},
		token.Refresh: {Secret: cfg.RefreshTokenSecret, TTL: cfg.RefreshTokenTTL},
		token.Reset:   {Secret: cfg.ResetTokenSecret, TTL: cfg.ResetTokenTTL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	if cfg.SeedOnStart {
		if err := seed.New(userRepo, productRepo, hasher, cfg.SeedPassword).Run(ctx); err != nil {
			return nil, err
		}
	}

	bus := event.NewBus()
	auditService := service.NewAuditService(auditRepo, nil)
	events, unsubscribe := bus.Subscribe()
	auditCtx, stopAudit := context.WithCancel(context.Background())
	go auditService.Run(auditCtx, events)
	a.onShutdown(func() {
		unsubscribe()
		stopAudit()
	})

	hub := websocket.NewHub(bus, cfg.CORSOrigins)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)
	a.onShutdown(stopHub)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("shop")
		m.GaugeFunc("events_dropped", "Domain events dropped because a subscriber was full.", func() float64 {
			return float64(bus.Dropped())
		})
		m.GaugeFunc("live_clients", "Connected live event feed clients.", func() float64 {
			return float64(hub.Clients())
		})
	}

	authService := service.NewAuthService(userRepo, blacklist, issuer, hasher, service.NewLogNotifier(nil), bus)
	userService := service.NewUserService(userRepo, bus)
	productService := service.NewProductService(productRepo, service.NewLinkBuilder(cfg.PublicBaseURL, cfg.APIVersion), bus)

	validator := handler.NewValidator()
	limits := handler.PageLimits{Default: cfg.DefaultPageSize, Max: cfg.MaxPageSize}

	appRouter := router.New(
		cfg,
		m,
		middleware.NewAuthMiddleware(issuer, blacklist, userRepo, permission.Default(), m),
		handler.NewAuthHandler(authService, userService, validator),
		handler.NewUserHandler(userService, limits),
		handler.NewProductHandler(productService, validator, limits),
		handler.NewAuditHandler(auditService, limits),
		handler.NewHealthHandler(time.Now(), checks),
		handler.NewDocsHandler(),
		hub,
	)

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

func (a *App) onShutdown(fn func()) {
	a.cleanupFuncs = append(a.cleanupFuncs, fn)
}

// cleanup releases resources in reverse order of acquisition.
func (a *App) cleanup() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests before
// closing the stores.
func (a *App) Run() error {
	defer a.cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
