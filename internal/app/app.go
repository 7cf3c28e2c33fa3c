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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/cinebook/internal/config"
	"github.com/kirinyoku/cinebook/internal/postgres"
	redisx "github.com/kirinyoku/cinebook/internal/redis"
	postgresrepo "github.com/kirinyoku/cinebook/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/cinebook/internal/repository/redis"
	"github.com/kirinyoku/cinebook/internal/service"
	"github.com/kirinyoku/cinebook/internal/service/admin"
	httpgin "github.com/kirinyoku/cinebook/internal/transport/http/gin"
	"github.com/kirinyoku/cinebook/internal/uow"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// secondEvictionDelay is how long after a session change the cache is
// dropped again, catching readers that refilled it from a pre-commit view.
const secondEvictionDelay = 500 * time.Millisecond

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	cache      *redisrepo.Cache
	pubsub     *redisx.SessionsPubSub
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx := context.Background()

	pgxPool, err := postgres.New(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	if err := postgres.Migrate(ctx, pgxPool); err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to migrate postgres: %w", err)
	}

	rdb, err := redisx.New(ctx, redisx.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisx.NewSessionsPubSub(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, "tickets", cfg.Booking.RateLimitPerMinute, time.Minute)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Booking.IdempotencyTTL)

	services := service.NewServices(uow.NewUoW(store), store.Repos(nil), cache, pubsub, logger, service.Config{
		Admin: admin.Config{SeatsPerRow: cfg.Booking.SeatsPerRow},
	})

	router := httpgin.NewRouter(services, idempotencyStore, limiter, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		pool:   pgxPool,
		rdb:    rdb,
		cache:  cache,
		pubsub: pubsub,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer a.pool.Close()
	defer a.rdb.Close()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, a.evictLater)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("sessions subscriber: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) evictLater(ctx context.Context, sessionID int64) {
	time.AfterFunc(secondEvictionDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := a.cache.InvalidateSession(ctx, sessionID); err != nil {
			a.logger.Warn("session cache eviction failed", "session_id", sessionID, "err", err)
			return
		}
		a.logger.Debug("session cache evicted", "session_id", sessionID)
	})
}
