package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-carbonwallet/internal/config"
	"backend-carbonwallet/internal/db"
	"backend-carbonwallet/internal/logging"
	"backend-carbonwallet/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	newLogger       func(production bool, level string) (*zap.Logger, error)
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) (*redis.Client, error)
	migrate         func(context.Context, db.Querier) error
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, *zap.Logger, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		newLogger:       logging.New,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		migrate:         db.Migrate,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	logger, err := deps.newLogger(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	pg, err := deps.connectPostgres(cfg)
	if err != nil {
		logger.Error("postgres connection failed", zap.Error(err))
	}
	if pg != nil && cfg.AutoMigrate {
		if err := deps.migrate(context.Background(), pg); err != nil {
			logger.Error("schema migration failed", zap.Error(err))
		}
	}

	rdb, err := deps.connectRedis(cfg)
	if err != nil {
		logger.Warn("redis unavailable, running without live relay", zap.Error(err))
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting api", zap.String("addr", cfg.ServerPort), zap.String("environment", cfg.Environment))
	if err := deps.run(context.Background(), cfg, pg, rdb, logger, signals, nil); err != nil {
		logger.Error("server exited with error", zap.Error(err))
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger, signals <-chan os.Signal, listen ListenFunc) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := server.NewServer(cfg, pg, rdb, logger)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if err := srv.Close(); err != nil {
		logger.Warn("event publisher close failed", zap.Error(err))
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
