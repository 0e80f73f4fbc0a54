package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/eventra/gateway"
	fiberadapter "github.com/eventra/gateway/adapters/fiber"
	pgxadapter "github.com/eventra/gateway/adapters/pgx"
	redisadapter "github.com/eventra/gateway/adapters/redis"
	"github.com/eventra/gateway/adapters/sqlite"
	"github.com/eventra/gateway/api"
	"github.com/eventra/gateway/config"
	"github.com/eventra/gateway/core"
	memcache "github.com/eventra/gateway/pkg/cache"
)

const cleanupInterval = time.Hour

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	storage, closeStorage, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("storage error", "error", err)
		os.Exit(1)
	}
	defer closeStorage()

	var cache core.Cache
	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		cache = redisadapter.New(client, 0)
		log.Info("session cache", "backend", "redis", "addr", cfg.RedisAddr)
	} else {
		cache = memcache.New(memcache.Config{})
		log.Info("session cache", "backend", "memory")
	}

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time}|${requestid}|${status}|${latency}|${method}|${path}\n",
		TimeFormat: "2006/01/02 15:04:05",
		TimeZone:   "Local",
	}))

	client := api.NewClient(cfg.PlatformAPIURL, cfg.PlatformAPITimeout, log)

	_, err = gateway.New(gateway.Config{
		API:               client,
		Storage:           storage,
		Cache:             cache,
		HTTP:              fiberadapter.New(app),
		SessionMaxAge:     cfg.SessionMaxAge,
		CookieName:        cfg.CookieName,
		PendingCookieName: cfg.PendingCookieName,
		Logger:            log,
	})
	if err != nil {
		log.Error("could not assemble gateway", "error", err)
		os.Exit(1)
	}

	stopCleanup := startExpiryCleanup(ctx, storage, log)
	defer stopCleanup()

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Error("app.Listen", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("gateway listening", "addr", cfg.HTTPAddress(), "upstream", cfg.PlatformAPIURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

// openStorage picks Postgres when DATABASE_URL is set, otherwise the
// default single-file SQLite store.
func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (core.SessionStorage, func(), error) {
	if cfg.DatabaseURL != "" {
		adapter, err := pgxadapter.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("session storage", "backend", "postgres")
		return adapter, adapter.Close, nil
	}

	adapter, err := sqlite.Open(cfg.SessionDBPath)
	if err != nil {
		return nil, nil, err
	}
	log.Info("session storage", "backend", "sqlite", "path", cfg.SessionDBPath)
	return adapter, func() { _ = adapter.Close() }, nil
}

// startExpiryCleanup periodically removes expired session records so stale
// rows from crashed browsers do not accumulate.
func startExpiryCleanup(ctx context.Context, storage core.SessionStorage, log *slog.Logger) func() {
	ticker := time.NewTicker(cleanupInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				n, err := storage.DeleteExpiredSessions(ctx)
				if err != nil {
					log.Warn("expired session cleanup", "error", err)
					continue
				}
				if n > 0 {
					log.Info("expired sessions removed", "count", n)
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
