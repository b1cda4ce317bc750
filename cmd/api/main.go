package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/devconnector/connector-api/internal/api"
	"github.com/devconnector/connector-api/internal/core/ports"
	mongodb "github.com/devconnector/connector-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devconnector/connector-api/internal/infrastructure/db/redis"
	"github.com/devconnector/connector-api/internal/infrastructure/queue"
	"github.com/devconnector/connector-api/internal/pkg/config"
	"github.com/devconnector/connector-api/pkg/logger"
)

// @title                       Connector API
// @version                     1.0
// @description                 Developer social feed: accounts, posts, reactions and comments.
// @BasePath                    /api
// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        x-auth-token
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		// Init is a no-op when run already built the logger.
		log := logger.Init(logger.Options{Level: "info"})
		log.Error().Err(err).Msg("connector-api stopped")
		os.Exit(1)
	}
}

// run owns every resource of the process. It returns instead of exiting so
// deferred cleanup always runs.
func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "connector-api",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	if err := mongodb.NewPostRepository(db).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("post indexes: %w", err)
	}

	// MUTATION_WORKERS=0 leaves post writes unserialized.
	var serial ports.Serializer
	if cfg.Posts.MutationWorkers > 0 {
		workerCtx, stopWorkers := context.WithCancel(context.Background())
		defer stopWorkers()
		dispatcher := queue.NewDispatcher(cfg.Posts.MutationWorkers, log)
		dispatcher.Start(workerCtx)
		serial = dispatcher
	}

	e := api.NewRouter(db, rdb, serial, cfg, log)
	return serve(ctx, e, ":"+cfg.Port, cfg.Server.ShutdownTimeout, log)
}

// serve runs e on addr until ctx is cancelled or the listener fails, then
// shuts it down within timeout.
func serve(ctx context.Context, e *echo.Echo, addr string, timeout time.Duration, log zerolog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
