package main

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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"orion.app/api/common/id"
	"orion.app/api/common/logger"
	"orion.app/api/common/otel"
	"orion.app/api/core/config"
	"orion.app/api/core/db"
	"orion.app/api/internal/app"
	"orion.app/api/internal/http/middleware"
	httprouter "orion.app/api/internal/http/router"
	"orion.app/api/internal/progress"
	"orion.app/api/internal/queue"
	"orion.app/api/internal/service"
	"orion.app/api/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, cfg.Env)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "orion api starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	dependencies := map[string]httprouter.Pinger{"postgres": database}

	// Without Redis, progress stays in process and async analysis is disabled.
	var (
		broker progress.Broker = progress.NewMemoryBroker()
		jobs   service.JobEnqueuer
	)
	if cfg.Pipeline.UsesRedisProgress() {
		redisClient, err := connectRedis(ctx, cfg.Pipeline.RedisURL)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.JobStream)

		broker = progress.NewRedisBroker(redisClient, cfg.Pipeline.ProgressPrefix, slog.Default())

		producer := queue.NewRedisProducer(redisClient, cfg.Pipeline.JobStream, slog.Default())
		defer producer.Close()
		jobs = producer

		dependencies["redis"] = httprouter.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	stores := store.NewStores(database.Queries())

	pipeline, err := app.NewPipeline(cfg, stores, broker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build analysis pipeline", "error", err)
		os.Exit(1)
	}

	services := service.NewServices(
		stores,
		service.NewTxRunner(database),
		pipeline.Orchestrator,
		pipeline.Indexes,
		jobs,
		cfg.Analysis,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, broker, dependencies)
	// No WriteTimeout: analyze requests wait on the model calls and the
	// progress stream stays open until the client leaves.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func setupRouter(cfg config.Config, services *service.Services, broker progress.Broker, dependencies map[string]httprouter.Pinger) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		Verifier:     middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Progress:     broker,
		Dependencies: dependencies,
	})

	return router
}

const banner = `
 ██████╗ ██████╗ ██╗ ██████╗ ███╗   ██╗     █████╗ ██████╗ ██╗
██╔═══██╗██╔══██╗██║██╔═══██╗████╗  ██║    ██╔══██╗██╔══██╗██║
██║   ██║██████╔╝██║██║   ██║██╔██╗ ██║    ███████║██████╔╝██║
██║   ██║██╔══██╗██║██║   ██║██║╚██╗██║    ██╔══██║██╔═══╝ ██║
╚██████╔╝██║  ██║██║╚██████╔╝██║ ╚████║    ██║  ██║██║     ██║
 ╚═════╝ ╚═╝  ╚═╝╚═╝ ╚═════╝ ╚═╝  ╚═══╝    ╚═╝  ╚═╝╚═╝     ╚═╝
`
