package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"order-admin/internal/config"
	"order-admin/internal/controllers/http"
	"order-admin/internal/infra"
	"order-admin/internal/infra/rabbitmq"
	"order-admin/internal/infra/tracing"
	"order-admin/internal/repository"
	"order-admin/internal/repository/memory"
	redisrepo "order-admin/internal/repository/redis"
	"order-admin/internal/services"
)

const serviceName = "order-admin"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
	log.Logger = logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		logger.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.InitTracerProvider(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal().Err(err).Msg("tracing: init")
	}

	metrics := infra.NewMetrics(prometheus.DefaultRegisterer)
	ordersClient := infra.NewOrdersClient(cfg.ServerURL, otel.Tracer(serviceName), metrics)

	var sessions repository.SessionRepository
	if cfg.RedisHost != "" {
		rdb, err := redisrepo.NewClient(ctx, cfg.RedisHost)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis: connect")
		}
		defer rdb.Close()
		sessions = redisrepo.NewSessionRepository(rdb, cfg.SessionTTL)
		logger.Info().Str("host", cfg.RedisHost).Msg("view sessions stored in redis")
	} else {
		sessions = memory.NewSessionRepository(cfg.SessionTTL)
		logger.Info().Msg("view sessions stored in memory")
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init publisher")
		}
		defer p.Close()
		publisher = p
	}

	dashboard := services.NewOrderDashboard(ordersClient, sessions, publisher, logger, services.Options{
		Reverse: cfg.DisplayOrder == config.DisplayReverse,
		Scope:   cfg.SelectionScope,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), http.RequestID(), http.Logger(logger))

	http.NewHandler(dashboard, logger, cfg.SessionTTL, cfg.SecureCookies).RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("orders_api", cfg.ServerURL).Msg("starting order admin console")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server run")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	dashboard.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracing shutdown")
	}
}
