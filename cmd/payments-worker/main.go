package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"gymstore/internal/orders/repository"
	"gymstore/internal/orders/service"
	"gymstore/internal/orders/validator"
	"gymstore/internal/orders/worker"
	"gymstore/pkg/app"
	"gymstore/pkg/config"
	"gymstore/pkg/events"
	"gymstore/pkg/kafka"
	kafka_middleware "gymstore/pkg/kafka/middleware"
	"gymstore/pkg/mailer"
	"gymstore/pkg/metrics"
	"gymstore/pkg/middleware"
	"gymstore/pkg/payments/gateways"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ServiceName   = "payments-worker"
	ConsumerGroup = "payments-worker"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	publisher, closePublisher := app.NewEventPublisher(cfg, cfg.OrderEventsTopic, ServiceName)
	defer closePublisher()
	orderService := initServices(cfg, publisher)

	consumer := initConsumer(cfg, orderService)
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	server := initProbeServer(cfg)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		cfg.Log.Info("Consuming payment notifications", "topic", cfg.PaymentNotifyTopic, "group", ConsumerGroup)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Payment notification consumer stopped", "error", err)
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		cfg.Log.Info("Starting pending order reaper", "interval", cfg.ReaperInterval, "ttl", cfg.PendingOrderTTL)
		worker.NewReaper(orderService, cfg.ReaperInterval, cfg.Log).Run(ctx)
	}()
	go func() {
		defer wg.Done()
		cfg.Log.Info("Starting probe server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cfg.Log.Error("Probe server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	cfg.Log.Info("Shutdown signal received, stopping payments worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		cfg.Log.Error("Probe server shutdown failed", "error", err)
	}
	wg.Wait()
	cfg.Log.Info("Payments worker stopped")
}

func initServices(cfg *config.Config, publisher events.Publisher) service.OrderService {
	orderService := service.NewOrderService(
		repository.NewMongoOrderRepository(cfg),
		repository.NewMongoCartRepository(cfg),
		validator.NewOrderValidator(cfg.Log),
		gateways.FromConfig(cfg),
		publisher,
		mailer.NewNotifier(mailer.New(cfg), cfg.NotificationTimeout, cfg.Log),
		cfg,
	)

	cfg.Log.Info("Order service initialized", "database", cfg.MongoDatabaseName)
	return orderService
}

func initConsumer(cfg *config.Config, orderService service.OrderService) *kafka.Consumer {
	kafkaCfg := app.LoadKafkaConfig(cfg)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.PaymentNotifyTopic,
		ConsumerGroup,
		cfg.PaymentNotifyTopic+app.DLQSuffix,
		worker.NotificationHandler(orderService, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafka_middleware.MetricsConsumerMiddleware())
	}
	return consumer
}

// initProbeServer exposes /health, /ready and /metrics for the worker.
func initProbeServer(cfg *config.Config) *http.Server {
	metrics.Register()

	router := httprouter.New()
	app.NewHealthHandler(cfg.Client.Mongo, cfg.Client.Redis, cfg.Log).RegisterRoutes(router)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	var h http.Handler = router
	h = middleware.Recovery(cfg.Log)(h)

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
