package main

import (
	"gymstore/internal/orders/handler"
	"gymstore/internal/orders/repository"
	"gymstore/internal/orders/service"
	"gymstore/internal/orders/validator"
	"gymstore/pkg/app"
	"gymstore/pkg/config"
	"gymstore/pkg/contracts"
	"gymstore/pkg/mailer"
	"gymstore/pkg/middleware"
	"gymstore/pkg/payments/gateways"
)

const ServiceName = "orders"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Orders service")
	serverApp := app.NewApplication(cfg)
	orderService := initServices(cfg, serverApp)

	handlers := []contracts.Handler{handler.NewOrderHandler(orderService, cfg.Log)}
	if webhooks := initWebhooks(cfg, serverApp); webhooks != nil {
		handlers = append(handlers, webhooks)
	}
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.OrderService {
	publisher, closePublisher := app.NewEventPublisher(cfg, cfg.OrderEventsTopic, ServiceName)
	serverApp.OnShutdown(closePublisher)

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

// initWebhooks queues gateway notifications for cmd/payments-worker. Without
// Kafka the webhook routes are not served, so gateways keep retrying instead
// of having their notifications acknowledged and lost.
func initWebhooks(cfg *config.Config, serverApp *app.Application) *handler.WebhookHandler {
	notifications, closeNotifications, ok := app.NewEventSender(cfg, cfg.PaymentNotifyTopic, ServiceName)
	if !ok {
		cfg.Log.Warn("KAFKA_BROKERS not set, payment webhook routes are disabled")
		return nil
	}
	serverApp.OnShutdown(closeNotifications)

	if cfg.MercadoPagoWebhookSecret == "" {
		cfg.Log.Warn("MERCADOPAGO_WEBHOOK_SECRET not set, Mercado Pago webhooks will be rejected")
	}
	return handler.NewWebhookHandler(
		notifications,
		middleware.MercadoPagoSignature(cfg.MercadoPagoWebhookSecret, cfg.Log),
		cfg.Log,
	)
}
