package main

import (
	"gymstore/internal/bookings/handler"
	"gymstore/internal/bookings/repository"
	"gymstore/internal/bookings/service"
	"gymstore/internal/bookings/validator"
	"gymstore/pkg/app"
	"gymstore/pkg/config"
	"gymstore/pkg/mailer"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)
	bookingService := initServices(cfg, serverApp)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.BookingService {
	publisher, closePublisher := app.NewEventPublisher(cfg, cfg.BookingEventsTopic, ServiceName)
	serverApp.OnShutdown(closePublisher)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		bookingValidator,
		publisher,
		mailer.NewNotifier(mailer.New(cfg), cfg.NotificationTimeout, cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
