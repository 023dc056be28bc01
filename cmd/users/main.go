package main

import (
	"context"

	"gymstore/internal/users/handler"
	"gymstore/internal/users/repository"
	"gymstore/internal/users/service"
	"gymstore/internal/users/validator"
	"gymstore/pkg/app"
	"gymstore/pkg/config"
	"gymstore/pkg/mailer"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Users service")
	serverApp := app.NewApplication(cfg)
	userService := initServices(cfg, serverApp)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
	if err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		cfg.Log.Fatal("Failed to bootstrap admin account", "error", err)
	}
	cancel()

	serverApp.SetApp(handler.NewUserHandler(userService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application) service.UserService {
	userService := service.NewUserService(
		repository.NewMongoUserRepository(cfg),
		validator.NewUserValidator(cfg.Log),
		serverApp.Tokens(),
		mailer.NewNotifier(mailer.New(cfg), cfg.NotificationTimeout, cfg.Log),
		cfg,
	)

	if cfg.LoginOTPEnabled && cfg.SMTPHost == "" {
		cfg.Log.Warn("LOGIN_OTP_ENABLED without SMTP_HOST, user logins will fail until mail is configured")
	}
	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName, "login_otp", cfg.LoginOTPEnabled)
	return userService
}
