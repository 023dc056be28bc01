package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		MongoURI:            DefaultMongoURI,
		MongoDatabaseName:   DefaultMongoDatabaseName,
		MongoConnTimeout:    DefaultMongoConnTimeout,
		Port:                DefaultPort,
		JWTTokenTTL:         DefaultJWTTokenTTL,
		LoginOTPEnabled:     DefaultLoginOTPEnabled,
		LoginOTPTTL:         DefaultLoginOTPTTL,
		SMTPPort:            DefaultSMTPPort,
		Currency:            DefaultCurrency,
		DeliveryCharge:      DefaultDeliveryCharge,
		GatewayTimeout:      DefaultGatewayTimeout,
		NotificationTimeout: DefaultNotificationTimeout,
		PendingOrderTTL:     DefaultPendingOrderTTL,
		ReaperInterval:      DefaultReaperInterval,
		DefaultPhoneRegion:  DefaultPhoneRegion,
		EventPublishTimeout: DefaultEventPublishTimeout,
		RateLimitRequests:   DefaultRateLimitRequests,
		RateLimitWindow:     DefaultRateLimitWindow,
		RequestTimeout:      DefaultRequestTimeout,
		IdempotencyTTL:      DefaultIdempotencyTTL,
		MaxRequestSize:      DefaultMaxRequestSize,
		MaxUploadSize:       DefaultMaxUploadSize,
		ReadTimeout:         DefaultReadTimeout,
		WriteTimeout:        DefaultWriteTimeout,
		IdleTimeout:         DefaultIdleTimeout,
		ShutdownTimeout:     DefaultShutdownTimeout,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "99999" }, "Port must be between"},
		{"bad mongo scheme", func(c *Config) { c.MongoURI = "postgres://localhost" }, "MongoURI must start with"},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, "JWTSecret must be at least"},
		{"admin email without password", func(c *Config) { c.AdminEmail = "admin@gym.com" }, "AdminEmail and AdminPassword"},
		{"login code without lifetime", func(c *Config) { c.LoginOTPTTL = 0 }, "LoginOTPTTL"},
		{"omise half configured", func(c *Config) { c.OmisePublicKey = "pkey_test" }, "OmisePublicKey and OmiseSecretKey"},
		{"negative delivery charge", func(c *Config) { c.DeliveryCharge = -1 }, "DeliveryCharge cannot be negative"},
		{"bad currency", func(c *Config) { c.Currency = "rupees" }, "Currency must be"},
		{"zero gateway timeout", func(c *Config) { c.GatewayTimeout = 0 }, "GatewayTimeout must be positive"},
		{"smtp without from", func(c *Config) { c.SMTPHost = "smtp.gym.com" }, "SMTPFrom is required"},
		{"upload smaller than request", func(c *Config) { c.MaxUploadSize = 10 }, "MaxUploadSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_NumbersEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.GatewayTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "1. ") || !strings.Contains(err.Error(), "2. ") {
		t.Errorf("expected numbered report, got %q", err.Error())
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:hunter2@db:27017")
	if got != "mongodb://***:***@db:27017" {
		t.Errorf("redactMongoURI() = %q", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_FLOAT", "12.5")
	t.Setenv("TEST_BAD_NUM", "x")
	t.Setenv("TEST_BOOL", "false")

	if got := getEnvDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("getEnvDuration() = %v", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 0); got != 12.5 {
		t.Errorf("getEnvFloat() = %v", got)
	}
	if got := getEnvNum("TEST_BAD_NUM", 7); got != 7 {
		t.Errorf("getEnvNum() fallback = %v", got)
	}
	if got := getEnvBool("TEST_BOOL", true); got {
		t.Errorf("getEnvBool() = %v", got)
	}
	if got := getEnvBool("TEST_BAD_NUM", true); !got {
		t.Errorf("getEnvBool() fallback = %v", got)
	}
}

func TestNormalizePagination(t *testing.T) {
	if got := NormalizePaginationLimit(0); got != 10 {
		t.Errorf("NormalizePaginationLimit(0) = %d", got)
	}
	if got := NormalizePaginationLimit(1000); got != DefaultPaginationLimit {
		t.Errorf("NormalizePaginationLimit(1000) = %d", got)
	}
	if got := NormalizeOffset(-5); got != 0 {
		t.Errorf("NormalizeOffset(-5) = %d", got)
	}
}
