package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gymstore/pkg/client"
	"gymstore/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	JWTSecret   string
	JWTTokenTTL time.Duration

	AdminEmail    string
	AdminPassword string

	LoginOTPEnabled bool
	LoginOTPTTL     time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	MercadoPagoAccessToken   string
	MercadoPagoWebhookSecret string
	MercadoPagoNotifyURL     string

	OmisePublicKey  string
	OmiseSecretKey  string
	OmiseSourceType string

	Currency       string
	DeliveryCharge float64

	GatewayTimeout      time.Duration
	NotificationTimeout time.Duration
	PendingOrderTTL     time.Duration
	ReaperInterval      time.Duration

	S3Bucket    string
	S3Region    string
	S3PublicURL string

	DefaultPhoneRegion string

	BookingEventsTopic  string
	OrderEventsTopic    string
	PaymentNotifyTopic  string
	EventPublishTimeout time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int
	MaxUploadSize  int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret:   getEnvStr(EnvJWTSecret, ""),
		JWTTokenTTL: getEnvDuration(EnvJWTTokenTTL, DefaultJWTTokenTTL),

		AdminEmail:    strings.ToLower(strings.TrimSpace(getEnvStr(EnvAdminEmail, ""))),
		AdminPassword: getEnvStr(EnvAdminPassword, ""),

		LoginOTPEnabled: getEnvBool(EnvLoginOTPEnabled, DefaultLoginOTPEnabled),
		LoginOTPTTL:     getEnvDuration(EnvLoginOTPTTL, DefaultLoginOTPTTL),

		SMTPHost:     getEnvStr(EnvSMTPHost, ""),
		SMTPPort:     getEnvNum(EnvSMTPPort, DefaultSMTPPort),
		SMTPUsername: getEnvStr(EnvSMTPUsername, ""),
		SMTPPassword: getEnvStr(EnvSMTPPassword, ""),
		SMTPFrom:     getEnvStr(EnvSMTPFrom, ""),

		MercadoPagoAccessToken:   getEnvStr(EnvMercadoPagoAccessToken, ""),
		MercadoPagoWebhookSecret: getEnvStr(EnvMercadoPagoWebhookSecret, ""),
		MercadoPagoNotifyURL:     getEnvStr(EnvMercadoPagoNotifyURL, ""),

		OmisePublicKey:  getEnvStr(EnvOmisePublicKey, ""),
		OmiseSecretKey:  getEnvStr(EnvOmiseSecretKey, ""),
		OmiseSourceType: getEnvStr(EnvOmiseSourceType, DefaultOmiseSourceType),

		Currency:       strings.ToLower(getEnvStr(EnvCurrency, DefaultCurrency)),
		DeliveryCharge: getEnvFloat(EnvDeliveryCharge, DefaultDeliveryCharge),

		GatewayTimeout:      getEnvDuration(EnvGatewayTimeout, DefaultGatewayTimeout),
		NotificationTimeout: getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),
		PendingOrderTTL:     getEnvDuration(EnvPendingOrderTTL, DefaultPendingOrderTTL),
		ReaperInterval:      getEnvDuration(EnvReaperInterval, DefaultReaperInterval),

		S3Bucket:    getEnvStr(EnvS3Bucket, ""),
		S3Region:    getEnvStr(EnvS3Region, DefaultS3Region),
		S3PublicURL: strings.TrimRight(getEnvStr(EnvS3PublicURL, ""), "/"),

		DefaultPhoneRegion: strings.ToUpper(getEnvStr(EnvDefaultPhoneRegion, DefaultPhoneRegion)),

		BookingEventsTopic:  getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		OrderEventsTopic:    getEnvStr(EnvOrderEventsTopic, DefaultOrderEventsTopic),
		PaymentNotifyTopic:  getEnvStr(EnvPaymentNotifyTopic, DefaultPaymentNotifyTopic),
		EventPublishTimeout: getEnvDuration(EnvEventPublishTimeout, DefaultEventPublishTimeout),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		MaxUploadSize:  getEnvNum(EnvMaxUploadSize, DefaultMaxUploadSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the shared Redis client when REDIS_ADDR is configured.
// Without it the services fall back to in-memory idempotency.
func (cfg *Config) SetRedis() {
	if cfg.RedisAddr == "" {
		cfg.Log.Warn("REDIS_ADDR not set, using in-memory idempotency store")
		return
	}
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < MinJWTSecretLength {
		errors = append(errors, fmt.Sprintf("JWTSecret must be at least %d characters", MinJWTSecretLength))
	}
	if cfg.JWTTokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("JWTTokenTTL must be positive, got: %s", cfg.JWTTokenTTL))
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		errors = append(errors, "AdminEmail and AdminPassword must be set together")
	}

	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		errors = append(errors, "SMTPFrom is required when SMTPHost is set")
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		errors = append(errors, fmt.Sprintf("SMTPPort must be between 1 and 65535, got: %d", cfg.SMTPPort))
	}

	if (cfg.OmisePublicKey == "") != (cfg.OmiseSecretKey == "") {
		errors = append(errors, "OmisePublicKey and OmiseSecretKey must be set together")
	}
	if len(cfg.Currency) != 3 {
		errors = append(errors, fmt.Sprintf("Currency must be an ISO 4217 code, got: %s", cfg.Currency))
	}
	if cfg.DeliveryCharge < 0 {
		errors = append(errors, fmt.Sprintf("DeliveryCharge cannot be negative, got: %.2f", cfg.DeliveryCharge))
	}

	if cfg.GatewayTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("GatewayTimeout must be positive, got: %s", cfg.GatewayTimeout))
	}
	if cfg.LoginOTPEnabled && cfg.LoginOTPTTL <= 0 {
		errors = append(errors, fmt.Sprintf("LoginOTPTTL must be positive, got: %s", cfg.LoginOTPTTL))
	}
	if cfg.NotificationTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be positive, got: %s", cfg.NotificationTimeout))
	}
	if cfg.PendingOrderTTL <= 0 {
		errors = append(errors, fmt.Sprintf("PendingOrderTTL must be positive, got: %s", cfg.PendingOrderTTL))
	}
	if cfg.ReaperInterval <= 0 {
		errors = append(errors, fmt.Sprintf("ReaperInterval must be positive, got: %s", cfg.ReaperInterval))
	}
	if cfg.EventPublishTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("EventPublishTimeout must be positive, got: %s", cfg.EventPublishTimeout))
	}

	if len(cfg.DefaultPhoneRegion) != 2 {
		errors = append(errors, fmt.Sprintf("DefaultPhoneRegion must be a two-letter region code, got: %s", cfg.DefaultPhoneRegion))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxUploadSize < cfg.MaxRequestSize {
		errors = append(errors, fmt.Sprintf("MaxUploadSize (%d) must be >= MaxRequestSize (%d)", cfg.MaxUploadSize, cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"redis_addr", cfg.RedisAddr,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"jwt_token_ttl", cfg.JWTTokenTTL,
		"admin_bootstrap_set", cfg.AdminEmail != "",
		"login_otp_enabled", cfg.LoginOTPEnabled,
		"login_otp_ttl", cfg.LoginOTPTTL,
		"smtp_host", cfg.SMTPHost,
		"smtp_port", cfg.SMTPPort,
		"mercadopago_enabled", cfg.MercadoPagoAccessToken != "",
		"mercadopago_webhook_secret_set", cfg.MercadoPagoWebhookSecret != "",
		"omise_enabled", cfg.OmiseSecretKey != "",
		"omise_source_type", cfg.OmiseSourceType,
		"currency", cfg.Currency,
		"delivery_charge", cfg.DeliveryCharge,
		"gateway_timeout", cfg.GatewayTimeout,
		"notification_timeout", cfg.NotificationTimeout,
		"pending_order_ttl", cfg.PendingOrderTTL,
		"s3_bucket", cfg.S3Bucket,
		"s3_region", cfg.S3Region,
		"default_phone_region", cfg.DefaultPhoneRegion,
		"booking_events_topic", cfg.BookingEventsTopic,
		"order_events_topic", cfg.OrderEventsTopic,
		"payment_notifications_topic", cfg.PaymentNotifyTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"max_upload_size", cfg.MaxUploadSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
