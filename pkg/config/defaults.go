package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "gymstore"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisDB = 0

	DefaultPort = "8080"

	DefaultJWTTokenTTL = 7 * 24 * time.Hour

	DefaultLoginOTPEnabled = true
	DefaultLoginOTPTTL     = 10 * time.Minute

	DefaultSMTPPort = 587

	DefaultOmiseSourceType = "promptpay"

	DefaultCurrency       = "inr"
	DefaultDeliveryCharge = 10.0

	DefaultGatewayTimeout      = 15 * time.Second
	DefaultNotificationTimeout = 10 * time.Second
	DefaultPendingOrderTTL     = 2 * time.Hour
	DefaultReaperInterval      = 10 * time.Minute

	DefaultS3Region = "us-east-1"

	DefaultPhoneRegion = "IN"

	DefaultBookingEventsTopic  = "bookings.events"
	DefaultOrderEventsTopic    = "orders.events"
	DefaultPaymentNotifyTopic  = "payments.notifications"
	DefaultEventPublishTimeout = 3 * time.Second

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024  // 1MB
	DefaultMaxUploadSize  = 50 * 1024 * 1024 // 50MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
	MinJWTSecretLength     = 32
)
