package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvJWTSecret   = "JWT_SECRET"
	EnvJWTTokenTTL = "JWT_TOKEN_TTL"

	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvLoginOTPEnabled = "LOGIN_OTP_ENABLED"
	EnvLoginOTPTTL     = "LOGIN_OTP_TTL"

	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUsername = "SMTP_USERNAME"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvSMTPFrom     = "SMTP_FROM"

	EnvMercadoPagoAccessToken   = "MERCADOPAGO_ACCESS_TOKEN"
	EnvMercadoPagoWebhookSecret = "MERCADOPAGO_WEBHOOK_SECRET"
	EnvMercadoPagoNotifyURL     = "MERCADOPAGO_NOTIFICATION_URL"

	EnvOmisePublicKey  = "OMISE_PUBLIC_KEY"
	EnvOmiseSecretKey  = "OMISE_SECRET_KEY"
	EnvOmiseSourceType = "OMISE_SOURCE_TYPE"

	EnvCurrency       = "CURRENCY"
	EnvDeliveryCharge = "DELIVERY_CHARGE"

	EnvGatewayTimeout      = "GATEWAY_TIMEOUT"
	EnvNotificationTimeout = "NOTIFICATION_TIMEOUT"
	EnvPendingOrderTTL     = "PENDING_ORDER_TTL"
	EnvReaperInterval      = "PENDING_ORDER_REAPER_INTERVAL"

	EnvS3Bucket    = "S3_BUCKET"
	EnvS3Region    = "S3_REGION"
	EnvS3PublicURL = "S3_PUBLIC_URL"

	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"

	EnvBookingEventsTopic  = "KAFKA_BOOKING_EVENTS_TOPIC"
	EnvOrderEventsTopic    = "KAFKA_ORDER_EVENTS_TOPIC"
	EnvPaymentNotifyTopic  = "KAFKA_PAYMENT_NOTIFICATIONS_TOPIC"
	EnvEventPublishTimeout = "EVENT_PUBLISH_TIMEOUT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvMaxUploadSize  = "MAX_UPLOAD_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
