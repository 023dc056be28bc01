package kafka_config

import "time"

const (
	DefaultKafkaBrokers           = "localhost:9092"
	DefaultAllowAutoTopicCreation = true
	DefaultEnableMiddleware       = true

	// Payment notifications are few and must not be lost, so the producer
	// waits for every replica and does not batch for long.
	DefaultProducerMaxAttempts  = 5
	DefaultProducerBatchTimeout = 5 * time.Millisecond
	DefaultProducerRequireAcks  = -1
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// A fresh worker group starts from the oldest retained notification.
	DefaultConsumerStartOffset       = -2
	DefaultConsumerMinBytes          = 1
	DefaultConsumerMaxBytes          = 1 << 20
	DefaultConsumerMaxWait           = 500 * time.Millisecond
	DefaultConsumerCommitInterval    = time.Second
	DefaultConsumerHeartbeatInterval = 3 * time.Second
	DefaultConsumerSessionTimeout    = 30 * time.Second
	DefaultConsumerRebalanceTimeout  = 60 * time.Second
	DefaultConsumerMaxRetries        = 5
	DefaultConsumerRetryBackoff      = time.Second
)
