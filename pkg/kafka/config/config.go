package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gymstore/pkg/logger"
)

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

type Config struct {
	Brokers          []string
	AutoCreateTopics bool
	EnableMiddleware bool

	Producer ProducerConfig
	Consumer ConsumerConfig
}

type ProducerConfig struct {
	MaxAttempts  int
	BatchTimeout time.Duration
	// RequiredAcks follows kafka-go: -1 all replicas, 0 none, 1 leader.
	RequiredAcks int
	Compression  string
	Async        bool
}

type ConsumerConfig struct {
	// StartOffset is -1 for newest or -2 for oldest when the group has no
	// committed offset yet.
	StartOffset       int64
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	CommitInterval    time.Duration
	HeartbeatInterval time.Duration
	SessionTimeout    time.Duration
	RebalanceTimeout  time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
}

// Configured reports whether brokers were given explicitly. Services run
// without Kafka when they were not.
func Configured() bool {
	return strings.TrimSpace(os.Getenv(EnvKafkaBrokers)) != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		Brokers:          splitBrokers(envStr(EnvKafkaBrokers, DefaultKafkaBrokers)),
		AutoCreateTopics: envBool(EnvKafkaAllowAutoTopicCreation, DefaultAllowAutoTopicCreation),
		EnableMiddleware: envBool(EnvKafkaEnableMiddleware, DefaultEnableMiddleware),
		Producer: ProducerConfig{
			MaxAttempts:  envInt(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
			BatchTimeout: envDuration(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
			RequiredAcks: envInt(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
			Compression:  strings.ToLower(envStr(EnvKafkaProducerCompression, DefaultProducerCompression)),
			Async:        envBool(EnvKafkaProducerAsync, DefaultProducerAsync),
		},
		Consumer: ConsumerConfig{
			StartOffset:       int64(envInt(EnvKafkaConsumerStartOffset, DefaultConsumerStartOffset)),
			MinBytes:          envInt(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
			MaxBytes:          envInt(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
			MaxWait:           envDuration(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
			CommitInterval:    envDuration(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
			HeartbeatInterval: envDuration(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval),
			SessionTimeout:    envDuration(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
			RebalanceTimeout:  envDuration(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout),
			MaxRetries:        envInt(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),
			RetryBackoff:      envDuration(EnvKafkaConsumerRetryBackoff, DefaultConsumerRetryBackoff),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "at least one broker is required")
	for i, b := range cfg.Brokers {
		check(b != "", "broker %d is empty", i)
	}

	p := cfg.Producer
	check(p.MaxAttempts > 0, "producer max attempts must be positive, got %d", p.MaxAttempts)
	check(p.BatchTimeout > 0, "producer batch timeout must be positive, got %s", p.BatchTimeout)
	check(p.RequiredAcks >= -1 && p.RequiredAcks <= 1, "producer required acks must be -1, 0 or 1, got %d", p.RequiredAcks)
	check(slices.Contains(compressions, p.Compression), "producer compression must be one of %v, got %q", compressions, p.Compression)

	c := cfg.Consumer
	check(c.StartOffset >= -2, "consumer start offset must be -1, -2 or a concrete offset, got %d", c.StartOffset)
	check(c.MinBytes > 0, "consumer min bytes must be positive, got %d", c.MinBytes)
	check(c.MaxBytes >= c.MinBytes, "consumer max bytes must be at least min bytes, got %d", c.MaxBytes)
	check(c.MaxWait > 0, "consumer max wait must be positive, got %s", c.MaxWait)
	check(c.CommitInterval > 0, "consumer commit interval must be positive, got %s", c.CommitInterval)
	check(c.HeartbeatInterval > 0, "consumer heartbeat interval must be positive, got %s", c.HeartbeatInterval)
	check(c.SessionTimeout > c.HeartbeatInterval, "consumer session timeout must exceed the heartbeat interval, got %s", c.SessionTimeout)
	check(c.RebalanceTimeout > 0, "consumer rebalance timeout must be positive, got %s", c.RebalanceTimeout)
	check(c.MaxRetries >= 0, "consumer max retries cannot be negative, got %d", c.MaxRetries)
	check(c.RetryBackoff >= 0, "consumer retry backoff cannot be negative, got %s", c.RetryBackoff)

	if len(errs) > 0 {
		return fmt.Errorf("invalid kafka configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"auto_create_topics", cfg.AutoCreateTopics,
		"middleware", cfg.EnableMiddleware,
		"producer_compression", cfg.Producer.Compression,
		"producer_required_acks", cfg.Producer.RequiredAcks,
		"producer_async", cfg.Producer.Async,
		"consumer_start_offset", cfg.Consumer.StartOffset,
		"consumer_max_retries", cfg.Consumer.MaxRetries,
		"consumer_retry_backoff", cfg.Consumer.RetryBackoff,
	)
}

func splitBrokers(raw string) []string {
	var brokers []string
	for b := range strings.SplitSeq(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func envStr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
