package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, "snappy", cfg.Producer.Compression)
	assert.Equal(t, int64(-2), cfg.Consumer.StartOffset)
	assert.False(t, Configured())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " kafka-1:9092, ,kafka-2:9092 ")
	t.Setenv(EnvKafkaProducerCompression, "ZSTD")
	t.Setenv(EnvKafkaConsumerMaxRetries, "2")
	t.Setenv(EnvKafkaConsumerRetryBackoff, "250ms")
	t.Setenv(EnvKafkaEnableMiddleware, "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
	assert.Equal(t, "zstd", cfg.Producer.Compression)
	assert.Equal(t, 2, cfg.Consumer.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Consumer.RetryBackoff)
	assert.False(t, cfg.EnableMiddleware)
	assert.True(t, Configured())
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv(EnvKafkaConsumerMaxRetries, "many")
	t.Setenv(EnvKafkaProducerBatchTimeout, "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConsumerMaxRetries, cfg.Consumer.MaxRetries)
	assert.Equal(t, DefaultProducerBatchTimeout, cfg.Producer.BatchTimeout)
}

func TestValidate(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka:9092")
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no brokers", func(c *Config) { c.Brokers = nil }, "at least one broker"},
		{"bad compression", func(c *Config) { c.Producer.Compression = "brotli" }, "producer compression"},
		{"bad acks", func(c *Config) { c.Producer.RequiredAcks = 2 }, "required acks"},
		{"session shorter than heartbeat", func(c *Config) { c.Consumer.SessionTimeout = time.Second }, "session timeout"},
		{"negative retries", func(c *Config) { c.Consumer.MaxRetries = -1 }, "max retries"},
		{"max below min bytes", func(c *Config) { c.Consumer.MinBytes, c.Consumer.MaxBytes = 10, 5 }, "max bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	assert.NoError(t, valid().Validate())
}
