package app

import (
	"gymstore/pkg/config"
	"gymstore/pkg/events"
	"gymstore/pkg/kafka"
	kafka_config "gymstore/pkg/kafka/config"
	kafka_middleware "gymstore/pkg/kafka/middleware"
)

// DLQSuffix names the dead-letter topic of every topic.
const DLQSuffix = ".dlq"

// NewEventPublisher returns a Kafka publisher for topic tagged with source.
// Without KAFKA_BROKERS events are dropped. The returned func closes the
// producer and belongs in OnShutdown.
func NewEventPublisher(cfg *config.Config, topic, source string) (events.Publisher, func()) {
	if !kafka_config.Configured() {
		cfg.Log.Warn("KAFKA_BROKERS not set, events are not published", "topic", topic)
		return events.NoopPublisher{}, func() {}
	}
	return newKafkaPublisher(cfg, topic, source)
}

// NewEventSender is NewEventPublisher for callers that cannot drop events.
// ok is false without KAFKA_BROKERS; there is no no-op fallback.
func NewEventSender(cfg *config.Config, topic, source string) (sender events.Sender, closeFn func(), ok bool) {
	if !kafka_config.Configured() {
		return nil, func() {}, false
	}
	publisher, closeFn := newKafkaPublisher(cfg, topic, source)
	return publisher, closeFn, true
}

func newKafkaPublisher(cfg *config.Config, topic, source string) (*events.KafkaPublisher, func()) {
	kafkaCfg := LoadKafkaConfig(cfg)
	producer, err := kafka.NewProducer(kafkaCfg, topic, topic+DLQSuffix, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "topic", topic, "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	cfg.Log.Info("Event publisher ready", "topic", topic)
	return events.NewKafkaPublisher(producer, source, cfg.EventPublishTimeout, cfg.Log), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "topic", topic, "error", err)
		}
	}
}

func LoadKafkaConfig(cfg *config.Config) *kafka_config.Config {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)
	return kafkaCfg
}
