package kafka_middleware

import (
	"context"

	"gymstore/pkg/kafka"
	"gymstore/pkg/metrics"
)

const (
	directionPublish = "publish"
	directionConsume = "consume"
)

func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)
		metrics.IncKafkaMessage(msg.Topic, directionPublish, err)
		return err
	}
}

func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		err := next(ctx, msg)
		metrics.IncKafkaMessage(msg.Topic, directionConsume, err)
		return err
	}
}
