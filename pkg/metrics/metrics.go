package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gymstore"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method and status code.",
		},
		[]string{"method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_attempts_total",
			Help:      "Count of booking attempts by result (created, conflict).",
		},
		[]string{"result"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled.",
		},
	)

	ordersCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Count of orders created by payment method.",
		},
		[]string{"method"},
	)

	orderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Count of order status transitions by target status.",
		},
		[]string{"status"},
	)

	paymentOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_outcomes_total",
			Help:      "Count of gateway payment outcomes by gateway and outcome.",
		},
		[]string{"gateway", "outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Count of customer notifications by kind and result.",
		},
		[]string{"kind", "result"},
	)

	kafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_total",
			Help:      "Count of Kafka messages by topic, direction and result.",
		},
		[]string{"topic", "direction", "result"},
	)

	mediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploads_total",
			Help:      "Count of product media uploads by kind and result.",
		},
		[]string{"kind", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			bookingCreated,
			bookingCancelled,
			ordersCreated,
			orderTransitions,
			paymentOutcomes,
			notifications,
			kafkaMessages,
			mediaUploads,
		)
	})
}

func ObserveHTTP(method string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func IncBookingAttempt(result string) {
	bookingCreated.WithLabelValues(result).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncOrderCreated(method string) {
	ordersCreated.WithLabelValues(method).Inc()
}

func IncOrderTransition(status string) {
	orderTransitions.WithLabelValues(status).Inc()
}

func IncPaymentOutcome(gateway, outcome string) {
	paymentOutcomes.WithLabelValues(gateway, outcome).Inc()
}

func IncNotification(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	notifications.WithLabelValues(kind, result).Inc()
}

func IncKafkaMessage(topic, direction string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	kafkaMessages.WithLabelValues(topic, direction, result).Inc()
}

func IncMediaUpload(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	mediaUploads.WithLabelValues(kind, result).Inc()
}
