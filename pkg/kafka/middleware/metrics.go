package kafka_middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tratador/pkg/kafka"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// MetricsProducerMiddleware counts publish outcomes per topic and observes publish latency.
// published must carry the labels (topic, status); duration the label (topic).
func MetricsProducerMiddleware(published *prometheus.CounterVec, duration *prometheus.HistogramVec) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		duration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		status := StatusSuccess
		if err != nil {
			status = StatusFailure
		}
		published.WithLabelValues(msg.Topic, status).Inc()

		return err
	}
}
