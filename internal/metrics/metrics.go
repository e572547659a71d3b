// metrics — Prometheus-коллекторы HTTP-слоя feed-сервиса.
// Регистрация — в DefaultRegisterer; отдача — promhttp на отдельном
// metrics-порту (см. cmd/feed-service).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal — счётчик запросов по маршруту/методу/статусу.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feed",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of handled HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration — гистограмма длительности обработки запроса.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feed",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request handling duration.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
