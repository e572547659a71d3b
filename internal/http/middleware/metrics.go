package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/learnflow/feed-service/internal/metrics"
)

// Metrics пишет счётчик и гистограмму длительности по каждому запросу.
// В качестве route-метки используется шаблон chi-маршрута, а не сырой путь,
// чтобы не раздувать кардинальность метрик значениями URL-параметров.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rl := observe(w)
			start := time.Now()
			next.ServeHTTP(rl, r)
			dur := time.Since(start)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			metrics.HTTPRequestsTotal.
				WithLabelValues(r.Method, route, strconv.Itoa(rl.statusCode())).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, route).
				Observe(dur.Seconds())
		})
	}
}
