package middleware

import (
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/learnflow/feed-service/pkg/log"
)

// Logging кладёт request-scoped логгер (обогащённый request_id) в контекст
// и пишет итоговую запись о запросе.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logctx.Into(r.Context(), l)
			if rid := r.Header.Get("X-Request-Id"); rid != "" {
				ctx = logctx.With(ctx, slog.String("request_id", rid))
			}
			r = r.WithContext(ctx)

			rl := observe(w)
			start := time.Now()
			next.ServeHTTP(rl, r)

			// Тот же логгер из контекста (уже с request_id).
			logctx.From(ctx).LogAttrs(ctx, slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rl.statusCode()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", rl.bytes),
			)
		})
	}
}
