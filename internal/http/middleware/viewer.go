package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/auth"
)

type viewerKey struct{}

// Viewer извлекает идентификатор зрителя из контекста.
// ok == false — запрос анонимный.
func Viewer(ctx context.Context) (uuid.UUID, bool) {
	if v := ctx.Value(viewerKey{}); v != nil {
		if id, castOK := v.(uuid.UUID); castOK {
			return id, true
		}
	}

	return uuid.Nil, false
}

// WithViewer кладёт идентификатор зрителя в контекст (для тестов хендлеров).
func WithViewer(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, viewerKey{}, id)
}

// OptionalViewer извлекает Bearer-токен из Authorization и, если он валиден,
// кладёт идентификатор зрителя в контекст.
//
// Политика мягкая: отсутствующий или невалидный токен не отклоняет запрос —
// он продолжается как анонимный (viewer-флаги ленты коротятся в false).
// Write-хендлеры сами требуют зрителя и отвечают 401 на его отсутствие.
func OptionalViewer(verifier *auth.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if id, err := verifier.VerifyAccessToken(token); err == nil {
					r = r.WithContext(WithViewer(r.Context(), id))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken достаёт "сырой" токен из Authorization: Bearer <token>.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) || len(authHeader) <= len(prefix) {
		return ""
	}

	return strings.TrimSpace(authHeader[len(prefix):])
}
