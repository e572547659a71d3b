package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/learnflow/feed-service/internal/auth"
	"github.com/learnflow/feed-service/internal/http/handlers"
	"github.com/learnflow/feed-service/internal/http/middleware"
	"github.com/learnflow/feed-service/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, verifier *auth.Verifier, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),                // безопасно ловим паники
		middleware.RequestID(),              // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),     // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),                // prometheus-счётчики по шаблону маршрута
		middleware.OptionalViewer(verifier), // вынимаем зрителя из Bearer-токена в контекст
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// feed
	r.Get("/feed/personalized", h.PersonalizedFeed)
	r.Post("/feed/rank", h.RankBatch)

	// comments
	r.Get("/content/{id}/comments", h.ContentComments)
	r.Post("/comments", h.CreateComment)

	// social
	r.Post("/content/{id}/like", h.Like)
	r.Delete("/content/{id}/like", h.Unlike)
	r.Post("/content/{id}/bookmark", h.Bookmark)
	r.Delete("/content/{id}/bookmark", h.Unbookmark)
}
