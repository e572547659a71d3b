package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/learnflow/feed-service/internal/errors"
	"github.com/learnflow/feed-service/internal/http/middleware"
	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/internal/service"
)

// PersonalizedFeed — GET /feed/personalized?limit=&offset=.
// Зритель опционален (Bearer): аноним получает ленту без viewer-флагов.
// Пустой пул кандидатов — это 200 с пустым массивом, а не ошибка.
func (h *Handlers) PersonalizedFeed(w http.ResponseWriter, r *http.Request) {
	var opts models.FeedOptions

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		opts.Limit = int32(n)
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		opts.Offset = int32(n)
	}

	var viewer *uuid.UUID
	if id, ok := middleware.Viewer(r.Context()); ok {
		viewer = &id
	}

	entries, err := h.svc.AssembleFeed(r.Context(), viewer, opts)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// rankRequest — входной батч независимого скоринг-эндпойнта.
// userId принимается для симметрии контракта, но на скоринг не влияет
// (персонализация входит через userTopics).
type rankRequest struct {
	UserID     string            `json:"userId"`
	UserTopics []string          `json:"userTopics"`
	Items      []models.RankItem `json:"items"`
}

// RankBatch — POST /feed/rank.
// Переранжирует произвольный батч по формуле ленты и возвращает те же
// элементы (включая поля, о которых сервис не знает) со скором и
// расшифровкой, по убыванию скора. Отсутствующий или не-массив items — 400
// без частичной обработки.
func (h *Handlers) RankBatch(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := decodeJSON(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	if req.Items == nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	ranked := service.RankBatch(req.Items, req.UserTopics, time.Now().UTC())

	writeJSON(w, http.StatusOK, ranked)
}
