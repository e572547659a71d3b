package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	apierrors "github.com/learnflow/feed-service/internal/errors"
	"github.com/learnflow/feed-service/internal/http/middleware"
	"github.com/learnflow/feed-service/internal/service"
)

// Handlers агрегирует зависимости (сервисный слой).
type Handlers struct {
	svc *service.Service
}

func New(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// decodeJSON — нестрогий JSON-декодер для контрактов, чьи клиенты передают
// дополнительные поля (rank-батчи внешних пайплайнов несут произвольные
// атрибуты элементов; RankItem сохраняет их в Raw и ответ возвращает как есть).
func decodeJSON(r *http.Request, value any) error {
	return json.NewDecoder(r.Body).Decode(value)
}

// errInvalidArgument — вспомогалка: локальная ошибка парсинга -> 400.
func errInvalidArgument() error {
	return fmt.Errorf("handlers: %w", service.ErrInvalidArgument)
}

// requireViewer достаёт зрителя из контекста; его отсутствие — 401.
func requireViewer(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	viewer, ok := middleware.Viewer(r.Context())
	if !ok {
		apierrors.WriteError(w, r, apierrors.Unauthenticated)
		return uuid.Nil, false
	}

	return viewer, true
}

// contentIDParam парсит URL-параметр {id} как UUID контента.
func contentIDParam(r *http.Request, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalidArgument()
	}

	return id, nil
}
