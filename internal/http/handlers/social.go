package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/learnflow/feed-service/internal/errors"
)

// statusResponse — минимальный ответ write-операций.
type statusResponse struct {
	Status string `json:"status"`
}

// Like — POST /content/{id}/like. Повторный лайк — 409.
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	h.socialWrite(w, r, http.StatusCreated, h.svc.Like)
}

// Unlike — DELETE /content/{id}/like. Идемпотентно: 204 и при отсутствии лайка.
func (h *Handlers) Unlike(w http.ResponseWriter, r *http.Request) {
	h.socialWrite(w, r, http.StatusNoContent, h.svc.Unlike)
}

// Bookmark — POST /content/{id}/bookmark. Повторная закладка — 409.
func (h *Handlers) Bookmark(w http.ResponseWriter, r *http.Request) {
	h.socialWrite(w, r, http.StatusCreated, h.svc.Bookmark)
}

// Unbookmark — DELETE /content/{id}/bookmark. Идемпотентно.
func (h *Handlers) Unbookmark(w http.ResponseWriter, r *http.Request) {
	h.socialWrite(w, r, http.StatusNoContent, h.svc.Unbookmark)
}

// socialWrite — общий каркас write-эндпойнтов над парой (content, viewer).
func (h *Handlers) socialWrite(
	w http.ResponseWriter,
	r *http.Request,
	okStatus int,
	op func(ctx context.Context, userID, contentID uuid.UUID) error,
) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	contentID, err := contentIDParam(r, chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := op(r.Context(), viewer, contentID); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if okStatus == http.StatusNoContent {
		w.WriteHeader(okStatus)
		return
	}

	writeJSON(w, okStatus, statusResponse{Status: "ok"})
}
