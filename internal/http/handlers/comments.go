package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apierrors "github.com/learnflow/feed-service/internal/errors"
	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/internal/service"
)

// ContentComments — GET /content/{id}/comments.
// Возвращает восстановленный лес комментариев: корни в порядке «свежая ветка
// первой», ответы внутри ветки — хронологически.
func (h *Handlers) ContentComments(w http.ResponseWriter, r *http.Request) {
	contentID, err := contentIDParam(r, chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	tree, err := h.svc.CommentsTree(r.Context(), contentID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tree)
}

// createCommentRequest — входные данные создания комментария.
type createCommentRequest struct {
	ContentID string `json:"contentId"`
	ParentID  string `json:"parentId,omitempty"`
	Body      string `json:"content"`
}

// commentResponse — публичное представление созданного комментария.
type commentResponse struct {
	ID        string               `json:"id"`
	ContentID string               `json:"contentId"`
	ParentID  string               `json:"parentId,omitempty"`
	Author    models.AuthorSummary `json:"author"`
	Body      string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
}

// CreateComment — POST /comments. Требует аутентифицированного зрителя.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	viewer, ok := requireViewer(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	created, err := h.svc.CreateComment(r.Context(), viewer, service.CreateCommentInput{
		ContentID: contentID,
		ParentID:  req.ParentID,
		Body:      req.Body,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentResponse{
		ID:        created.ID,
		ContentID: created.ContentID.String(),
		ParentID:  created.ParentID,
		Author: models.AuthorSummary{
			ID:     created.AuthorID.String(),
			Name:   created.AuthorName,
			Avatar: created.AuthorAvatar,
		},
		Body:      created.Body,
		CreatedAt: created.CreatedAt,
	})
}
