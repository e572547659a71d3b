package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/models"
)

// engagementSnapshot собирает «живые» счётчики и флаги зрителя для одного
// контента: лайки и флаги — из PostgreSQL, количество комментариев — из
// MongoDB. Read-only и идемпотентно; снимок корректен на момент запроса и
// нигде не кэшируется.
//
// Анонимный запрос (viewer == nil) коротит viewer-флаги в false без обращений
// к хранилищу — отсутствие зрителя не является ошибкой.
func (s *Service) engagementSnapshot(ctx context.Context, contentID uuid.UUID, viewer *uuid.UUID) (models.EngagementSnapshot, error) {
	const op = "service.engagement.engagementSnapshot"

	var snap models.EngagementSnapshot

	likes, err := s.store.LikeCount(ctx, contentID)
	if err != nil {
		return models.EngagementSnapshot{}, fmt.Errorf("%s: likes: %w", op, err)
	}
	snap.Likes = likes

	comments, err := s.comments.CountByContent(ctx, contentID)
	if err != nil {
		return models.EngagementSnapshot{}, fmt.Errorf("%s: comments: %w", op, err)
	}
	snap.Comments = comments

	if viewer == nil {
		return snap, nil
	}

	liked, err := s.store.HasLiked(ctx, contentID, *viewer)
	if err != nil {
		return models.EngagementSnapshot{}, fmt.Errorf("%s: has_liked: %w", op, err)
	}
	snap.ViewerLiked = liked

	bookmarked, err := s.store.HasBookmarked(ctx, contentID, *viewer)
	if err != nil {
		return models.EngagementSnapshot{}, fmt.Errorf("%s: has_bookmarked: %w", op, err)
	}
	snap.ViewerBookmarked = bookmarked

	return snap, nil
}
