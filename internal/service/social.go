package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/storage"
	"github.com/learnflow/feed-service/pkg/log"
)

// Like ставит лайк пользователя на контент.
//
// Ошибки:
// - ErrAlreadyExists — повторный лайк (маппинг storage.ErrConflict);
// - ErrNotFound — контент не существует;
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (s *Service) Like(ctx context.Context, userID, contentID uuid.UUID) error {
	const op = "service.social.Like"

	return s.pairWrite(ctx, op, func(ctx context.Context) error {
		return s.store.AddLike(ctx, contentID, userID)
	})
}

// Unlike снимает лайк. Идемпотентно: отсутствие лайка не является ошибкой.
func (s *Service) Unlike(ctx context.Context, userID, contentID uuid.UUID) error {
	const op = "service.social.Unlike"

	return s.pairWrite(ctx, op, func(ctx context.Context) error {
		return s.store.RemoveLike(ctx, contentID, userID)
	})
}

// Bookmark добавляет закладку. Семантика ошибок как у Like.
func (s *Service) Bookmark(ctx context.Context, userID, contentID uuid.UUID) error {
	const op = "service.social.Bookmark"

	return s.pairWrite(ctx, op, func(ctx context.Context) error {
		return s.store.AddBookmark(ctx, contentID, userID)
	})
}

// Unbookmark удаляет закладку (идемпотентно).
func (s *Service) Unbookmark(ctx context.Context, userID, contentID uuid.UUID) error {
	const op = "service.social.Unbookmark"

	return s.pairWrite(ctx, op, func(ctx context.Context) error {
		return s.store.RemoveBookmark(ctx, contentID, userID)
	})
}

// pairWrite — общий каркас write-операции над парой (content, user):
// логирование, маппинг сентинелей хранилища в сервисные.
func (s *Service) pairWrite(ctx context.Context, op string, write func(context.Context) error) error {
	lg := log.From(ctx)
	lg.Info("social_write_request", slog.String("op", op))

	if err := write(ctx); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			lg.Warn("social_write_conflict", slog.String("op", op))
			return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("social_write_not_found", slog.String("op", op))
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("social_write_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("social_write_ok", slog.String("op", op))

	return nil
}
