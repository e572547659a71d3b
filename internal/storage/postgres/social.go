package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/learnflow/feed-service/internal/storage"
)

// AddLike ставит лайк пользователя на контент.
//
// Маппинг ошибок:
//   - повторный лайк (уникальная пара content_id+user_id) — storage.ErrConflict;
//   - несуществующий контент/пользователь (FK) — storage.ErrNotFound.
func (s *Storage) AddLike(ctx context.Context, contentID, userID uuid.UUID) error {
	const op = "storage.postgres.AddLike"

	_, err := s.db.Exec(ctx, `
	INSERT INTO likes (content_id, user_id) VALUES ($1, $2)
	`, contentID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPairWriteError(err))
	}

	return nil
}

// RemoveLike снимает лайк. Отсутствие лайка не является ошибкой (идемпотентно).
func (s *Storage) RemoveLike(ctx context.Context, contentID, userID uuid.UUID) error {
	const op = "storage.postgres.RemoveLike"

	_, err := s.db.Exec(ctx, `
	DELETE FROM likes WHERE content_id = $1 AND user_id = $2
	`, contentID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// AddBookmark добавляет закладку. Семантика ошибок как у AddLike.
func (s *Storage) AddBookmark(ctx context.Context, contentID, userID uuid.UUID) error {
	const op = "storage.postgres.AddBookmark"

	_, err := s.db.Exec(ctx, `
	INSERT INTO bookmarks (content_id, user_id) VALUES ($1, $2)
	`, contentID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPairWriteError(err))
	}

	return nil
}

// RemoveBookmark удаляет закладку (идемпотентно).
func (s *Storage) RemoveBookmark(ctx context.Context, contentID, userID uuid.UUID) error {
	const op = "storage.postgres.RemoveBookmark"

	_, err := s.db.Exec(ctx, `
	DELETE FROM bookmarks WHERE content_id = $1 AND user_id = $2
	`, contentID, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LikeCount возвращает количество лайков контента.
func (s *Storage) LikeCount(ctx context.Context, contentID uuid.UUID) (int64, error) {
	const op = "storage.postgres.LikeCount"

	var count int64
	err := s.db.QueryRow(ctx, `
	SELECT COUNT(*) FROM likes WHERE content_id = $1
	`, contentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// HasLiked сообщает, лайкнул ли пользователь контент.
func (s *Storage) HasLiked(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	const op = "storage.postgres.HasLiked"

	var exists bool
	err := s.db.QueryRow(ctx, `
	SELECT EXISTS (SELECT 1 FROM likes WHERE content_id = $1 AND user_id = $2)
	`, contentID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// HasBookmarked сообщает, есть ли у пользователя закладка на контент.
func (s *Storage) HasBookmarked(ctx context.Context, contentID, userID uuid.UUID) (bool, error) {
	const op = "storage.postgres.HasBookmarked"

	var exists bool
	err := s.db.QueryRow(ctx, `
	SELECT EXISTS (SELECT 1 FROM bookmarks WHERE content_id = $1 AND user_id = $2)
	`, contentID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// mapPairWriteError переводит ошибки PostgreSQL при вставке пары
// (content_id, user_id) в сентинели хранилища.
func mapPairWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return storage.ErrConflict
		case pgerrcode.ForeignKeyViolation:
			return storage.ErrNotFound
		}
	}

	return err
}
