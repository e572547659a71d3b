package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/internal/storage"
)

// RecentPublished возвращает до limit самых свежих опубликованных материалов.
//
// Правила выборки:
//   - только status = 'verified' (пул ленты собирается из опубликованного);
//   - сортировка фиксирована: created_at DESC, id DESC — она же задаёт
//     относительный порядок кандидатов при равных скоринг-оценках;
//   - поля автора денормализуются join'ом на users.
func (s *Storage) RecentPublished(ctx context.Context, limit int32) ([]models.ContentItem, error) {
	const op = "storage.postgres.RecentPublished"

	if limit <= 0 {
		// Защита от нуля/отрицательного значения.
		limit = 1
	}

	rows, err := s.db.Query(ctx, `
	SELECT c.id, c.title, c.excerpt, c.media_key, c.topics, c.source, c.popularity, c.created_at,
	       u.id, u.name, u.avatar_key
	FROM content c
	JOIN users u ON u.id = c.author_id
	WHERE c.status = 'verified'
	ORDER BY c.created_at DESC, c.id DESC
	LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		var source string
		if scanErr := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Excerpt,
			&item.MediaKey,
			&item.Topics,
			&source,
			&item.Popularity,
			&item.CreatedAt,
			&item.AuthorID,
			&item.AuthorName,
			&item.AuthorAvatarKey,
		); scanErr != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, scanErr)
		}

		item.Source = models.Source(source)
		// Нормализация в UTC.
		item.CreatedAt = item.CreatedAt.UTC()

		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, rows.Err())
	}

	return items, nil
}

// ContentExists сообщает, существует ли контент с данным идентификатором.
func (s *Storage) ContentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	const op = "storage.postgres.ContentExists"

	var exists bool
	err := s.db.QueryRow(ctx, `
	SELECT EXISTS (SELECT 1 FROM content WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

// UserSummary возвращает минимальную карточку пользователя.
// Если запись не найдена — storage.ErrNotFound.
func (s *Storage) UserSummary(ctx context.Context, id uuid.UUID) (*models.UserSummary, error) {
	const op = "storage.postgres.UserSummary"

	var user models.UserSummary
	err := s.db.QueryRow(ctx, `
	SELECT id, name, avatar_key FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Name, &user.AvatarKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}
