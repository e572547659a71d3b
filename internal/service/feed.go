package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/pkg/log"
)

// candidatePoolLimit — потолок пула кандидатов одной сборки ленты.
// Ограничивает худшую стоимость обогащения, оставляя пул достаточно большим,
// чтобы recency-выборка не выдавливала популярные, но чуть более старые
// материалы из рассмотрения.
const candidatePoolLimit = 100

// AssembleFeed собирает страницу персональной ленты.
//
// Конвейер: выборка пула кандидатов (до candidatePoolLimit самых свежих) →
// обогащение каждого кандидата снимком вовлечённости → скоринг батча →
// стабильная сортировка по убыванию скора → пагинация по отранжированному
// списку → публичное представление FeedEntry.
//
// Правила:
//   - limit <= 0 -> cfg.Limits.Default; limit > max -> cfg.Limits.Max; offset < 0 -> 0;
//   - темы зрителя — всегда пустое множество (трекинг предпочтений не
//     реализован); формула обязана корректно вырождаться;
//   - ошибка выборки пула валит весь запрос; ошибка обогащения одного
//     кандидата деградирует в нулевые счётчики с warn-логом — одна битая
//     строка не должна ломать страницу;
//   - пустой пул — пустая лента, не ошибка.
func (s *Service) AssembleFeed(ctx context.Context, viewer *uuid.UUID, opts models.FeedOptions) ([]models.FeedEntry, error) {
	const op = "service.feed.AssembleFeed"

	lg := log.From(ctx)
	lg.Info("assemble_feed_request",
		slog.String("op", op),
		slog.Int("limit", int(opts.Limit)),
		slog.Int("offset", int(opts.Offset)),
		slog.Bool("has_viewer", viewer != nil),
	)

	if opts.Limit <= 0 {
		opts.Limit = s.cfg.Limits.Default
	}
	if s.cfg.Limits.Max > 0 && opts.Limit > s.cfg.Limits.Max {
		opts.Limit = s.cfg.Limits.Max
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	candidates, err := s.store.RecentPublished(ctx, candidatePoolLimit)
	if err != nil {
		lg.Error("assemble_feed_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(candidates) == 0 {
		lg.Info("assemble_feed_empty_pool", slog.String("op", op))
		return []models.FeedEntry{}, nil
	}

	// Обогащение: по одному снимку на кандидата. Между вызовами уважаем
	// отмену контекста — общего изменяемого состояния здесь нет.
	scored := make([]models.ScoredItem, 0, len(candidates))
	for _, item := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		snap, err := s.engagementSnapshot(ctx, item.ID, viewer)
		if err != nil {
			// Деградация вместо отказа: статистика одного элемента
			// не критична для ленты в целом.
			lg.Warn("assemble_feed_enrich_degraded",
				slog.String("op", op),
				slog.String("content_id", item.ID.String()),
				slog.String("err", err.Error()),
			)
			snap = models.EngagementSnapshot{}
		}

		scored = append(scored, models.ScoredItem{Item: item, Engagement: snap})
	}

	// Темы зрителя: трекинг предпочтений пока не реализован.
	var viewerTopics []string

	rankScoredItems(scored, viewerTopics, time.Now().UTC())

	page := paginate(scored, opts.Offset, opts.Limit)

	entries := make([]models.FeedEntry, 0, len(page))
	for _, it := range page {
		entries = append(entries, s.toFeedEntry(ctx, it))
	}

	lg.Info("assemble_feed_ok",
		slog.String("op", op),
		slog.Int("pool", len(candidates)),
		slog.Int("items", len(entries)),
	)

	return entries, nil
}

// paginate — срез [offset, offset+limit) с клампингом границ.
func paginate(items []models.ScoredItem, offset, limit int32) []models.ScoredItem {
	from := int(offset)
	if from >= len(items) {
		return nil
	}

	to := from + int(limit)
	if to > len(items) {
		to = len(items)
	}

	return items[from:to]
}

// toFeedEntry переводит отранжированный элемент в публичное представление.
// Скор в публичный payload не входит. Ключи медиа разрешаются в URL; ошибка
// разрешения деградирует в исходное значение ключа с warn-логом.
func (s *Service) toFeedEntry(ctx context.Context, it models.ScoredItem) models.FeedEntry {
	item := it.Item

	topics := item.Topics
	if topics == nil {
		topics = []string{}
	}

	return models.FeedEntry{
		ID:       item.ID.String(),
		Title:    item.Title,
		Excerpt:  item.Excerpt,
		MediaURL: s.resolveMediaURL(ctx, item.MediaKey),
		Topics:   topics,
		Author: models.AuthorSummary{
			ID:     item.AuthorID.String(),
			Name:   item.AuthorName,
			Avatar: s.resolveMediaURL(ctx, item.AuthorAvatarKey),
			IsBot:  item.Source == models.SourceAgent,
		},
		CreatedAt:    item.CreatedAt,
		Likes:        it.Engagement.Likes,
		Comments:     it.Engagement.Comments,
		IsLiked:      it.Engagement.ViewerLiked,
		IsBookmarked: it.Engagement.ViewerBookmarked,
	}
}

// resolveMediaURL — обёртка над media-хранилищем с деградацией на ошибке.
func (s *Service) resolveMediaURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}

	url, err := s.media.ResolveURL(ctx, key)
	if err != nil {
		log.From(ctx).Warn("media_url_resolve_degraded",
			slog.String("key", key),
			slog.String("err", err.Error()),
		)

		return key
	}

	return url
}
