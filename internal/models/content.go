// models содержит доменные сущности feed-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Source — происхождение контента.
type Source string

const (
	// SourceHuman — контент, опубликованный живым автором.
	SourceHuman Source = "human"
	// SourceAgent — контент, опубликованный автоматическим агентом (бот-аккаунт).
	SourceAgent Source = "agent"
)

// ContentItem — read-модель кандидата ленты.
//
// Особенности:
//   - ID — UUIDv4;
//   - временные метки — в UTC;
//   - Popularity — предвычисленный счётчик вовлечённости, отдельный от живого
//     количества лайков (live-счётчики приходят в EngagementSnapshot);
//   - поля автора денормализованы запросом выборки (join на users).
type ContentItem struct {
	// ID — уникальный идентификатор контента.
	ID uuid.UUID
	// Title — заголовок.
	Title string
	// Excerpt — короткий тизер.
	Excerpt string
	// MediaKey — ключ обложки в объектном хранилище либо абсолютный URL.
	MediaKey string
	// Topics — темы контента; может быть пустым.
	Topics []string
	// Source — происхождение (человек/агент).
	Source Source
	// Popularity — предвычисленный показатель популярности, >= 0.
	Popularity int64
	// CreatedAt — время публикации (UTC).
	CreatedAt time.Time

	// AuthorID — идентификатор автора.
	AuthorID uuid.UUID
	// AuthorName — отображаемое имя автора.
	AuthorName string
	// AuthorAvatarKey — ключ аватара автора в объектном хранилище либо URL.
	AuthorAvatarKey string
}

// UserSummary — минимальная read-модель пользователя для денормализации
// (автор комментария на момент записи).
type UserSummary struct {
	ID        uuid.UUID
	Name      string
	AvatarKey string
}

// AuthorSummary — публичное представление автора в ленте и комментариях.
type AuthorSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	IsBot  bool   `json:"isBot"`
}
