package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment — плоская запись комментария, как её отдаёт хранилище.
//
// Важно:
//   - ID/ParentID — ObjectID MongoDB в hex-представлении, наружу и внутрь
//     конвертируются в string;
//   - ParentID == "" — корневой комментарий. Непустой ParentID — свободная
//     ссылка: хранилище не гарантирует существование родителя на момент
//     чтения (родитель мог быть удалён);
//   - ContentID/AuthorID — UUID из смежных сервисов;
//   - CreatedAt — UTC.
type Comment struct {
	ID        string
	ContentID uuid.UUID
	ParentID  string
	AuthorID  uuid.UUID
	// AuthorName/AuthorAvatar — денормализованные поля автора на момент записи.
	AuthorName   string
	AuthorAvatar string
	Body         string
	CreatedAt    time.Time
}

// CommentNode — узел дерева ответов, собираемого на чтении из плоского списка.
//
// Replies упорядочены хронологически (порядок входного списка); дерево не
// ограничено по глубине. Узел с неразрешимым ParentID становится корнем —
// комментарий никогда не теряется.
type CommentNode struct {
	ID        string         `json:"id"`
	Author    AuthorSummary  `json:"author"`
	Body      string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	Replies   []*CommentNode `json:"replies"`
}
