// storage определяет контракты доступа к данным для feed-сервиса.
//
// Контент, лайки и закладки живут в PostgreSQL; комментарии — в MongoDB;
// медиа (обложки/аватары) — в S3-совместимом объектном хранилище.
// Ядро ленты относится ко всем трём как к read-only источникам; write-пути
// (лайк/закладка/комментарий) идут через те же контракты.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/learnflow/feed-service/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности (повторный лайк/закладка).
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument — некорректные входные данные (битый id и т.п.).
	ErrInvalidArgument = errors.New("invalid argument")
)

// ContentStorage описывает выборку пула кандидатов ленты.
type ContentStorage interface {
	// RecentPublished возвращает до limit самых свежих опубликованных
	// (прошедших верификацию) материалов, отсортированных по created_at DESC.
	// Порядок фиксирован: он же служит тай-брейком при равных скоринг-оценках.
	RecentPublished(ctx context.Context, limit int32) ([]models.ContentItem, error)
	// ContentExists сообщает, существует ли контент с данным id.
	// Используется write-путями, у которых нет FK на таблицу контента (mongo).
	ContentExists(ctx context.Context, id uuid.UUID) (bool, error)
	// UserSummary возвращает минимальную карточку пользователя для
	// денормализации в комментарии. Если пользователя нет — ErrNotFound.
	UserSummary(ctx context.Context, id uuid.UUID) (*models.UserSummary, error)
}

// SocialStorage описывает лайки и закладки.
//
// Счётчики и флаги зрителя — read-only и идемпотентные; порядок выдачи не
// гарантируется (вызывающий матчит по id).
type SocialStorage interface {
	// AddLike ставит лайк. Повторный лайк — ErrConflict,
	// несуществующий контент — ErrNotFound.
	AddLike(ctx context.Context, contentID, userID uuid.UUID) error
	// RemoveLike снимает лайк; отсутствие лайка не является ошибкой.
	RemoveLike(ctx context.Context, contentID, userID uuid.UUID) error
	// AddBookmark добавляет закладку. Семантика ошибок как у AddLike.
	AddBookmark(ctx context.Context, contentID, userID uuid.UUID) error
	// RemoveBookmark удаляет закладку; отсутствие закладки не является ошибкой.
	RemoveBookmark(ctx context.Context, contentID, userID uuid.UUID) error

	// LikeCount возвращает количество лайков контента.
	LikeCount(ctx context.Context, contentID uuid.UUID) (int64, error)
	// HasLiked сообщает, лайкнул ли пользователь контент.
	HasLiked(ctx context.Context, contentID, userID uuid.UUID) (bool, error)
	// HasBookmarked сообщает, есть ли у пользователя закладка на контент.
	HasBookmarked(ctx context.Context, contentID, userID uuid.UUID) (bool, error)
}

// Storage задаёт совокупный контракт реляционного хранилища feed-сервиса.
type Storage interface {
	ContentStorage
	SocialStorage
	Close()
}

// CommentsStorage описывает операции над комментариями.
type CommentsStorage interface {
	// CreateComment создаёт корневой комментарий или ответ.
	// Обязательные поля входного Comment: ContentID, AuthorID, AuthorName, Body;
	// ParentID — опционально (ссылка на родителя, существование не проверяется:
	// неразрешимые ссылки деградируют в корни при сборке дерева).
	// ID/CreatedAt вычисляются хранилищем.
	CreateComment(ctx context.Context, comment models.Comment) (*models.Comment, error)
	// ListByContent возвращает все комментарии контента,
	// отсортированные по created_at ASC (хронологически).
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]models.Comment, error)
	// CountByContent возвращает количество комментариев контента.
	CountByContent(ctx context.Context, contentID uuid.UUID) (int64, error)
	// DeleteByContent удаляет все комментарии контента
	// (каскад при удалении контента; вызывается write-путём коллаборатора).
	DeleteByContent(ctx context.Context, contentID uuid.UUID) error
	// Close закрывает соединения хранилища.
	Close(ctx context.Context) error
}

// MediaStorage разрешает ключ объекта (обложка, аватар) в URL для клиента.
type MediaStorage interface {
	// ResolveURL возвращает публичный либо presigned URL по ключу объекта.
	// Абсолютные http(s)-значения возвращаются как есть; пустой ключ — пустая строка.
	ResolveURL(ctx context.Context, key string) (string, error)
}
