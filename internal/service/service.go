// service содержит бизнес-логику feed-сервиса: скоринг кандидатов,
// сборку персональной ленты, агрегацию вовлечённости, дерево комментариев
// и социальные write-операции.
package service

import (
	"errors"

	"github.com/learnflow/feed-service/internal/config"
	"github.com/learnflow/feed-service/internal/storage"
)

var (
	// ErrNotFound — сущность отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAlreadyExists — конфликт уникальности (повторный лайк/закладка).
	// Транспорт: 409.
	ErrAlreadyExists = errors.New("already exists")
)

// Service — описывает бизнес-логику feed-service.
type Service struct {
	store    storage.Storage
	comments storage.CommentsStorage
	media    storage.MediaStorage
	cfg      config.Config
}

// New создает новый экземпляр Service.
func New(store storage.Storage, comments storage.CommentsStorage, media storage.MediaStorage, cfg config.Config) *Service {
	return &Service{
		store:    store,
		comments: comments,
		media:    media,
		cfg:      cfg,
	}
}
