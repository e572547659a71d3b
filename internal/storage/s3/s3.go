// s3 предоставляет реализацию storage.MediaStorage на базе MinIO/S3.
// Хранилище держит медиа платформы (обложки контента, аватары авторов);
// в БД лежат только ключи объектов, наружу отдаются URL.
package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/learnflow/feed-service/internal/config"
	"github.com/learnflow/feed-service/internal/storage"
)

// MediaStorage — адаптер MinIO для разрешения ключей медиа в URL.
type MediaStorage struct {
	cfg    *config.Config
	client *mclient.Client
}

// New создает и инициализирует клиент MinIO.
// Делает endpoint-перенастройку (убирает схему), подбирает Secure по схеме
// и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg *config.Config) (*MediaStorage, error) {
	const op = "storage/s3/New"

	endpoint := cfg.S3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &MediaStorage{cfg: cfg, client: client}, nil
}

// ResolveURL возвращает URL объекта по его ключу.
//
// Правила:
//   - пустой ключ -> пустая строка (у контента может не быть обложки);
//   - абсолютный http(s)-URL возвращается как есть (легаси-записи хранят URL напрямую);
//   - при заданном PublicBaseURL — конкатенация base/key (без сетевых вызовов);
//   - иначе — presigned GET URL со сроком cfg.S3.PresignTTL. Подпись локальная,
//     сетевого round-trip на каждый ключ нет, поэтому вызов допустим в горячем
//     пути сборки ленты.
func (s *MediaStorage) ResolveURL(ctx context.Context, key string) (string, error) {
	const op = "storage/s3/ResolveURL"

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil
	}

	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}

	if base := strings.TrimRight(s.cfg.S3.PublicBaseURL, "/"); base != "" {
		escaped := (&url.URL{Path: key}).EscapedPath()
		return base + "/" + strings.TrimLeft(escaped, "/"), nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return u.String(), nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.MediaStorage = (*MediaStorage)(nil)
