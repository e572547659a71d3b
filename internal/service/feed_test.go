package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/feed-service/internal/config"
	"github.com/learnflow/feed-service/internal/models"
	"github.com/learnflow/feed-service/mocks"
)

// Файл unit-тестов конвейера сборки ленты (feed.go).
//
// Покрываем ключевую бизнес-логику:
//  - AssembleFeed:
//      * ошибка выборки пула валит весь запрос;
//      * пустой пул -> пустая (не nil) лента;
//      * анонимный запрос не дергает viewer-флаги хранилища;
//      * деградация обогащения одного кандидата в нулевой снимок;
//      * нормализация limit/offset и пагинация по отранжированному списку;
//      * консистентность страниц: limit 10 + limit 10 == limit 20;
//      * публичное представление (topics не-nil, isBot, разрешение медиа-ключей).

type svcMocks struct {
	store    *mocks.MockStorage
	comments *mocks.MockCommentsStorage
	media    *mocks.MockMediaStorage
}

// newSvcForTest — фабрика Service с контролируемым cfg и мок-хранилищами.
func newSvcForTest(t *testing.T, ctrl *gomock.Controller) (*Service, svcMocks) {
	t.Helper()

	m := svcMocks{
		store:    mocks.NewMockStorage(ctrl),
		comments: mocks.NewMockCommentsStorage(ctrl),
		media:    mocks.NewMockMediaStorage(ctrl),
	}

	cfg := config.Config{
		Limits: config.LimitsConfig{
			Default: 20,
			Max:     100,
		},
	}

	return New(m.store, m.comments, m.media, cfg), m
}

func contentItem(popularity int64, age time.Duration, now time.Time) models.ContentItem {
	return models.ContentItem{
		ID:         uuid.New(),
		Title:      "title",
		Excerpt:    "excerpt",
		Source:     models.SourceHuman,
		Popularity: popularity,
		CreatedAt:  now.Add(-age),
		AuthorID:   uuid.New(),
		AuthorName: "author",
	}
}

// expectPlainEngagement — счётчики без viewer-флагов для каждого кандидата.
func expectPlainEngagement(m svcMocks, items []models.ContentItem) {
	for _, it := range items {
		m.store.EXPECT().LikeCount(gomock.Any(), it.ID).Return(int64(0), nil)
		m.comments.EXPECT().CountByContent(gomock.Any(), it.ID).Return(int64(0), nil)
	}
}

func TestAssembleFeed_PoolFetchError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	storeErr := errors.New("connection reset")
	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return(nil, storeErr)

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, storeErr)
	require.Nil(t, entries)
}

func TestAssembleFeed_EmptyPool(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return([]models.ContentItem{}, nil)

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

// Анонимный запрос: HasLiked/HasBookmarked не вызываются вовсе
// (отсутствие EXPECT на них — часть проверки).
func TestAssembleFeed_AnonymousSkipsViewerFlags(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	items := []models.ContentItem{contentItem(5, time.Hour, now), contentItem(1, 2*time.Hour, now)}

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return(items, nil)
	expectPlainEngagement(m, items)

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		require.False(t, e.IsLiked)
		require.False(t, e.IsBookmarked)
	}
}

func TestAssembleFeed_ViewerFlagsEnriched(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	item := contentItem(5, time.Hour, now)
	viewer := uuid.New()

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return([]models.ContentItem{item}, nil)
	m.store.EXPECT().LikeCount(gomock.Any(), item.ID).Return(int64(7), nil)
	m.comments.EXPECT().CountByContent(gomock.Any(), item.ID).Return(int64(3), nil)
	m.store.EXPECT().HasLiked(gomock.Any(), item.ID, viewer).Return(true, nil)
	m.store.EXPECT().HasBookmarked(gomock.Any(), item.ID, viewer).Return(false, nil)

	entries, err := svc.AssembleFeed(context.Background(), &viewer, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.Equal(t, int64(7), entries[0].Likes)
	require.Equal(t, int64(3), entries[0].Comments)
	require.True(t, entries[0].IsLiked)
	require.False(t, entries[0].IsBookmarked)
}

// Ошибка обогащения одного кандидата деградирует в нулевой снимок,
// остальные кандидаты не затронуты.
func TestAssembleFeed_EnrichmentDegradation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	healthy := contentItem(10, time.Hour, now)
	broken := contentItem(5, 2*time.Hour, now)

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return([]models.ContentItem{healthy, broken}, nil)

	m.store.EXPECT().LikeCount(gomock.Any(), healthy.ID).Return(int64(42), nil)
	m.comments.EXPECT().CountByContent(gomock.Any(), healthy.ID).Return(int64(9), nil)

	m.store.EXPECT().LikeCount(gomock.Any(), broken.ID).Return(int64(0), errors.New("timeout"))

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byID := make(map[string]models.FeedEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	require.Equal(t, int64(42), byID[healthy.ID.String()].Likes)
	require.Equal(t, int64(9), byID[healthy.ID.String()].Comments)

	require.Equal(t, int64(0), byID[broken.ID.String()].Likes)
	require.Equal(t, int64(0), byID[broken.ID.String()].Comments)
}

// Страницы по 10 конкатенируются в ту же последовательность, что одна по 20.
func TestAssembleFeed_PaginationConsistency(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	items := make([]models.ContentItem, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, contentItem(int64(i), time.Duration(i)*time.Minute, now))
	}

	// Три прохода конвейера: 2 страницы по 10 + 1 страница на 20.
	for i := 0; i < 3; i++ {
		m.store.EXPECT().
			RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
			Return(items, nil)
		expectPlainEngagement(m, items)
	}

	first, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.Len(t, first, 10)

	second, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10, Offset: 10})
	require.NoError(t, err)
	require.Len(t, second, 10)

	full, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 20, Offset: 0})
	require.NoError(t, err)
	require.Len(t, full, 20)

	combined := append(append([]models.FeedEntry{}, first...), second...)
	for i := range full {
		require.Equal(t, full[i].ID, combined[i].ID, "page concatenation must match single large page")
	}
}

func TestAssembleFeed_OffsetBeyondPool(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	items := []models.ContentItem{contentItem(1, time.Hour, now)}

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return(items, nil)
	expectPlainEngagement(m, items)

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10, Offset: 100})
	require.NoError(t, err)
	require.Empty(t, entries)
}

// limit <= 0 -> cfg.Limits.Default; limit > max -> cfg.Limits.Max; offset < 0 -> 0.
func TestAssembleFeed_NormalizesLimits(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	items := make([]models.ContentItem, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, contentItem(int64(i), time.Duration(i)*time.Minute, now))
	}

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return(items, nil)
	expectPlainEngagement(m, items)

	// limit 0 -> default 20; offset -5 -> 0.
	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 0, Offset: -5})
	require.NoError(t, err)
	require.Len(t, entries, 20)
}

func TestAssembleFeed_RankedByScoreDescending(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	low := contentItem(0, time.Hour, now)
	high := contentItem(100, time.Hour, now)
	mid := contentItem(50, time.Hour, now)

	items := []models.ContentItem{low, high, mid}
	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return(items, nil)
	expectPlainEngagement(m, items)

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, high.ID.String(), entries[0].ID)
	require.Equal(t, mid.ID.String(), entries[1].ID)
	require.Equal(t, low.ID.String(), entries[2].ID)
}

// Публичное представление: topics не-nil, isBot по источнику, медиа-ключи
// разрешаются в URL.
func TestAssembleFeed_PublicRepresentation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	item := contentItem(1, time.Hour, now)
	item.Source = models.SourceAgent
	item.Topics = nil
	item.MediaKey = "covers/abc.png"
	item.AuthorAvatarKey = "avatars/bot.png"

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return([]models.ContentItem{item}, nil)
	expectPlainEngagement(m, []models.ContentItem{item})

	m.media.EXPECT().
		ResolveURL(gomock.Any(), "covers/abc.png").
		Return("https://cdn.example.com/covers/abc.png", nil)
	m.media.EXPECT().
		ResolveURL(gomock.Any(), "avatars/bot.png").
		Return("https://cdn.example.com/avatars/bot.png", nil)

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	require.NotNil(t, e.Topics)
	require.Empty(t, e.Topics)
	require.True(t, e.Author.IsBot)
	require.Equal(t, "https://cdn.example.com/covers/abc.png", e.MediaURL)
	require.Equal(t, "https://cdn.example.com/avatars/bot.png", e.Author.Avatar)
}

// Ошибка разрешения медиа-ключа деградирует в исходный ключ.
func TestAssembleFeed_MediaResolveDegradation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	item := contentItem(1, time.Hour, now)
	item.MediaKey = "covers/abc.png"

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		Return([]models.ContentItem{item}, nil)
	expectPlainEngagement(m, []models.ContentItem{item})

	m.media.EXPECT().
		ResolveURL(gomock.Any(), "covers/abc.png").
		Return("", errors.New("presign failed"))

	entries, err := svc.AssembleFeed(context.Background(), nil, models.FeedOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "covers/abc.png", entries[0].MediaURL)
}

func TestAssembleFeed_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	now := time.Now().UTC()
	items := []models.ContentItem{contentItem(1, time.Hour, now)}

	ctx, cancel := context.WithCancel(context.Background())

	m.store.EXPECT().
		RecentPublished(gomock.Any(), int32(candidatePoolLimit)).
		DoAndReturn(func(_ context.Context, _ int32) ([]models.ContentItem, error) {
			cancel()
			return items, nil
		})

	entries, err := svc.AssembleFeed(ctx, nil, models.FeedOptions{Limit: 10})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, entries)
}
