package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/feed-service/internal/storage"
)

// Файл unit-тестов write-путей лайков и закладок (social.go).
//
// Покрываем маппинг сентинелей хранилища:
//  - storage.ErrConflict -> ErrAlreadyExists (повторный лайк/закладка);
//  - storage.ErrNotFound -> ErrNotFound (несуществующий контент);
//  - прозрачная прокидка «остальных» ошибок;
//  - идемпотентность снятия (remove без записи — не ошибка).

func TestLike_HappyPath(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	m.store.EXPECT().AddLike(gomock.Any(), contentID, userID).Return(nil)

	require.NoError(t, svc.Like(context.Background(), userID, contentID))
}

func TestLike_Duplicate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	m.store.EXPECT().AddLike(gomock.Any(), contentID, userID).Return(storage.ErrConflict)

	err := svc.Like(context.Background(), userID, contentID)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestLike_ContentNotFound(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	m.store.EXPECT().AddLike(gomock.Any(), contentID, userID).Return(storage.ErrNotFound)

	err := svc.Like(context.Background(), userID, contentID)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLike_StorageErrorPassthrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	storeErr := errors.New("connection reset")
	m.store.EXPECT().AddLike(gomock.Any(), contentID, userID).Return(storeErr)

	err := svc.Like(context.Background(), userID, contentID)
	require.Error(t, err)
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, ErrAlreadyExists)
	require.NotErrorIs(t, err, ErrNotFound)
}

// Снятие лайка идемпотентно: сторадж не возвращает ошибку на отсутствие записи.
func TestUnlike_Idempotent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	m.store.EXPECT().RemoveLike(gomock.Any(), contentID, userID).Return(nil).Times(2)

	require.NoError(t, svc.Unlike(context.Background(), userID, contentID))
	require.NoError(t, svc.Unlike(context.Background(), userID, contentID))
}

func TestBookmark_Duplicate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	m.store.EXPECT().AddBookmark(gomock.Any(), contentID, userID).Return(storage.ErrConflict)

	err := svc.Bookmark(context.Background(), userID, contentID)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUnbookmark_Idempotent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newSvcForTest(t, ctrl)

	userID, contentID := uuid.New(), uuid.New()
	m.store.EXPECT().RemoveBookmark(gomock.Any(), contentID, userID).Return(nil)

	require.NoError(t, svc.Unbookmark(context.Background(), userID, contentID))
}
