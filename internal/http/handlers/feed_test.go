package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Покрываем контракт rank-эндпойнта и валидацию query-параметров ленты —
// ветки, которые отвечают до обращения к сервисному слою.

func TestRankBatch_MissingItems(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodPost, "/feed/rank",
		strings.NewReader(`{"userId":"u1","userTopics":["go"]}`))
	rec := httptest.NewRecorder()

	h.RankBatch(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankBatch_ItemsNotArray(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodPost, "/feed/rank",
		strings.NewReader(`{"items":"not-an-array"}`))
	rec := httptest.NewRecorder()

	h.RankBatch(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankBatch_MalformedJSON(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodPost, "/feed/rank", strings.NewReader(`{`))
	rec := httptest.NewRecorder()

	h.RankBatch(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRankBatch_EmptyArrayOK(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodPost, "/feed/rank", strings.NewReader(`{"items":[]}`))
	rec := httptest.NewRecorder()

	h.RankBatch(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Empty(t, out)
}

// Ответ возвращает те же элементы: неизвестные сервису атрибуты внешних
// пайплайнов не теряются, score/scoreBreakdown дописываются поверх.
func TestRankBatch_PreservesUnknownItemFields(t *testing.T) {
	t.Parallel()

	h := New(nil)

	body := `{
		"userId": "pipeline-1",
		"userTopics": ["go"],
		"items": [
			{"id":"a","topics":["go"],"popularity":10,"createdAt":"2026-02-10T12:00:00Z","title":"extra","meta":{"source":"sync"}},
			{"id":"b","topics":[],"popularity":5,"createdAt":"2026-02-09T12:00:00Z"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/feed/rank", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.RankBatch(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)

	// Совпадение темы поднимает "a" над "b".
	require.Equal(t, "a", out[0]["id"])
	require.Equal(t, "b", out[1]["id"])

	// Неизвестные поля элемента дошли до ответа как есть.
	require.Equal(t, "extra", out[0]["title"])
	require.Equal(t, map[string]any{"source": "sync"}, out[0]["meta"])

	breakdown, ok := out[0]["scoreBreakdown"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 2.0, breakdown["base"])
	require.Equal(t, 1.5, breakdown["topicMatch"])

	first, ok := out[0]["score"].(float64)
	require.True(t, ok)
	second, ok := out[1]["score"].(float64)
	require.True(t, ok)
	require.Greater(t, first, second)
}

// Присланные вызывателем score/scoreBreakdown перезаписываются вычисленными.
func TestRankBatch_RecomputesClientScore(t *testing.T) {
	t.Parallel()

	h := New(nil)

	body := `{
		"items": [
			{"id":"a","topics":[],"popularity":0,"createdAt":"2026-02-10T12:00:00Z","score":999}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/feed/rank", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.RankBatch(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Less(t, out[0]["score"].(float64), 999.0)
}

func TestPersonalizedFeed_InvalidQueryParams(t *testing.T) {
	t.Parallel()

	h := New(nil)

	for _, target := range []string{
		"/feed/personalized?limit=abc",
		"/feed/personalized?limit=-1",
		"/feed/personalized?offset=abc",
		"/feed/personalized?offset=-1",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()

		h.PersonalizedFeed(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}
