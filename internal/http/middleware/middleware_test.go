package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/feed-service/internal/auth"
	"github.com/learnflow/feed-service/internal/config"
)

// Покрываем поведение мидлваров:
//  - RequestID: генерация и проброс существующего id;
//  - Recover: паника хендлера -> 500 с JSON-ошибкой;
//  - Timeout: навешивание дедлайна и уважение уже существующего;
//  - OptionalViewer: валидный токен кладёт зрителя в контекст,
//    невалидный/отсутствующий — запрос продолжается анонимным.

// chain применяет мидлвары к обработчику в порядке перечисления
// (в продакшене цепочку собирает chi через router.Use).
func chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has := r.Context().Deadline()
		require.True(t, has)
	}), Timeout(time.Second))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestTimeout_KeepsExistingDeadline(t *testing.T) {
	t.Parallel()

	want := time.Now().Add(time.Minute)
	ctx, cancel := context.WithDeadline(context.Background(), want)
	defer cancel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, has := r.Context().Deadline()
		require.True(t, has)
		require.Equal(t, want, got)
	}), Timeout(time.Second))

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestTimeout_DisabledOnZero(t *testing.T) {
	t.Parallel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, has := r.Context().Deadline()
		require.False(t, has)
	}), Timeout(0))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

// Ответ без явного WriteHeader и без тела считается 200.
func TestResponseLog_DefaultStatus(t *testing.T) {
	t.Parallel()

	rl := observe(httptest.NewRecorder())
	require.Equal(t, http.StatusOK, rl.statusCode())

	_, err := rl.Write([]byte("payload"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rl.statusCode())
	require.Equal(t, len("payload"), rl.bytes)
}

// Первый WriteHeader фиксирует статус, последующие не перетирают его.
func TestResponseLog_FirstStatusWins(t *testing.T) {
	t.Parallel()

	rl := observe(httptest.NewRecorder())
	rl.WriteHeader(http.StatusNotFound)
	rl.WriteHeader(http.StatusInternalServerError)
	require.Equal(t, http.StatusNotFound, rl.statusCode())
}

func TestRequestID_Generates(t *testing.T) {
	t.Parallel()

	var fromHandler string
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromHandler = r.Header.Get("X-Request-Id")
	}), RequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, fromHandler)
	require.Len(t, fromHandler, 32)
	require.Equal(t, fromHandler, rec.Header().Get("X-Request-Id"))
}

func TestRequestID_PassesExisting(t *testing.T) {
	t.Parallel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "upstream-id", r.Header.Get("X-Request-Id"))
	}), RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "upstream-id", rec.Header().Get("X-Request-Id"))
}

func TestRecover_PanicTo500(t *testing.T) {
	t.Parallel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recover())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal")
}

func newTestVerifier() *auth.Verifier {
	return auth.NewVerifier(config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "learnflow-auth",
	})
}

func signTestToken(t *testing.T, uid uuid.UUID) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "learnflow-auth",
		"uid": uid.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestOptionalViewer_ValidToken(t *testing.T) {
	t.Parallel()

	want := uuid.New()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := Viewer(r.Context())
		require.True(t, ok)
		require.Equal(t, want, got)
	}), OptionalViewer(newTestVerifier()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, want))
	h.ServeHTTP(httptest.NewRecorder(), req)
}

// Невалидный токен не отклоняет запрос: он продолжается анонимным.
func TestOptionalViewer_InvalidTokenIsAnonymous(t *testing.T) {
	t.Parallel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := Viewer(r.Context())
		require.False(t, ok)
		w.WriteHeader(http.StatusOK)
	}), OptionalViewer(newTestVerifier()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalViewer_NoHeader(t *testing.T) {
	t.Parallel()

	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := Viewer(r.Context())
		require.False(t, ok)
	}), OptionalViewer(newTestVerifier()))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestBearerToken_Parsing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc", want: "abc"},
		{header: "Bearer ", want: ""},
		{header: "Basic abc", want: ""},
		{header: "bearer abc", want: ""},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		require.Equal(t, tc.want, bearerToken(req), "header %q", tc.header)
	}
}
