// log переносит request-scoped *slog.Logger через context.
//
// HTTP-слой кладёт логгер, обогащённый request_id, в контекст запроса
// (Into/With); сервисный и storage-слои достают его через From, поэтому
// каждая структурная запись несёт атрибуты своего запроса. Вне запроса
// From отдаёт slog.Default().
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с привязанным логгером. Нулевой логгер
// игнорируется: контекст возвращается как есть.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, l)
}

// With дописывает атрибуты к логгеру контекста и возвращает новый контекст.
// Работает и без ранее привязанного логгера: атрибуты лягут поверх
// slog.Default().
func With(ctx context.Context, args ...any) context.Context {
	return Into(ctx, From(ctx).With(args...))
}

// From достаёт логгер из контекста; nil-контекст и контекст без логгера
// дают slog.Default().
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}

	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	return slog.Default()
}
