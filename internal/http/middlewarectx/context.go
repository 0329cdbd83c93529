package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// IdentityKey личность запроса (models.Identity).
	IdentityKey Key = "identity"
	// SurfaceKey клиентская поверхность (models.Surface).
	SurfaceKey Key = "surface"
	// SessionKey сессия доступа пользователя.
	SessionKey Key = "session"
)

// WithIdentity кладёт личность в контекст.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom возвращает личность запроса. Без middleware это гость.
func IdentityFrom(ctx context.Context) models.Identity {
	id, _ := ctx.Value(IdentityKey).(models.Identity)
	return id
}

// WithSurface кладёт поверхность в контекст.
func WithSurface(ctx context.Context, s models.Surface) context.Context {
	return context.WithValue(ctx, SurfaceKey, s)
}

// SurfaceFrom возвращает поверхность запроса, по умолчанию web.
func SurfaceFrom(ctx context.Context) models.Surface {
	if s, ok := ctx.Value(SurfaceKey).(models.Surface); ok {
		return s
	}
	return models.SurfaceWeb
}

// WithSession кладёт сессию в контекст.
func WithSession(ctx context.Context, session any) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// Session возвращает сессию запроса. Обработчики приводят её к нужному интерфейсу.
func Session(ctx context.Context) any {
	return ctx.Value(SessionKey)
}
