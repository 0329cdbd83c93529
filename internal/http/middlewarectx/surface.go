package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-gate/internal/http/response"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// SurfaceHeader заголовок с клиентской поверхностью.
const SurfaceHeader = "X-Client-Surface"

// SurfaceMiddleware читает поверхность из заголовка. Пустой заголовок означает web.
func SurfaceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			surface, err := models.ParseSurface(r.Header.Get(SurfaceHeader))
			if err != nil {
				log.Warn("unknown client surface", slog.String("value", r.Header.Get(SurfaceHeader)))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSurface(r.Context(), surface)))
		})
	}
}

// SessionFunc возвращает сессию доступа для личности и поверхности.
type SessionFunc func(ctx context.Context, identity models.Identity, surface models.Surface) any

// SessionMiddleware открывает (или находит) сессию доступа и кладёт её в контекст.
// Должен стоять после IdentityMiddleware и SurfaceMiddleware.
func SessionMiddleware(open SessionFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			session := open(ctx, IdentityFrom(ctx), SurfaceFrom(ctx))
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, session)))
		})
	}
}
