// Package contentgate собирает HTTP-сервис шлюза доступа к контенту.
package contentgate

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	// Регистрация документации swagger.
	_ "github.com/magabrotheeeer/content-gate/docs"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/access"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/adunlock"
	contenthandler "github.com/magabrotheeeer/content-gate/internal/http/handlers/content"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/health"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/markets"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/plan"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/session"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/unlock"
	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/services/entitlement"
)

// Лимит запросов на разблокировку для одного пользователя.
const (
	unlockRateLimit = rate.Limit(5)
	unlockRateBurst = 10
)

// Deps зависимости маршрутов.
type Deps struct {
	Tokens   middlewarectx.TokenParser
	Registry *entitlement.Registry
	Content  contenthandler.Service
	Checks   map[string]health.Check
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	openSession := func(ctx context.Context, identity models.Identity, surface models.Surface) any {
		return deps.Registry.Session(ctx, identity, surface)
	}

	accessHandler := access.New(logger)
	planHandler := plan.New(logger)
	unlockHandler := unlock.New(logger, deps.Registry)
	adHandler := adunlock.New(logger)
	contentHandler := contenthandler.New(logger, deps.Content)

	r.Route("/api/v1", func(r chi.Router) {
		// Чистый расчёт, личность не нужна
		r.Post("/markets", markets.New(logger).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.IdentityMiddleware(deps.Tokens, logger))

			r.With(middlewarectx.RequireUser(logger)).
				Post("/session/signout", session.New(logger, deps.Registry).SignOut)

			// Ручная выдача грантов
			r.With(middlewarectx.RequireAdmin(logger)).
				Post("/admin/users/{user_id}/unlocks", unlockHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SurfaceMiddleware(logger))
				r.Use(middlewarectx.SessionMiddleware(openSession))

				r.Get("/access", accessHandler.ServeHTTP)
				r.Get("/plan", planHandler.Get)
				r.Get("/predictions/{match_id}", contentHandler.Prediction)
				r.Get("/tickets/{ticket_id}", contentHandler.Ticket)

				// Группа для вошедших пользователей
				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.RequireUser(logger))
					r.Post("/plan/refetch", planHandler.Refetch)
					r.Get("/unlocks", unlockHandler.List)
					r.Get("/unlocks/ad", adHandler.Get)
					r.Get("/unlocks/{content_type}/{content_id}", unlockHandler.Status)

					r.Group(func(r chi.Router) {
						r.Use(middlewarectx.RateLimitMiddleware(logger, unlockRateLimit, unlockRateBurst))
						r.Post("/unlocks/ad", adHandler.Begin)
						r.Delete("/unlocks/ad", adHandler.Abandon)
					})
				})
			})
		})
	})

	r.Get("/health", health.New(logger, deps.Checks).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
