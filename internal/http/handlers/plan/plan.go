// Package plan реализует HTTP-обработчики текущего тарифа пользователя.
package plan

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/http/response"
	"github.com/magabrotheeeer/content-gate/internal/services/entitlement"
)

// Session часть движка доступа, нужная обработчику.
type Session interface {
	Sources() entitlement.PlanSources
	Refetch(ctx context.Context)
}

// Handler отдаёт тариф и перечитывает его по запросу.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Get возвращает тариф вместе с источниками.
//
// @Summary      Текущий тариф
// @Tags         plan
// @Produce      json
// @Param        X-Client-Surface  header  string  false  "web или mobile"
// @Success      200  {object}  response.Response{data=entitlement.PlanSources}
// @Security     BearerAuth
// @Router       /plan [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r, "handlers.plan.Get")
	if !ok {
		return
	}
	render.JSON(w, r, response.StatusOKWithData(session.Sources()))
}

// Refetch перечитывает реестр подписок и биллинг платформы.
//
// @Summary      Перечитать тариф
// @Tags         plan
// @Produce      json
// @Param        X-Client-Surface  header  string  false  "web или mobile"
// @Success      200  {object}  response.Response{data=entitlement.PlanSources}
// @Failure      401  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /plan/refetch [post]
func (h *Handler) Refetch(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.Refetch"
	session, ok := h.session(w, r, op)
	if !ok {
		return
	}
	session.Refetch(r.Context())
	sources := session.Sources()
	h.log.Info("plan refetched",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("plan", string(sources.Plan)))
	render.JSON(w, r, response.StatusOKWithData(sources))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, op string) (Session, bool) {
	session, ok := middlewarectx.Session(r.Context()).(Session)
	if !ok {
		h.log.Error("no access session in request context",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session unavailable"))
		return nil, false
	}
	return session, true
}
