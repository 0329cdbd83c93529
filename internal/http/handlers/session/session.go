// Package session реализует HTTP-обработчик завершения сессии доступа.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/http/response"
)

// Registry закрывает сессии пользователя.
type Registry interface {
	SignOut(ctx context.Context, userID string) int
}

// Result число закрытых сессий.
type Result struct {
	Closed int `json:"closed"`
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log      *slog.Logger
	registry Registry
}

// New создает новый Handler.
func New(log *slog.Logger, registry Registry) *Handler {
	return &Handler{log: log, registry: registry}
}

// SignOut очищает состояние доступа и ожидающий грант пользователя на всех поверхностях.
//
// @Summary      Выход
// @Tags         session
// @Produce      json
// @Success      200  {object}  response.Response{data=Result}
// @Failure      401  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /session/signout [post]
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.SignOut"

	identity := middlewarectx.IdentityFrom(r.Context())
	if identity.IsGuest() {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	closed := h.registry.SignOut(r.Context(), identity.UserID)
	h.log.Info("user signed out",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user_id", identity.UserID),
		slog.Int("sessions", closed))
	render.JSON(w, r, response.StatusOKWithData(Result{Closed: closed}))
}
