// Package unlock реализует HTTP-обработчики грантов разблокировки:
// выдачу гранта администратором, проверку гранта и список действующих грантов.
package unlock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/http/response"
	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// Session часть движка доступа, нужная обработчику.
type Session interface {
	IsContentUnlocked(ct models.ContentType, contentID string) bool
	Grants() []models.UnlockGrant
}

// Granter выдаёт грант пользователю во всех его сессиях.
type Granter interface {
	Grant(ctx context.Context, userID string, ct models.ContentType, contentID string) bool
}

// Request тело запроса на разблокировку.
type Request struct {
	ContentType string `json:"content_type" validate:"required,oneof=tip ticket" example:"tip"`
	ContentID   string `json:"content_id" validate:"required,max=128" example:"m-1042"`
}

// Result итог выдачи гранта. Success=false означает, что грант
// действует в живых сессиях, но не записан в реестр.
type Result struct {
	Success bool `json:"success"`
}

// Status наличие действующего гранта.
type Status struct {
	Unlocked bool `json:"unlocked"`
}

// Handler обрабатывает запросы грантов.
type Handler struct {
	log      *slog.Logger
	grants   Granter
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, grants Granter) *Handler {
	return &Handler{
		log:      log,
		grants:   grants,
		validate: validator.New(),
	}
}

// Create выдаёт пользователю грант до конца текущих суток (UTC). Только для администраторов,
// пользователи получают гранты через просмотр рекламы.
//
// @Summary      Выдать грант пользователю
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        user_id  path  string   true  "Идентификатор пользователя"
// @Param        request  body  Request  true  "Элемент"
// @Success      200  {object}  response.Response{data=Result}
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Failure      403  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{user_id}/unlocks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.unlock.Create"

	userID := chi.URLParam(r, "user_id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("target_user_id", userID),
	)
	if userID == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("user_id is required"))
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			log.Warn("request body is empty")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request"))
			return
		}
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Warn("invalid unlock request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	success := h.grants.Grant(r.Context(), userID, models.ContentType(req.ContentType), req.ContentID)
	if !success {
		log.Warn("unlock not persisted", sl.Content(req.ContentType, req.ContentID))
	} else {
		log.Info("unlock granted by admin", sl.Content(req.ContentType, req.ContentID))
	}
	render.JSON(w, r, response.StatusOKWithData(Result{Success: success}))
}

// Status сообщает, есть ли у пользователя действующий грант на элемент.
//
// @Summary      Проверить грант
// @Tags         unlocks
// @Produce      json
// @Param        content_type  path  string  true  "Тип элемента"  Enums(tip, ticket)
// @Param        content_id    path  string  true  "Идентификатор элемента"
// @Success      200  {object}  response.Response{data=Status}
// @Failure      400  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /unlocks/{content_type}/{content_id} [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.unlock.Status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ct, err := models.ParseContentType(chi.URLParam(r, "content_type"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	session, ok := h.session(w, r, log)
	if !ok {
		return
	}
	render.JSON(w, r, response.StatusOKWithData(Status{
		Unlocked: session.IsContentUnlocked(ct, chi.URLParam(r, "content_id")),
	}))
}

// List возвращает действующие гранты сессии.
//
// @Summary      Действующие гранты
// @Tags         unlocks
// @Produce      json
// @Success      200  {object}  response.Response{data=[]models.UnlockGrant}
// @Security     BearerAuth
// @Router       /unlocks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.unlock.List"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	session, ok := h.session(w, r, log)
	if !ok {
		return
	}
	grants := session.Grants()
	if grants == nil {
		grants = []models.UnlockGrant{}
	}
	render.JSON(w, r, response.StatusOKWithData(grants))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, log *slog.Logger) (Session, bool) {
	session, ok := middlewarectx.Session(r.Context()).(Session)
	if !ok {
		log.Error("no access session in request context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session unavailable"))
		return nil, false
	}
	return session, true
}
