// Package adunlock реализует HTTP-обработчики разблокировки через рекламу в
// мобильной оболочке: старт показа, отказ и текущее состояние.
//
// Подтверждение показа приходит не сюда, а сообщением моста в очередь.
package adunlock

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/http/response"
	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/services/entitlement"
)

// Session часть движка доступа, нужная обработчику.
type Session interface {
	BeginAdUnlock(ctx context.Context, ct models.ContentType, contentID string) error
	AbandonAdUnlock(ctx context.Context) error
	PendingUnlock(ctx context.Context) (*models.PendingUnlock, error)
	UnlockState() models.UnlockState
}

// Request элемент, который пользователь открывает просмотром рекламы.
type Request struct {
	ContentType string `json:"content_type" validate:"required,oneof=tip ticket" example:"ticket"`
	ContentID   string `json:"content_id" validate:"required,max=128" example:"t-77"`
}

// State состояние разблокировки через рекламу.
type State struct {
	State   models.UnlockState    `json:"state"`
	Pending *models.PendingUnlock `json:"pending,omitempty"`
}

// Handler обрабатывает запросы разблокировки через рекламу.
type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validator.New(),
	}
}

// Begin сохраняет токен ожидающего гранта перед показом рекламы.
//
// @Summary      Начать разблокировку через рекламу
// @Tags         unlocks
// @Accept       json
// @Produce      json
// @Param        request  body  Request  true  "Элемент"
// @Param        X-Client-Surface  header  string  true  "mobile"
// @Success      202  {object}  response.Response{data=State}
// @Failure      400  {object}  response.ErrorResponse
// @Failure      401  {object}  response.ErrorResponse
// @Failure      409  {object}  response.ErrorResponse
// @Failure      503  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /unlocks/ad [post]
func (h *Handler) Begin(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adunlock.Begin"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	session, ok := h.session(w, r, log)
	if !ok {
		return
	}

	if err := session.BeginAdUnlock(r.Context(), models.ContentType(req.ContentType), req.ContentID); err != nil {
		h.fail(w, r, log, err)
		return
	}

	log.Info("ad unlock requested", sl.Content(req.ContentType, req.ContentID))

	state := State{State: session.UnlockState()}
	if pending, err := session.PendingUnlock(r.Context()); err == nil {
		state.Pending = pending
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.StatusOKWithData(state))
}

// Abandon снимает ожидающий грант.
//
// @Summary      Отказаться от разблокировки через рекламу
// @Tags         unlocks
// @Produce      json
// @Success      200  {object}  response.Response{data=State}
// @Failure      401  {object}  response.ErrorResponse
// @Failure      503  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /unlocks/ad [delete]
func (h *Handler) Abandon(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.adunlock.Abandon"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	session, ok := h.session(w, r, log)
	if !ok {
		return
	}
	if err := session.AbandonAdUnlock(r.Context()); err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(State{State: session.UnlockState()}))
}

// Get возвращает состояние и ожидающий грант, если он есть.
//
// @Summary      Состояние разблокировки через рекламу
// @Tags         unlocks
// @Produce      json
// @Success      200  {object}  response.Response{data=State}
// @Failure      503  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /unlocks/ad [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.adunlock.Get"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	session, ok := h.session(w, r, log)
	if !ok {
		return
	}
	pending, err := session.PendingUnlock(r.Context())
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(State{State: session.UnlockState(), Pending: pending}))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, entitlement.ErrGuest):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
	case errors.Is(err, entitlement.ErrAdUnavailable):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.Error("ad unlock is available only in the mobile app"))
	case errors.Is(err, entitlement.ErrInvalidContent):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid content reference"))
	default:
		log.Error("pending unlock store failed", sl.Err(err))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("unlock temporarily unavailable"))
	}
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
