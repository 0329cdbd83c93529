// Package content реализует HTTP-обработчики чтения прогнозов и купонов с учётом доступа.
package content

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/content-gate/internal/http/middlewarectx"
	"github.com/magabrotheeeer/content-gate/internal/http/response"
	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	contentservice "github.com/magabrotheeeer/content-gate/internal/services/content"
)

// Service собирает представления контента.
type Service interface {
	Prediction(ctx context.Context, gate contentservice.Gate, matchID string) (*contentservice.PredictionView, error)
	Ticket(ctx context.Context, gate contentservice.Gate, ticketID string) (*contentservice.TicketView, error)
}

// Handler обрабатывает запросы контента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Prediction возвращает прогноз. Закрытый прогноз приходит без тела и рынков.
//
// @Summary      Прогноз на матч
// @Tags         content
// @Produce      json
// @Param        match_id  path  string  true  "Идентификатор матча"
// @Param        X-Client-Surface  header  string  false  "web или mobile"
// @Success      200  {object}  response.Response{data=contentservice.PredictionView}
// @Failure      404  {object}  response.ErrorResponse
// @Failure      500  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /predictions/{match_id} [get]
func (h *Handler) Prediction(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.Prediction"
	log := h.logger(r, op)

	gate, ok := h.gate(w, r, log)
	if !ok {
		return
	}
	view, err := h.service.Prediction(r.Context(), gate, chi.URLParam(r, "match_id"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(view))
}

// Ticket возвращает купон. Закрытый купон приходит без прогнозов.
//
// @Summary      Купон
// @Tags         content
// @Produce      json
// @Param        ticket_id  path  string  true  "Идентификатор купона"
// @Param        X-Client-Surface  header  string  false  "web или mobile"
// @Success      200  {object}  response.Response{data=contentservice.TicketView}
// @Failure      404  {object}  response.ErrorResponse
// @Failure      500  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /tickets/{ticket_id} [get]
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.Ticket"
	log := h.logger(r, op)

	gate, ok := h.gate(w, r, log)
	if !ok {
		return
	}
	view, err := h.service.Ticket(r.Context(), gate, chi.URLParam(r, "ticket_id"))
	if err != nil {
		h.fail(w, r, log, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(view))
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

func (h *Handler) gate(w http.ResponseWriter, r *http.Request, log *slog.Logger) (contentservice.Gate, bool) {
	gate, ok := middlewarectx.Session(r.Context()).(contentservice.Gate)
	if !ok {
		log.Error("no access session in request context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session unavailable"))
		return nil, false
	}
	return gate, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	if errors.Is(err, contentservice.ErrNotFound) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("not found"))
		return
	}
	log.Error("failed to load content", sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error("could not load content"))
}
