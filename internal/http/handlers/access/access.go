// Package access реализует HTTP-обработчик проверки доступа к элементу контента.
//
// Handler берёт уровень, тип и идентификатор элемента из query-параметров и
// возвращает решение движка доступа вместе с действием для клиента.
package access

import (
	"log/slog"
	"net/http"

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
	Decide(tier models.ContentTier, ct models.ContentType, contentID string) models.AccessResult
}

// Request параметры запроса.
type Request struct {
	Tier        string `json:"tier" validate:"required,oneof=free daily exclusive premium"`
	ContentType string `json:"content_type" validate:"required,oneof=tip ticket"`
	ContentID   string `json:"content_id" validate:"required,max=128"`
}

// Handler обрабатывает запросы проверки доступа.
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

// ServeHTTP возвращает решение о доступе.
//
// @Summary      Проверить доступ к элементу
// @Tags         access
// @Produce      json
// @Param        tier          query  string  true   "Уровень контента"  Enums(free, daily, exclusive, premium)
// @Param        content_type  query  string  true   "Тип элемента"      Enums(tip, ticket)
// @Param        content_id    query  string  true   "Идентификатор элемента"
// @Param        X-Client-Surface  header  string  false  "web или mobile"
// @Success      200  {object}  response.Response{data=models.AccessResult}
// @Failure      400  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	req := Request{
		Tier:        q.Get("tier"),
		ContentType: q.Get("content_type"),
		ContentID:   q.Get("content_id"),
	}
	if err := h.validate.Struct(req); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Warn("invalid access request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	session, ok := middlewarectx.Session(r.Context()).(Session)
	if !ok {
		log.Error("no access session in request context")
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("session unavailable"))
		return
	}

	result := session.Decide(models.ContentTier(req.Tier), models.ContentType(req.ContentType), req.ContentID)
	log.Debug("access decided",
		sl.Content(req.ContentType, req.ContentID),
		slog.String("decision", string(result.Decision)))
	render.JSON(w, r, response.StatusOKWithData(result))
}
