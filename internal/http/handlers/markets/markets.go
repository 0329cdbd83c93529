// Package markets реализует HTTP-обработчик расчёта вторичных рынков по прогнозу.
// Расчёт чистый и не требует авторизации.
package markets

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/content-gate/internal/http/response"
	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/markets"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// Handler обрабатывает запросы расчёта рынков.
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

// ServeHTTP считает рынки для прогноза из тела запроса.
//
// @Summary      Вторичные рынки
// @Tags         markets
// @Accept       json
// @Produce      json
// @Param        request  body  models.Prediction  true  "Прогноз"
// @Success      200  {object}  response.Response{data=models.DerivedMarkets}
// @Failure      400  {object}  response.ErrorResponse
// @Router       /markets [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.markets.ServeHTTP"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var p models.Prediction
	if err := render.DecodeJSON(r.Body, &p); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("empty request"))
			return
		}
		log.Warn("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}
	if err := h.validate.Struct(p); err != nil {
		validateErr := err.(validator.ValidationErrors)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(markets.Derive(p)))
}
