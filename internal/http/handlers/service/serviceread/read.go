// Package serviceread реализует HTTP-обработчик для получения услуги по ID.
package serviceread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hosting-portal/internal/http/response"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/sl"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// Handler обрабатывает запросы на получение услуги по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения услуги.
type Service interface {
	ReadService(ctx context.Context, id string) (*models.Service, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить услугу
// @Description Возвращает хостинговую услугу по её идентификатору.
// @Tags Services
// @Produce  json
// @Param id path string true "ID услуги"
// @Success 200 {object} map[string]any "Данные услуги"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Услуга не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /services/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		log.Error("invalid id format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	res, err := h.service.ReadService(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrServiceNotFound) {
			log.Error("service not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("service not found"))
			return
		}
		log.Error("failed to read service", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read service"))
		return
	}

	log.Info("success to read service", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"service": res,
	}))
}
