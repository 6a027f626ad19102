// Package servicelifecycle реализует HTTP-обработчик проекции периода продления услуги.
//
// Проекция вычисляется на чтении относительно текущего момента
// и никогда не сохраняется.
package servicelifecycle

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hosting-portal/internal/http/response"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/sl"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// Handler обрабатывает запросы на проекцию периода продления услуги.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проекции периода продления.
type Service interface {
	ProjectServiceLifecycle(ctx context.Context, id string, now time.Time) (*models.LifecycleInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Прогресс периода продления услуги
// @Description Возвращает процент прошедшего периода продления и число оставшихся дней.
// @Tags Services
// @Produce  json
// @Param id path string true "ID услуги"
// @Success 200 {object} map[string]any "Проекция периода продления"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Услуга не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /services/{id}/lifecycle [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.lifecycle"

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

	info, err := h.service.ProjectServiceLifecycle(r.Context(), id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrServiceNotFound) {
			log.Error("service not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("service not found"))
			return
		}
		log.Error("failed to project service lifecycle", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not project service lifecycle"))
		return
	}

	log.Info("success to project service lifecycle", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"lifecycle": info,
	}))
}
