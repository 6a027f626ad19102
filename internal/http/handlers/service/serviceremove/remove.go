// Package serviceremove реализует HTTP-обработчик для удаления услуги.
//
// Услуга, на которую ссылается хотя бы один нефинализированный счёт,
// удалена быть не может.
package serviceremove

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

// Handler обрабатывает запросы на удаление услуги.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления услуги.
type Service interface {
	RemoveService(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить услугу
// @Description Удаляет услугу по ID, если на неё не ссылаются открытые счета.
// @Tags Services
// @Produce  json
// @Param id path string true "ID услуги"
// @Success 200 {object} map[string]any "Услуга удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Услуга не найдена"
// @Failure 409 {object} response.ErrorResponse "На услугу ссылаются открытые счета"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /services/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.service.remove"

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

	res, err := h.service.RemoveService(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrServiceNotFound):
			log.Error("service not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("service not found"))
		case errors.Is(err, models.ErrServiceReferenced):
			log.Error("service has open invoices", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("service has open invoices"))
		default:
			log.Error("failed to delete service", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete service"))
		}
		return
	}

	log.Info("success to delete service", slog.Int("deleted_count", res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": res,
	}))
}
