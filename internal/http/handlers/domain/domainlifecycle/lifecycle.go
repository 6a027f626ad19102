// Package domainlifecycle реализует HTTP-обработчик проекции периода продления домена.
//
// Математика та же, что и для услуг, с собственными датами домена.
package domainlifecycle

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

// Handler обрабатывает запросы на проекцию периода продления домена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проекции периода продления.
type Service interface {
	ProjectDomainLifecycle(ctx context.Context, id string, now time.Time) (*models.LifecycleInfo, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Прогресс периода продления домена
// @Description Возвращает процент прошедшего периода продления и число оставшихся дней.
// @Tags Domains
// @Produce  json
// @Param id path string true "ID домена"
// @Success 200 {object} map[string]any "Проекция периода продления"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Домен не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains/{id}/lifecycle [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.lifecycle"

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

	info, err := h.service.ProjectDomainLifecycle(r.Context(), id, time.Now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrDomainNotFound) {
			log.Error("domain not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("domain not found"))
			return
		}
		log.Error("failed to project domain lifecycle", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not project domain lifecycle"))
		return
	}

	log.Info("success to project domain lifecycle", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"lifecycle": info,
	}))
}
