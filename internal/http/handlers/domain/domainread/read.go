// Package domainread реализует HTTP-обработчик для получения домена по ID.
package domainread

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

// Handler обрабатывает запросы на получение домена по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения домена.
type Service interface {
	ReadDomain(ctx context.Context, id string) (*models.Domain, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить домен
// @Description Возвращает домен по его идентификатору.
// @Tags Domains
// @Produce  json
// @Param id path string true "ID домена"
// @Success 200 {object} map[string]any "Данные домена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Домен не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.read"

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

	res, err := h.service.ReadDomain(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrDomainNotFound) {
			log.Error("domain not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("domain not found"))
			return
		}
		log.Error("failed to read domain", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read domain"))
		return
	}

	log.Info("success to read domain", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"domain": res,
	}))
}
