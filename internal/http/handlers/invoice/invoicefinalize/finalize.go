// Package invoicefinalize реализует HTTP-обработчик финализации счёта.
//
// Финализация терминальна: из двух конкурирующих запросов выигрывает
// ровно один, второй получает конфликт.
package invoicefinalize

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

// Handler обрабатывает запросы на финализацию счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики финализации счёта.
type Service interface {
	Finalize(ctx context.Context, id string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Финализировать счёт
// @Description Переводит счёт в терминальное состояние: статус paid, is_final = true. После финализации счёт неизменяем.
// @Tags Invoices
// @Produce  json
// @Param id path string true "ID счёта"
// @Success 200 {object} map[string]any "Счёт финализирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 409 {object} response.ErrorResponse "Счёт уже финализирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id}/finalize [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.finalize"

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

	if err := h.service.Finalize(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, models.ErrInvoiceNotFound):
			log.Error("invoice not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("invoice not found"))
		case errors.Is(err, models.ErrInvoiceImmutable):
			log.Error("invoice already finalized", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("invoice is already finalized"))
		default:
			log.Error("failed to finalize invoice", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not finalize invoice"))
		}
		return
	}

	log.Info("success to finalize invoice", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":       id,
		"is_final": true,
	}))
}
