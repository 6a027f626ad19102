// Package invoicedocument реализует HTTP-обработчик запроса печатного документа счёта.
//
// Документ доступен только для финализированного счёта: внешний рендер
// получает замороженные поля и возвращает идентификатор документа со ссылкой.
package invoicedocument

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hosting-portal/internal/docrenderer"
	"github.com/magabrotheeeer/hosting-portal/internal/http/response"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/sl"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// Handler обрабатывает запросы печатного документа счёта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики запроса документа.
type Service interface {
	RequestDocument(ctx context.Context, id string) (*docrenderer.Document, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запросить печатный документ счёта
// @Description Запрашивает у внешнего рендера печатный документ финализированного счёта.
// @Tags Invoices
// @Produce  json
// @Param id path string true "ID счёта"
// @Success 200 {object} map[string]any "Идентификатор документа и ссылка на скачивание"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Счёт не найден"
// @Failure 409 {object} response.ErrorResponse "Счёт не финализирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера или внешнего рендера"
// @Router /invoices/{id}/document [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.document"

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

	doc, err := h.service.RequestDocument(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvoiceNotFound):
			log.Error("invoice not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("invoice not found"))
		case errors.Is(err, models.ErrInvoiceNotFinal):
			log.Error("invoice is not finalized", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("invoice is not finalized"))
		default:
			log.Error("failed to request invoice document", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not request invoice document"))
		}
		return
	}

	log.Info("success to request invoice document",
		slog.String("id", id), slog.String("document_id", doc.DocumentID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"document": doc,
	}))
}
