// Package invoicecreate реализует HTTP-обработчик для выставления счетов.
//
// Счёт обязан ссылаться хотя бы на услугу или на домен. Сумма может
// отсутствовать — тогда она берётся из цены выбранной услуги. Счёт,
// выставленный с is_final, сразу получает статус paid и становится неизменяемым.
package invoicecreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/hosting-portal/internal/http/response"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/sl"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// Handler управляет HTTP-запросами на выставление счетов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выставления счёта.
type Service interface {
	Create(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Выставить счёт
// @Description Выставляет счёт на услугу или домен. Номер счёта присваивается один раз и никогда не переиспользуется.
// @Tags Invoices
// @Accept  json
// @Produce  json
// @Param request body models.DummyInvoice true "Данные нового счёта"
// @Success 200 {object} map[string]any "Выставленный счёт"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь, услуга или домен не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации, отсутствует ссылка или сумма"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выставлении счёта"
// @Router /invoices [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyInvoice
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	inv, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrMissingRequiredReference):
			log.Error("invoice references neither service nor domain", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invoice must reference a service or a domain"))
		case errors.Is(err, models.ErrMissingAmount):
			log.Error("amount missing and no service selected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("amount is required when no service is referenced"))
		case errors.Is(err, models.ErrOwnershipMismatch):
			log.Error("referenced record belongs to another user", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("referenced record belongs to another user"))
		case errors.Is(err, models.ErrUserNotFound),
			errors.Is(err, models.ErrServiceNotFound),
			errors.Is(err, models.ErrDomainNotFound):
			log.Error("referenced record not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("referenced record not found"))
		default:
			log.Error("failed to create invoice", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create invoice"))
		}
		return
	}

	log.Info("success to create invoice",
		slog.String("id", inv.ID), slog.String("number", inv.InvoiceNumber))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"invoice": inv,
	}))
}
