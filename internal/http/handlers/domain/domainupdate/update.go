// Package domainupdate реализует HTTP-обработчик для обновления домена.
package domainupdate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/hosting-portal/internal/http/response"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/sl"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// Handler обрабатывает запросы на обновление домена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления домена.
type Service interface {
	UpdateDomain(ctx context.Context, req models.DummyDomain, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить домен
// @Description Обновляет домен по ID. Связка цены продления с флагом проверяется так же, как при создании.
// @Tags Domains
// @Accept  json
// @Produce  json
// @Param id path string true "ID домена"
// @Param request body models.DummyDomain true "Новые данные домена"
// @Success 200 {object} map[string]any "Домен обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Домен не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или несогласованная цена продления"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /domains/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDomain
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
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

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		log.Error("invalid id format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	counter, err := h.service.UpdateDomain(r.Context(), req, id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRenewalPriceRequired):
			log.Error("renewal price flag set without price", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("renewal price is required when has_renewal_price is set"))
		case errors.Is(err, models.ErrRenewalPriceForbidden):
			log.Error("renewal price present without flag", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("renewal price is forbidden when has_renewal_price is not set"))
		case errors.Is(err, models.ErrDomainNotFound):
			log.Error("domain not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("domain not found"))
		default:
			log.Error("failed to update domain", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update domain"))
		}
		return
	}

	log.Info("success to update domain", slog.Int("updated_count", counter))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated_count": counter,
	}))
}
