// Package domaincreate реализует HTTP-обработчик для регистрации доменов.
//
// Домен привязывается ровно к одной услуге того же пользователя.
// Цена продления обязана присутствовать тогда и только тогда,
// когда установлен флаг has_renewal_price.
package domaincreate

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

// Handler управляет HTTP-запросами на регистрацию доменов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики регистрации домена.
type Service interface {
	CreateDomain(ctx context.Context, req models.DummyDomain) (*models.Domain, error)
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
// @Summary Зарегистрировать домен
// @Description Регистрирует домен, привязанный к услуге того же пользователя.
// @Tags Domains
// @Accept  json
// @Produce  json
// @Param request body models.DummyDomain true "Данные нового домена"
// @Success 200 {object} map[string]any "Успешная регистрация домена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь или услуга не найдены"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или несогласованная цена продления"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации домена"
// @Router /domains [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.domain.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDomain
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

	d, err := h.service.CreateDomain(r.Context(), req)
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
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, models.ErrServiceNotFound):
			log.Error("service not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("service not found"))
		case errors.Is(err, models.ErrOwnershipMismatch):
			log.Error("service belongs to another user", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("service belongs to another user"))
		default:
			log.Error("failed to create domain", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create domain"))
		}
		return
	}

	log.Info("success to create domain", slog.String("id", d.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"domain": d,
	}))
}
