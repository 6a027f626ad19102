// Package services содержит бизнес-логику управления хостинговыми услугами
// и доменами: вывод даты следующего продления, связку цены продления домена
// с её флагом, проверку принадлежности и проекцию прогресса периода продления.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/hosting-portal/internal/lib/lifecycle"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// Срок одного периода обслуживания. Для shared-хостинга — ровно год,
// тот же срок действует для доменов.
const renewalTermYears = 1

// dateLayout — формат дат в JSON-запросах.
const dateLayout = "02-01-2006"

// HostingRepository определяет методы для работы с услугами и доменами в хранилище.
type HostingRepository interface {
	// GetUser возвращает пользователя по его идентификатору.
	GetUser(ctx context.Context, uid string) (*models.User, error)

	// CreateService добавляет новую услугу.
	CreateService(ctx context.Context, svc models.Service) error
	// ReadService возвращает услугу по ID.
	ReadService(ctx context.Context, id string) (*models.Service, error)
	// UpdateService обновляет данные услуги по ID.
	UpdateService(ctx context.Context, svc models.Service, id string) (int, error)
	// RemoveService удаляет услугу по ID и возвращает количество удалённых записей.
	RemoveService(ctx context.Context, id string) (int, error)
	// ListServices возвращает список услуг пользователя с пагинацией.
	ListServices(ctx context.Context, userUID string, limit, offset int) ([]*models.Service, error)
	// ListAllServices возвращает список всех услуг с пагинацией.
	ListAllServices(ctx context.Context, limit, offset int) ([]*models.Service, error)
	// CountOpenInvoicesForService считает нефинализированные счета услуги.
	CountOpenInvoicesForService(ctx context.Context, serviceID string) (int, error)

	// CreateDomain добавляет новый домен.
	CreateDomain(ctx context.Context, d models.Domain) error
	// ReadDomain возвращает домен по ID.
	ReadDomain(ctx context.Context, id string) (*models.Domain, error)
	// UpdateDomain обновляет данные домена по ID.
	UpdateDomain(ctx context.Context, d models.Domain, id string) (int, error)
	// RemoveDomain удаляет домен по ID и возвращает количество удалённых записей.
	RemoveDomain(ctx context.Context, id string) (int, error)
	// ListDomains возвращает список доменов пользователя с пагинацией.
	ListDomains(ctx context.Context, userUID string, limit, offset int) ([]*models.Domain, error)
	// ListAllDomains возвращает список всех доменов с пагинацией.
	ListAllDomains(ctx context.Context, limit, offset int) ([]*models.Domain, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// HostingService реализует бизнес-логику работы с услугами и доменами.
type HostingService struct {
	repo  HostingRepository
	cache Cache
	log   *slog.Logger
}

// NewHostingService создает новый экземпляр HostingService.
func NewHostingService(repo HostingRepository, cache Cache, log *slog.Logger) *HostingService {
	return &HostingService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// CreateService создаёт новую хостинговую услугу.
// Дата следующего продления выводится как startDate + 1 год и обязана
// быть позже даты создания записи.
func (s *HostingService) CreateService(ctx context.Context, req models.DummyService) (*models.Service, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	if _, err := s.repo.GetUser(ctx, req.UserUID); err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	nextRenewalDate := startDate.AddDate(renewalTermYears, 0, 0)
	if !nextRenewalDate.After(createdAt) {
		return nil, fmt.Errorf("next renewal date %s is not later than creation date",
			nextRenewalDate.Format(dateLayout))
	}

	svc := models.Service{
		ID:              uuid.New().String(),
		UserUID:         req.UserUID,
		PlanName:        req.PlanName,
		Price:           req.Price,
		PanelType:       req.PanelType,
		PlanStatus:      models.PlanStatusActive,
		CreatedAt:       createdAt,
		StartDate:       startDate,
		NextRenewalDate: nextRenewalDate,
	}

	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	s.log.Info("created new service", slog.String("id", svc.ID))

	cacheKey := fmt.Sprintf("service:%s", svc.ID)
	if err := s.cache.Set(cacheKey, svc, time.Hour); err != nil {
		s.log.Warn("failed to cache service", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return &svc, nil
}

// ReadService возвращает услугу по ID, используя кеш или репозиторий.
func (s *HostingService) ReadService(ctx context.Context, id string) (*models.Service, error) {
	var result *models.Service
	cacheKey := fmt.Sprintf("service:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadService(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// UpdateService обновляет услугу и инвалидирует кеш.
// Дата следующего продления пересчитывается из новой даты начала.
func (s *HostingService) UpdateService(ctx context.Context, req models.DummyService, id string) (int, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}

	planStatus := req.PlanStatus
	if planStatus == "" {
		planStatus = models.PlanStatusActive
	}

	svc := models.Service{
		PlanName:        req.PlanName,
		Price:           req.Price,
		PanelType:       req.PanelType,
		PlanStatus:      planStatus,
		StartDate:       startDate,
		NextRenewalDate: startDate.AddDate(renewalTermYears, 0, 0),
	}
	res, err := s.repo.UpdateService(ctx, svc, id)
	if err != nil {
		return 0, err
	}
	if res == 0 {
		return 0, models.ErrServiceNotFound
	}
	s.log.Info("updated service in storage", slog.String("id", id))

	cacheKey := fmt.Sprintf("service:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// RemoveService удаляет услугу, если на неё не ссылается ни один
// нефинализированный счёт, и инвалидирует кеш.
func (s *HostingService) RemoveService(ctx context.Context, id string) (int, error) {
	open, err := s.repo.CountOpenInvoicesForService(ctx, id)
	if err != nil {
		return 0, err
	}
	if open > 0 {
		return 0, models.ErrServiceReferenced
	}

	cacheKey := fmt.Sprintf("service:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveService(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, models.ErrServiceNotFound
	}
	return count, nil
}

// ListServices возвращает список услуг в зависимости от роли пользователя.
func (s *HostingService) ListServices(ctx context.Context, userUID, role string, limit, offset int) ([]*models.Service, error) {
	if role == "admin" {
		return s.repo.ListAllServices(ctx, limit, offset)
	}
	return s.repo.ListServices(ctx, userUID, limit, offset)
}

// CreateDomain создаёт новый домен, привязанный к услуге того же пользователя.
// Цена продления обязана присутствовать тогда и только тогда,
// когда установлен флаг has_renewal_price.
func (s *HostingService) CreateDomain(ctx context.Context, req models.DummyDomain) (*models.Domain, error) {
	if req.HasRenewalPrice && req.RenewalPrice == nil {
		return nil, models.ErrRenewalPriceRequired
	}
	if !req.HasRenewalPrice && req.RenewalPrice != nil {
		return nil, models.ErrRenewalPriceForbidden
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}

	if _, err := s.repo.GetUser(ctx, req.UserUID); err != nil {
		return nil, err
	}
	svc, err := s.repo.ReadService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.UserUID != req.UserUID {
		return nil, models.ErrOwnershipMismatch
	}

	d := models.Domain{
		ID:              uuid.New().String(),
		ServiceID:       req.ServiceID,
		UserUID:         req.UserUID,
		Name:            req.Name,
		PurchasedPrice:  req.PurchasedPrice,
		RenewalPrice:    req.RenewalPrice,
		StartDate:       startDate,
		NextRenewalDate: startDate.AddDate(renewalTermYears, 0, 0),
		DomainStatus:    models.DomainStatusPending,
	}

	if err := s.repo.CreateDomain(ctx, d); err != nil {
		return nil, err
	}

	s.log.Info("created new domain", slog.String("id", d.ID), slog.String("name", d.Name))
	return &d, nil
}

// ReadDomain возвращает домен по ID, используя кеш или репозиторий.
func (s *HostingService) ReadDomain(ctx context.Context, id string) (*models.Domain, error) {
	var result *models.Domain
	cacheKey := fmt.Sprintf("domain:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadDomain(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// UpdateDomain обновляет домен и инвалидирует кеш.
// Связка цены продления с флагом проверяется так же, как при создании.
func (s *HostingService) UpdateDomain(ctx context.Context, req models.DummyDomain, id string) (int, error) {
	if req.HasRenewalPrice && req.RenewalPrice == nil {
		return 0, models.ErrRenewalPriceRequired
	}
	if !req.HasRenewalPrice && req.RenewalPrice != nil {
		return 0, models.ErrRenewalPriceForbidden
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %w", err)
	}

	domainStatus := req.DomainStatus
	if domainStatus == "" {
		domainStatus = models.DomainStatusPending
	}

	d := models.Domain{
		Name:            req.Name,
		PurchasedPrice:  req.PurchasedPrice,
		RenewalPrice:    req.RenewalPrice,
		StartDate:       startDate,
		NextRenewalDate: startDate.AddDate(renewalTermYears, 0, 0),
		DomainStatus:    domainStatus,
	}
	res, err := s.repo.UpdateDomain(ctx, d, id)
	if err != nil {
		return 0, err
	}
	if res == 0 {
		return 0, models.ErrDomainNotFound
	}

	cacheKey := fmt.Sprintf("domain:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return res, nil
}

// RemoveDomain удаляет домен по ID и инвалидирует кеш.
func (s *HostingService) RemoveDomain(ctx context.Context, id string) (int, error) {
	cacheKey := fmt.Sprintf("domain:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveDomain(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, models.ErrDomainNotFound
	}
	return count, nil
}

// ListDomains возвращает список доменов в зависимости от роли пользователя.
func (s *HostingService) ListDomains(ctx context.Context, userUID, role string, limit, offset int) ([]*models.Domain, error) {
	if role == "admin" {
		return s.repo.ListAllDomains(ctx, limit, offset)
	}
	return s.repo.ListDomains(ctx, userUID, limit, offset)
}

// ProjectServiceLifecycle возвращает проекцию периода продления услуги.
// Значения вычисляются на чтении и никогда не сохраняются.
func (s *HostingService) ProjectServiceLifecycle(ctx context.Context, id string, now time.Time) (*models.LifecycleInfo, error) {
	svc, err := s.ReadService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !svc.NextRenewalDate.After(svc.CreatedAt) {
		s.log.Warn("service has malformed renewal period",
			slog.String("id", id),
			slog.Time("created_at", svc.CreatedAt),
			slog.Time("next_renewal_date", svc.NextRenewalDate))
	}
	return &models.LifecycleInfo{
		ProgressPercent: lifecycle.Progress(svc.CreatedAt, svc.NextRenewalDate, now),
		DaysRemaining:   lifecycle.DaysRemaining(svc.NextRenewalDate, now),
	}, nil
}

// ProjectDomainLifecycle возвращает проекцию периода продления домена.
// Математика та же, что и для услуг, с собственными датами домена.
func (s *HostingService) ProjectDomainLifecycle(ctx context.Context, id string, now time.Time) (*models.LifecycleInfo, error) {
	d, err := s.ReadDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.NextRenewalDate.After(d.StartDate) {
		s.log.Warn("domain has malformed renewal period",
			slog.String("id", id),
			slog.Time("start_date", d.StartDate),
			slog.Time("next_renewal_date", d.NextRenewalDate))
	}
	return &models.LifecycleInfo{
		ProgressPercent: lifecycle.Progress(d.StartDate, d.NextRenewalDate, now),
		DaysRemaining:   lifecycle.DaysRemaining(d.NextRenewalDate, now),
	}, nil
}
