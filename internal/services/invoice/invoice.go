// Package services содержит бизнес-логику счетов: машину состояний счёта,
// разрешение суммы, присвоение номера и запрос печатного документа.
//
// Состояния счёта: pending, paid, overdue и финализированный paid
// (is_final = true). Финализация терминальна: финализированный счёт
// неизменяем и не может быть удалён.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/hosting-portal/internal/docrenderer"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// dateLayout — формат дат в JSON-запросах.
const dateLayout = "02-01-2006"

// События счетов публикуются с единым ключом маршрутизации;
// тип события лежит в теле сообщения.
const (
	routingKeyEvent    = "invoice.event"
	eventTypeCreated   = "invoice.created"
	eventTypePaid      = "invoice.paid"
	eventTypeOverdue   = "invoice.overdue"
	eventTypeFinalized = "invoice.finalized"
)

// InvoiceRepository определяет методы для работы со счетами и связанными записями.
type InvoiceRepository interface {
	// GetUser возвращает пользователя по его идентификатору.
	GetUser(ctx context.Context, uid string) (*models.User, error)
	// ReadService возвращает услугу по ID.
	ReadService(ctx context.Context, id string) (*models.Service, error)
	// ReadDomain возвращает домен по ID.
	ReadDomain(ctx context.Context, id string) (*models.Domain, error)

	// CreateInvoice добавляет новый счёт.
	CreateInvoice(ctx context.Context, inv models.Invoice) error
	// ReadInvoice возвращает счёт по ID.
	ReadInvoice(ctx context.Context, id string) (*models.Invoice, error)
	// UpdateInvoice обновляет нефинализированный счёт, возвращая число изменённых строк.
	UpdateInvoice(ctx context.Context, inv models.Invoice, id string) (int, error)
	// RemoveInvoice удаляет нефинализированный счёт, возвращая число удалённых строк.
	RemoveInvoice(ctx context.Context, id string) (int, error)
	// SetInvoiceStatus переводит нефинализированный счёт в новый статус.
	SetInvoiceStatus(ctx context.Context, id, status string) (int, error)
	// FinalizeInvoice атомарно финализирует счёт, возвращая число изменённых строк.
	FinalizeInvoice(ctx context.Context, id string) (int, error)
	// ListInvoices возвращает список счетов пользователя с пагинацией.
	ListInvoices(ctx context.Context, userUID string, limit, offset int) ([]*models.Invoice, error)
	// ListAllInvoices возвращает список всех счетов с пагинацией.
	ListAllInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
}

// NumberGenerator выдаёт уникальные номера счетов.
type NumberGenerator interface {
	Next(ctx context.Context) (string, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события счетов для внешних отправителей уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Renderer — внешний рендер печатных документов счёта.
type Renderer interface {
	Render(ctx context.Context, req docrenderer.RenderRequest) (*docrenderer.Document, error)
}

// InvoiceEvent — событие жизненного цикла счёта.
type InvoiceEvent struct {
	Type          string `json:"type"`
	InvoiceID     string `json:"invoice_id"`
	InvoiceNumber string `json:"invoice_number"`
	UserUID       string `json:"user_uid"`
	Amount        int    `json:"amount"`
	Status        string `json:"status"`
}

// InvoiceService реализует машину состояний счёта.
type InvoiceService struct {
	repo     InvoiceRepository
	numbers  NumberGenerator
	cache    Cache
	events   EventPublisher
	renderer Renderer
	log      *slog.Logger
}

// NewInvoiceService создает новый экземпляр InvoiceService.
func NewInvoiceService(repo InvoiceRepository, numbers NumberGenerator, cache Cache,
	events EventPublisher, renderer Renderer, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:     repo,
		numbers:  numbers,
		cache:    cache,
		events:   events,
		renderer: renderer,
		log:      log,
	}
}

// Create создаёт новый счёт.
//
// Порядок проверок: наличие ссылки на услугу или домен, существование
// пользователя, существование и принадлежность услуги и домена,
// разрешение суммы. Все проверки проходят до какой-либо записи:
// создание либо выполняется целиком, либо не выполняется вовсе.
// Счёт, созданный с is_final = true, сразу получает статус paid,
// минуя pending.
func (s *InvoiceService) Create(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error) {
	if req.ServiceID == nil && req.DomainID == nil {
		return nil, models.ErrMissingRequiredReference
	}

	if _, err := s.repo.GetUser(ctx, req.UserUID); err != nil {
		return nil, err
	}

	var svc *models.Service
	if req.ServiceID != nil {
		var err error
		svc, err = s.repo.ReadService(ctx, *req.ServiceID)
		if err != nil {
			return nil, err
		}
		if svc.UserUID != req.UserUID {
			return nil, models.ErrOwnershipMismatch
		}
	}
	if req.DomainID != nil {
		d, err := s.repo.ReadDomain(ctx, *req.DomainID)
		if err != nil {
			return nil, err
		}
		if d.UserUID != req.UserUID {
			return nil, models.ErrOwnershipMismatch
		}
	}

	amount, err := resolveAmount(req.Amount, svc)
	if err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
		dueDate = &parsed
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	status := models.InvoiceStatusPending
	if req.IsFinal {
		status = models.InvoiceStatusPaid
	}

	inv := models.Invoice{
		ID:            uuid.New().String(),
		UserUID:       req.UserUID,
		ServiceID:     req.ServiceID,
		DomainID:      req.DomainID,
		InvoiceNumber: number,
		Amount:        amount,
		Status:        status,
		IsFinal:       req.IsFinal,
		CreatedAt:     time.Now().UTC(),
		DueDate:       dueDate,
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("created new invoice",
		slog.String("id", inv.ID),
		slog.String("number", inv.InvoiceNumber),
		slog.Bool("is_final", inv.IsFinal))

	eventType := eventTypeCreated
	if inv.IsFinal {
		eventType = eventTypeFinalized
	}
	s.publishEvent(eventType, &inv)

	cacheKey := fmt.Sprintf("invoice:%s", inv.ID)
	if err := s.cache.Set(cacheKey, inv, time.Hour); err != nil {
		s.log.Warn("failed to cache invoice", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return &inv, nil
}

// Read возвращает счёт по ID, используя кеш или репозиторий.
func (s *InvoiceService) Read(ctx context.Context, id string) (*models.Invoice, error) {
	var result *models.Invoice
	cacheKey := fmt.Sprintf("invoice:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadInvoice(ctx, id)
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

// Update изменяет сумму и срок оплаты нефинализированного счёта.
// Для финализированного счёта любое изменение отклоняется.
func (s *InvoiceService) Update(ctx context.Context, req models.DummyInvoicePatch, id string) (int, error) {
	current, err := s.repo.ReadInvoice(ctx, id)
	if err != nil {
		return 0, err
	}
	if current.IsFinal {
		return 0, models.ErrInvoiceImmutable
	}

	amount := current.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	dueDate := current.DueDate
	if req.DueDate != "" {
		parsed, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return 0, fmt.Errorf("invalid due date: %w", err)
		}
		dueDate = &parsed
	}

	res, err := s.repo.UpdateInvoice(ctx, models.Invoice{Amount: amount, DueDate: dueDate}, id)
	if err != nil {
		return 0, err
	}
	if res == 0 {
		// Между чтением и записью счёт исчез или был финализирован.
		return 0, s.resolveMissedWrite(ctx, id)
	}

	s.invalidate(id)
	return res, nil
}

// Remove удаляет нефинализированный счёт.
// Финализированный счёт удалить нельзя: возвращается ErrInvoiceImmutable.
func (s *InvoiceService) Remove(ctx context.Context, id string) (int, error) {
	count, err := s.repo.RemoveInvoice(ctx, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, s.resolveMissedWrite(ctx, id)
	}

	s.invalidate(id)
	return count, nil
}

// MarkPaid переводит нефинализированный счёт в статус paid.
func (s *InvoiceService) MarkPaid(ctx context.Context, id string) error {
	res, err := s.repo.SetInvoiceStatus(ctx, id, models.InvoiceStatusPaid)
	if err != nil {
		return err
	}
	if res == 0 {
		return s.resolveMissedWrite(ctx, id)
	}

	s.invalidate(id)
	s.log.Info("invoice marked paid", slog.String("id", id))

	if inv, err := s.repo.ReadInvoice(ctx, id); err == nil {
		s.publishEvent(eventTypePaid, inv)
	}
	return nil
}

// MarkOverdue переводит нефинализированный счёт в статус overdue.
// Вызывается по внешнему событию истечения срока оплаты; финализированный
// счёт просрочке не подлежит.
func (s *InvoiceService) MarkOverdue(ctx context.Context, id string) error {
	res, err := s.repo.SetInvoiceStatus(ctx, id, models.InvoiceStatusOverdue)
	if err != nil {
		return err
	}
	if res == 0 {
		return s.resolveMissedWrite(ctx, id)
	}

	s.invalidate(id)
	s.log.Info("invoice marked overdue", slog.String("id", id))

	if inv, err := s.repo.ReadInvoice(ctx, id); err == nil {
		s.publishEvent(eventTypeOverdue, inv)
	}
	return nil
}

// Finalize переводит счёт в терминальное состояние: статус paid,
// is_final = true. Из двух конкурирующих запросов финализации выигрывает
// ровно один; проигравший получает ErrInvoiceImmutable и обязан перечитать
// состояние, а не повторять запись вслепую.
func (s *InvoiceService) Finalize(ctx context.Context, id string) error {
	res, err := s.repo.FinalizeInvoice(ctx, id)
	if err != nil {
		return err
	}
	if res == 0 {
		return s.resolveMissedWrite(ctx, id)
	}

	s.invalidate(id)
	s.log.Info("invoice finalized", slog.String("id", id))

	if inv, err := s.repo.ReadInvoice(ctx, id); err == nil {
		s.publishEvent(eventTypeFinalized, inv)
	}
	return nil
}

// List возвращает список счетов в зависимости от роли пользователя.
func (s *InvoiceService) List(ctx context.Context, userUID, role string, limit, offset int) ([]*models.Invoice, error) {
	if role == "admin" {
		return s.repo.ListAllInvoices(ctx, limit, offset)
	}
	return s.repo.ListInvoices(ctx, userUID, limit, offset)
}

// RequestDocument запрашивает у внешнего рендера печатный документ
// финализированного счёта. Ядро передаёт замороженные поля счёта,
// пользователя и связанных записей и не форматирует их само.
func (s *InvoiceService) RequestDocument(ctx context.Context, id string) (*docrenderer.Document, error) {
	inv, err := s.repo.ReadInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsFinal {
		return nil, models.ErrInvoiceNotFinal
	}

	user, err := s.repo.GetUser(ctx, inv.UserUID)
	if err != nil {
		return nil, err
	}

	req := docrenderer.RenderRequest{
		InvoiceNumber:    inv.InvoiceNumber,
		Amount:           inv.Amount,
		Status:           inv.Status,
		CreatedAt:        inv.CreatedAt,
		DueDate:          inv.DueDate,
		CustomerEmail:    user.Email,
		CustomerFullName: user.FullName,
	}
	if inv.ServiceID != nil {
		svc, err := s.repo.ReadService(ctx, *inv.ServiceID)
		if err != nil {
			return nil, err
		}
		req.ServicePlanName = svc.PlanName
	}
	if inv.DomainID != nil {
		d, err := s.repo.ReadDomain(ctx, *inv.DomainID)
		if err != nil {
			return nil, err
		}
		req.DomainName = d.Name
	}

	doc, err := s.renderer.Render(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("invoice document requested",
		slog.String("id", id), slog.String("document_id", doc.DocumentID))
	return doc, nil
}

// resolveMissedWrite выясняет, почему охраняемая запись не затронула строк:
// счёт не существует либо уже финализирован.
func (s *InvoiceService) resolveMissedWrite(ctx context.Context, id string) error {
	if _, err := s.repo.ReadInvoice(ctx, id); err != nil {
		return err
	}
	return models.ErrInvoiceImmutable
}

func (s *InvoiceService) invalidate(id string) {
	cacheKey := fmt.Sprintf("invoice:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func (s *InvoiceService) publishEvent(eventType string, inv *models.Invoice) {
	event := InvoiceEvent{
		Type:          eventType,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		UserUID:       inv.UserUID,
		Amount:        inv.Amount,
		Status:        inv.Status,
	}
	if err := s.events.Publish(routingKeyEvent, event); err != nil {
		s.log.Warn("failed to publish invoice event",
			slog.String("type", eventType), slog.Any("err", err))
	}
}
