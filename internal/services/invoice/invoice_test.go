package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hosting-portal/internal/docrenderer"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) ReadService(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}
func (m *RepoMock) ReadDomain(ctx context.Context, id string) (*models.Domain, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Domain), args.Error(1)
}
func (m *RepoMock) CreateInvoice(ctx context.Context, inv models.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}
func (m *RepoMock) ReadInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *RepoMock) UpdateInvoice(ctx context.Context, inv models.Invoice, id string) (int, error) {
	args := m.Called(ctx, inv, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveInvoice(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) SetInvoiceStatus(ctx context.Context, id, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) FinalizeInvoice(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListInvoices(ctx context.Context, userUID string, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}
func (m *RepoMock) ListAllInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

type NumbersMock struct{ mock.Mock }

func (m *NumbersMock) Next(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

type RendererMock struct{ mock.Mock }

func (m *RendererMock) Render(ctx context.Context, req docrenderer.RenderRequest) (*docrenderer.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*docrenderer.Document), args.Error(1)
}

func newTestService() (*InvoiceService, *RepoMock, *NumbersMock, *CacheMock, *PublisherMock, *RendererMock) {
	repo := new(RepoMock)
	numbers := new(NumbersMock)
	cache := new(CacheMock)
	events := new(PublisherMock)
	renderer := new(RendererMock)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInvoiceService(repo, numbers, cache, events, renderer, log),
		repo, numbers, cache, events, renderer
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestInvoiceService_Create(t *testing.T) {
	userUID := uuid.New().String()
	serviceID := uuid.New().String()
	domainID := uuid.New().String()

	user := &models.User{UID: userUID, Email: "customer@example.com", FullName: "Test Customer"}
	svc := &models.Service{ID: serviceID, UserUID: userUID, PlanName: "Shared-10", Price: 15000}
	dom := &models.Domain{ID: domainID, UserUID: userUID, ServiceID: serviceID, Name: "example.com"}

	tests := []struct {
		name       string
		req        models.DummyInvoice
		setupMocks func(*RepoMock, *NumbersMock, *CacheMock, *PublisherMock)
		wantErr    error
		check      func(*testing.T, *models.Invoice)
	}{
		{
			name: "сумма не указана, берётся цена услуги",
			req: models.DummyInvoice{
				UserUID:   userUID,
				ServiceID: strPtr(serviceID),
			},
			setupMocks: func(repo *RepoMock, numbers *NumbersMock, cache *CacheMock, events *PublisherMock) {
				repo.On("GetUser", mock.Anything, userUID).Return(user, nil)
				repo.On("ReadService", mock.Anything, serviceID).Return(svc, nil)
				numbers.On("Next", mock.Anything).Return("INV-00000001", nil)
				repo.On("CreateInvoice", mock.Anything, mock.AnythingOfType("models.Invoice")).Return(nil)
				events.On("Publish", "invoice.event", mock.Anything).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything, time.Hour).Return(nil)
			},
			check: func(t *testing.T, inv *models.Invoice) {
				assert.Equal(t, 15000, inv.Amount)
				assert.Equal(t, models.InvoiceStatusPending, inv.Status)
				assert.False(t, inv.IsFinal)
				assert.Equal(t, "INV-00000001", inv.InvoiceNumber)
			},
		},
		{
			name: "явная сумма выигрывает у цены услуги",
			req: models.DummyInvoice{
				UserUID:   userUID,
				ServiceID: strPtr(serviceID),
				Amount:    intPtr(9900),
			},
			setupMocks: func(repo *RepoMock, numbers *NumbersMock, cache *CacheMock, events *PublisherMock) {
				repo.On("GetUser", mock.Anything, userUID).Return(user, nil)
				repo.On("ReadService", mock.Anything, serviceID).Return(svc, nil)
				numbers.On("Next", mock.Anything).Return("INV-00000002", nil)
				repo.On("CreateInvoice", mock.Anything, mock.AnythingOfType("models.Invoice")).Return(nil)
				events.On("Publish", "invoice.event", mock.Anything).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything, time.Hour).Return(nil)
			},
			check: func(t *testing.T, inv *models.Invoice) {
				assert.Equal(t, 9900, inv.Amount)
			},
		},
		{
			name: "финализированный счёт создаётся сразу оплаченным",
			req: models.DummyInvoice{
				UserUID:   userUID,
				ServiceID: strPtr(serviceID),
				IsFinal:   true,
			},
			setupMocks: func(repo *RepoMock, numbers *NumbersMock, cache *CacheMock, events *PublisherMock) {
				repo.On("GetUser", mock.Anything, userUID).Return(user, nil)
				repo.On("ReadService", mock.Anything, serviceID).Return(svc, nil)
				numbers.On("Next", mock.Anything).Return("INV-00000003", nil)
				repo.On("CreateInvoice", mock.Anything, mock.AnythingOfType("models.Invoice")).Return(nil)
				events.On("Publish", "invoice.event", mock.Anything).Return(nil)
				cache.On("Set", mock.Anything, mock.Anything, time.Hour).Return(nil)
			},
			check: func(t *testing.T, inv *models.Invoice) {
				assert.Equal(t, models.InvoiceStatusPaid, inv.Status)
				assert.True(t, inv.IsFinal)
			},
		},
		{
			name: "нет ни услуги, ни домена",
			req: models.DummyInvoice{
				UserUID: userUID,
			},
			setupMocks: func(_ *RepoMock, _ *NumbersMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    models.ErrMissingRequiredReference,
		},
		{
			name: "нет суммы и услуга не выбрана",
			req: models.DummyInvoice{
				UserUID:  userUID,
				DomainID: strPtr(domainID),
			},
			setupMocks: func(repo *RepoMock, _ *NumbersMock, _ *CacheMock, _ *PublisherMock) {
				repo.On("GetUser", mock.Anything, userUID).Return(user, nil)
				repo.On("ReadDomain", mock.Anything, domainID).Return(dom, nil)
			},
			wantErr: models.ErrMissingAmount,
		},
		{
			name: "услуга принадлежит другому пользователю",
			req: models.DummyInvoice{
				UserUID:   userUID,
				ServiceID: strPtr(serviceID),
			},
			setupMocks: func(repo *RepoMock, _ *NumbersMock, _ *CacheMock, _ *PublisherMock) {
				repo.On("GetUser", mock.Anything, userUID).Return(user, nil)
				foreign := &models.Service{ID: serviceID, UserUID: uuid.New().String(), Price: 15000}
				repo.On("ReadService", mock.Anything, serviceID).Return(foreign, nil)
			},
			wantErr: models.ErrOwnershipMismatch,
		},
		{
			name: "пользователь не существует",
			req: models.DummyInvoice{
				UserUID:   userUID,
				ServiceID: strPtr(serviceID),
			},
			setupMocks: func(repo *RepoMock, _ *NumbersMock, _ *CacheMock, _ *PublisherMock) {
				repo.On("GetUser", mock.Anything, userUID).Return(nil, models.ErrUserNotFound)
			},
			wantErr: models.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, numbers, cache, events, _ := newTestService()
			tt.setupMocks(repo, numbers, cache, events)

			inv, err := service.Create(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, inv)
				repo.AssertNotCalled(t, "CreateInvoice", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, inv)
			tt.check(t, inv)
		})
	}
}

func TestInvoiceService_Remove(t *testing.T) {
	id := uuid.New().String()

	t.Run("нефинализированный счёт удаляется", func(t *testing.T) {
		service, repo, _, cache, _, _ := newTestService()
		repo.On("RemoveInvoice", mock.Anything, id).Return(1, nil)
		cache.On("Invalidate", "invoice:"+id).Return(nil)

		count, err := service.Remove(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("финализированный счёт удалить нельзя", func(t *testing.T) {
		service, repo, _, _, _, _ := newTestService()
		repo.On("RemoveInvoice", mock.Anything, id).Return(0, nil)
		repo.On("ReadInvoice", mock.Anything, id).
			Return(&models.Invoice{ID: id, IsFinal: true, Status: models.InvoiceStatusPaid}, nil)

		_, err := service.Remove(context.Background(), id)
		assert.ErrorIs(t, err, models.ErrInvoiceImmutable)
	})

	t.Run("несуществующий счёт", func(t *testing.T) {
		service, repo, _, _, _, _ := newTestService()
		repo.On("RemoveInvoice", mock.Anything, id).Return(0, nil)
		repo.On("ReadInvoice", mock.Anything, id).Return(nil, models.ErrInvoiceNotFound)

		_, err := service.Remove(context.Background(), id)
		assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
	})
}

func TestInvoiceService_Update_FinalIsImmutable(t *testing.T) {
	id := uuid.New().String()
	service, repo, _, _, _, _ := newTestService()
	repo.On("ReadInvoice", mock.Anything, id).
		Return(&models.Invoice{ID: id, IsFinal: true, Status: models.InvoiceStatusPaid}, nil)

	_, err := service.Update(context.Background(), models.DummyInvoicePatch{Amount: intPtr(100)}, id)
	assert.ErrorIs(t, err, models.ErrInvoiceImmutable)
	repo.AssertNotCalled(t, "UpdateInvoice", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Finalize(t *testing.T) {
	id := uuid.New().String()

	t.Run("успешная финализация публикует событие", func(t *testing.T) {
		service, repo, _, cache, events, _ := newTestService()
		repo.On("FinalizeInvoice", mock.Anything, id).Return(1, nil)
		cache.On("Invalidate", "invoice:"+id).Return(nil)
		repo.On("ReadInvoice", mock.Anything, id).
			Return(&models.Invoice{ID: id, IsFinal: true, Status: models.InvoiceStatusPaid}, nil)
		events.On("Publish", "invoice.event", mock.MatchedBy(func(e InvoiceEvent) bool {
			return e.Type == "invoice.finalized"
		})).Return(nil)

		err := service.Finalize(context.Background(), id)
		require.NoError(t, err)
		events.AssertExpectations(t)
	})

	t.Run("проигравший гонку финализации получает ErrInvoiceImmutable", func(t *testing.T) {
		service, repo, _, _, _, _ := newTestService()
		repo.On("FinalizeInvoice", mock.Anything, id).Return(0, nil)
		repo.On("ReadInvoice", mock.Anything, id).
			Return(&models.Invoice{ID: id, IsFinal: true, Status: models.InvoiceStatusPaid}, nil)

		err := service.Finalize(context.Background(), id)
		assert.ErrorIs(t, err, models.ErrInvoiceImmutable)
	})
}

func TestInvoiceService_MarkOverdue_FinalIsImmutable(t *testing.T) {
	id := uuid.New().String()
	service, repo, _, _, _, _ := newTestService()
	repo.On("SetInvoiceStatus", mock.Anything, id, models.InvoiceStatusOverdue).Return(0, nil)
	repo.On("ReadInvoice", mock.Anything, id).
		Return(&models.Invoice{ID: id, IsFinal: true, Status: models.InvoiceStatusPaid}, nil)

	err := service.MarkOverdue(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrInvoiceImmutable)
}

func TestInvoiceService_RequestDocument(t *testing.T) {
	id := uuid.New().String()
	userUID := uuid.New().String()
	serviceID := uuid.New().String()

	t.Run("нефинализированный счёт отклоняется", func(t *testing.T) {
		service, repo, _, _, _, renderer := newTestService()
		repo.On("ReadInvoice", mock.Anything, id).
			Return(&models.Invoice{ID: id, IsFinal: false, Status: models.InvoiceStatusPending}, nil)

		doc, err := service.RequestDocument(context.Background(), id)
		assert.ErrorIs(t, err, models.ErrInvoiceNotFinal)
		assert.Nil(t, doc)
		renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
	})

	t.Run("финализированный счёт отправляется рендеру", func(t *testing.T) {
		service, repo, _, _, _, renderer := newTestService()
		repo.On("ReadInvoice", mock.Anything, id).Return(&models.Invoice{
			ID:            id,
			UserUID:       userUID,
			ServiceID:     strPtr(serviceID),
			InvoiceNumber: "INV-00000042",
			Amount:        15000,
			Status:        models.InvoiceStatusPaid,
			IsFinal:       true,
		}, nil)
		repo.On("GetUser", mock.Anything, userUID).
			Return(&models.User{UID: userUID, Email: "customer@example.com", FullName: "Test Customer"}, nil)
		repo.On("ReadService", mock.Anything, serviceID).
			Return(&models.Service{ID: serviceID, UserUID: userUID, PlanName: "Shared-10", Price: 15000}, nil)
		renderer.On("Render", mock.Anything, mock.MatchedBy(func(req docrenderer.RenderRequest) bool {
			return req.InvoiceNumber == "INV-00000042" &&
				req.CustomerEmail == "customer@example.com" &&
				req.ServicePlanName == "Shared-10"
		})).Return(&docrenderer.Document{DocumentID: "doc-1", DownloadURL: "https://render/doc-1"}, nil)

		doc, err := service.RequestDocument(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "doc-1", doc.DocumentID)
	})
}
