package domaincreate

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// MockService реализует интерфейс domaincreate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateDomain(ctx context.Context, req models.DummyDomain) (*models.Domain, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Domain), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	userUID := uuid.New().String()
	serviceID := uuid.New().String()

	validBody := `{"user_uid":"` + userUID + `","service_id":"` + serviceID + `","name":"example.com","start_date":"01-02-2026"}`

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация домена",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDomain", mock.Anything, mock.AnythingOfType("models.DummyDomain")).
					Return(&models.Domain{
						ID:           uuid.New().String(),
						ServiceID:    serviceID,
						UserUID:      userUID,
						Name:         "example.com",
						DomainStatus: models.DomainStatusPending,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"domain_status":"pending"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "некорректное доменное имя",
			body:           `{"user_uid":"` + userUID + `","service_id":"` + serviceID + `","name":"not a domain","start_date":"01-02-2026"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Name can contain only a valid domain name`,
		},
		{
			name: "флаг цены продления без цены",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDomain", mock.Anything, mock.AnythingOfType("models.DummyDomain")).
					Return(nil, models.ErrRenewalPriceRequired)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `renewal price is required when has_renewal_price is set`,
		},
		{
			name: "услуга другого пользователя",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDomain", mock.Anything, mock.AnythingOfType("models.DummyDomain")).
					Return(nil, models.ErrOwnershipMismatch)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `service belongs to another user`,
		},
		{
			name: "услуга не найдена",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("CreateDomain", mock.Anything, mock.AnythingOfType("models.DummyDomain")).
					Return(nil, models.ErrServiceNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `service not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/domains", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
