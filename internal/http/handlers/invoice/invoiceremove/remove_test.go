package invoiceremove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

// MockService реализует интерфейс invoiceremove.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Remove(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validID := uuid.New().String()
	finalID := uuid.New().String()
	missingID := uuid.New().String()

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное удаление",
			id:   validID,
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, validID).Return(1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"deleted_count":1`,
		},
		{
			name:           "некорректный id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid id"}`,
		},
		{
			name: "финализированный счёт",
			id:   finalID,
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, finalID).Return(0, models.ErrInvoiceImmutable)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"invoice is finalized and cannot be deleted"}`,
		},
		{
			name: "счёт не найден",
			id:   missingID,
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, missingID).Return(0, models.ErrInvoiceNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"invoice not found"}`,
		},
		{
			name: "ошибка сервиса",
			id:   validID,
			setupMock: func(m *MockService) {
				m.On("Remove", mock.Anything, validID).Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to delete invoice"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodDelete, "/invoices/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
