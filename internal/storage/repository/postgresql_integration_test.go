package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/hosting-portal/internal/models"
)

func TestStorage_FinalizeInvoice(t *testing.T) {
	invoiceID := uuid.New().String()

	tests := []struct {
		name      string
		invoiceID string
		wantRows  int
		setup     func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:      "successful finalize of pending invoice",
			invoiceID: invoiceID,
			wantRows:  1,
			setup: func(t *testing.T, factory *TestDataFactory) {
				userUID := GetTestUserUID()
				serviceID := uuid.New().String()
				factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
				factory.CreateService(t, serviceID, userUID, "basic", 15000,
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
				factory.CreateInvoice(t, invoiceID, userUID, &serviceID,
					"INV-00000001", 15000, models.InvoiceStatusPending, false)
			},
		},
		{
			name:      "finalize of already finalized invoice affects nothing",
			invoiceID: invoiceID,
			wantRows:  0,
			setup: func(t *testing.T, factory *TestDataFactory) {
				userUID := GetTestUserUID()
				serviceID := uuid.New().String()
				factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
				factory.CreateService(t, serviceID, userUID, "basic", 15000,
					time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
				factory.CreateInvoice(t, invoiceID, userUID, &serviceID,
					"INV-00000001", 15000, models.InvoiceStatusPaid, true)
			},
		},
		{
			name:      "finalize of non-existing invoice affects nothing",
			invoiceID: uuid.New().String(),
			wantRows:  0,
			setup:     func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			rows, err := storage.FinalizeInvoice(context.Background(), tt.invoiceID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, rows)

			if tt.wantRows == 1 {
				got, err := storage.ReadInvoice(context.Background(), tt.invoiceID)
				require.NoError(t, err)
				assert.Equal(t, models.InvoiceStatusPaid, got.Status)
				assert.True(t, got.IsFinal)
			}
		})
	}
}

func TestStorage_FinalizeInvoice_Concurrent(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	serviceID := uuid.New().String()
	invoiceID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
	factory.CreateService(t, serviceID, userUID, "basic", 15000,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	factory.CreateInvoice(t, invoiceID, userUID, &serviceID,
		"INV-00000001", 15000, models.InvoiceStatusPending, false)

	const workers = 10
	results := make(chan int, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := storage.FinalizeInvoice(context.Background(), invoiceID)
			assert.NoError(t, err)
			results <- rows
		}()
	}
	wg.Wait()
	close(results)

	var winners int
	for rows := range results {
		winners += rows
	}
	// Ровно один из конкурирующих запросов должен изменить строку.
	assert.Equal(t, 1, winners)
}

func TestStorage_UpdateInvoice(t *testing.T) {
	invoiceID := uuid.New().String()
	dueDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		isFinal  bool
		status   string
		wantRows int
	}{
		{
			name:     "update of pending invoice succeeds",
			isFinal:  false,
			status:   models.InvoiceStatusPending,
			wantRows: 1,
		},
		{
			name:     "update of finalized invoice affects nothing",
			isFinal:  true,
			status:   models.InvoiceStatusPaid,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userUID := GetTestUserUID()
			serviceID := uuid.New().String()
			factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
			factory.CreateService(t, serviceID, userUID, "basic", 15000,
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
			factory.CreateInvoice(t, invoiceID, userUID, &serviceID,
				"INV-00000001", 15000, tt.status, tt.isFinal)

			rows, err := storage.UpdateInvoice(context.Background(), models.Invoice{
				Amount:  19900,
				DueDate: &dueDate,
			}, invoiceID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, rows)

			got, err := storage.ReadInvoice(context.Background(), invoiceID)
			require.NoError(t, err)
			if tt.wantRows == 1 {
				assert.Equal(t, 19900, got.Amount)
				require.NotNil(t, got.DueDate)
			} else {
				assert.Equal(t, 15000, got.Amount)
			}
		})
	}
}

func TestStorage_RemoveInvoice(t *testing.T) {
	invoiceID := uuid.New().String()

	tests := []struct {
		name     string
		isFinal  bool
		status   string
		wantRows int
	}{
		{
			name:     "remove of pending invoice succeeds",
			isFinal:  false,
			status:   models.InvoiceStatusPending,
			wantRows: 1,
		},
		{
			name:     "remove of finalized invoice affects nothing",
			isFinal:  true,
			status:   models.InvoiceStatusPaid,
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			userUID := GetTestUserUID()
			serviceID := uuid.New().String()
			factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
			factory.CreateService(t, serviceID, userUID, "basic", 15000,
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
			factory.CreateInvoice(t, invoiceID, userUID, &serviceID,
				"INV-00000001", 15000, tt.status, tt.isFinal)

			rows, err := storage.RemoveInvoice(context.Background(), invoiceID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, rows)

			_, err = storage.ReadInvoice(context.Background(), invoiceID)
			if tt.wantRows == 1 {
				assert.ErrorIs(t, err, models.ErrInvoiceNotFound)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStorage_SetInvoiceStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	serviceID := uuid.New().String()
	pendingID := uuid.New().String()
	finalID := uuid.New().String()
	factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
	factory.CreateService(t, serviceID, userUID, "basic", 15000,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	factory.CreateInvoice(t, pendingID, userUID, &serviceID,
		"INV-00000001", 15000, models.InvoiceStatusPending, false)
	factory.CreateInvoice(t, finalID, userUID, &serviceID,
		"INV-00000002", 15000, models.InvoiceStatusPaid, true)

	rows, err := storage.SetInvoiceStatus(context.Background(), pendingID, models.InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	got, err := storage.ReadInvoice(context.Background(), pendingID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusOverdue, got.Status)

	rows, err = storage.SetInvoiceStatus(context.Background(), finalID, models.InvoiceStatusOverdue)
	require.NoError(t, err)
	assert.Equal(t, 0, rows)
}

func TestStorage_NextInvoiceSeq(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	const workers = 20
	seen := make(chan int64, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := storage.NextInvoiceSeq(context.Background())
			assert.NoError(t, err)
			seen <- seq
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]struct{}, workers)
	for seq := range seen {
		assert.Positive(t, seq)
		unique[seq] = struct{}{}
	}
	assert.Len(t, unique, workers)
}

func TestStorage_ListInvoices(t *testing.T) {
	type args struct {
		ctx     context.Context
		userUID string
		limit   int
		offset  int
	}

	ownerUID := GetTestUserUID()
	otherUID := GetTestUserUID()

	tests := []struct {
		name      string
		args      args
		wantCount int
		setup     func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name: "invoices are scoped to user and ordered by number",
			args: args{
				ctx:     context.Background(),
				userUID: ownerUID,
				limit:   10,
				offset:  0,
			},
			wantCount: 3,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, ownerUID, "owner@example.com", "Owner", "user")
				factory.CreateUser(t, otherUID, "other@example.com", "Other", "user")
				startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				renewalDate := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

				ownerService := uuid.New().String()
				otherService := uuid.New().String()
				factory.CreateService(t, ownerService, ownerUID, "basic", 15000, startDate, renewalDate)
				factory.CreateService(t, otherService, otherUID, "basic", 15000, startDate, renewalDate)

				for i, number := range []string{"INV-00000003", "INV-00000001", "INV-00000002"} {
					factory.CreateInvoice(t, uuid.New().String(), ownerUID, &ownerService,
						number, 15000+i, models.InvoiceStatusPending, false)
				}
				factory.CreateInvoice(t, uuid.New().String(), otherUID, &otherService,
					"INV-00000004", 15000, models.InvoiceStatusPending, false)
			},
		},
		{
			name: "list invoices for user without invoices",
			args: args{
				ctx:     context.Background(),
				userUID: uuid.New().String(),
				limit:   10,
				offset:  0,
			},
			wantCount: 0,
			setup:     func(_ *testing.T, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, err := storage.ListInvoices(tt.args.ctx, tt.args.userUID, tt.args.limit, tt.args.offset)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)

			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, got[i-1].InvoiceNumber, got[i].InvoiceNumber)
			}
			for _, inv := range got {
				assert.Equal(t, tt.args.userUID, inv.UserUID)
			}
		})
	}
}

func TestStorage_ListAllInvoices(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	renewalDate := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		userUID := GetTestUserUID()
		serviceID := uuid.New().String()
		factory.CreateUser(t, userUID, fmt.Sprintf("user%d@example.com", i), "User", "user")
		factory.CreateService(t, serviceID, userUID, "basic", 15000, startDate, renewalDate)
		factory.CreateInvoice(t, uuid.New().String(), userUID, &serviceID,
			fmt.Sprintf("INV-%08d", i+1), 15000, models.InvoiceStatusPending, false)
	}

	got, err := storage.ListAllInvoices(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].InvoiceNumber, got[i].InvoiceNumber)
	}
}

func TestStorage_CountOpenInvoicesForService(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	serviceID := uuid.New().String()
	emptyServiceID := uuid.New().String()
	startDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	renewalDate := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	factory.CreateUser(t, userUID, "test@example.com", "Test User", "user")
	factory.CreateService(t, serviceID, userUID, "basic", 15000, startDate, renewalDate)
	factory.CreateService(t, emptyServiceID, userUID, "pro", 29900, startDate, renewalDate)

	factory.CreateInvoice(t, uuid.New().String(), userUID, &serviceID,
		"INV-00000001", 15000, models.InvoiceStatusPending, false)
	factory.CreateInvoice(t, uuid.New().String(), userUID, &serviceID,
		"INV-00000002", 15000, models.InvoiceStatusOverdue, false)
	// Финализированный счёт не считается открытым.
	factory.CreateInvoice(t, uuid.New().String(), userUID, &serviceID,
		"INV-00000003", 15000, models.InvoiceStatusPaid, true)

	count, err := storage.CountOpenInvoicesForService(context.Background(), serviceID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = storage.CountOpenInvoicesForService(context.Background(), emptyServiceID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_GetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := GetTestUserUID()
	factory.CreateUser(t, userUID, "test@example.com", "Test User", "admin")

	got, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", got.Email)
	assert.Equal(t, "admin", got.Role)

	_, err = storage.GetUser(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
