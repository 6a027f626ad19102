// Package hostingportal собирает приложение портала хостинг-провайдера:
// хранилище, кеш, брокер сообщений, бизнес-сервисы и HTTP-сервер.
package hostingportal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/hosting-portal/internal/cache"
	"github.com/magabrotheeeer/hosting-portal/internal/config"
	"github.com/magabrotheeeer/hosting-portal/internal/docrenderer"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/invoicenum"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/jwt"
	librabbitmq "github.com/magabrotheeeer/hosting-portal/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/sl"
	"github.com/magabrotheeeer/hosting-portal/internal/migrations"
	"github.com/magabrotheeeer/hosting-portal/internal/models"
	"github.com/magabrotheeeer/hosting-portal/internal/rabbitmq"
	hostingservice "github.com/magabrotheeeer/hosting-portal/internal/services/hosting"
	invoiceservice "github.com/magabrotheeeer/hosting-portal/internal/services/invoice"
	"github.com/magabrotheeeer/hosting-portal/internal/storage/repository"
)

// App инкапсулирует все подсистемы портала.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	cache    *cache.Cache
	conn     *amqp.Connection
	channel  *amqp.Channel
	invoices *invoiceservice.InvoiceService
}

// overdueMessage — сообщение внешних часов сроков оплаты из очереди invoice.overdue.
type overdueMessage struct {
	InvoiceID string `json:"invoice_id"`
}

// New собирает приложение: подключает хранилище, применяет миграции,
// инициализирует кеш, брокер и бизнес-сервисы, регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.BillingQueues())
	if err != nil {
		return nil, err
	}
	publisher := librabbitmq.NewPublisher(ch)

	renderer := docrenderer.NewClient(cfg.RendererAPIURL, cfg.RendererToken, cfg.RendererTimeout)
	numbers := invoicenum.New(db)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	hostingService := hostingservice.NewHostingService(db, cacheRedis, logger)
	invoiceService := invoiceservice.NewInvoiceService(db, numbers, cacheRedis, publisher, renderer, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, hostingService, invoiceService, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		cache:    cacheRedis,
		conn:     conn,
		channel:  ch,
		invoices: invoiceService,
	}, nil
}

// Run запускает потребителя просрочки и HTTP-сервер, затем ждёт
// завершения контекста и останавливает сервер корректно.
func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumerMessage(ctx, a.channel, rabbitmq.OverdueQueue, a.handleOverdue(ctx)); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.channel.Close(); cerr != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(cerr))
		}
		a.db.DB.Close()
		return err
	}
}

// handleOverdue разбирает сообщение внешних часов сроков оплаты
// и переводит нефинализированный счёт в статус overdue. Финализированный
// счёт просрочке не подлежит: такое сообщение подтверждается без повторной
// доставки, чтобы не зациклить очередь.
func (a *App) handleOverdue(ctx context.Context) func([]byte) error {
	return func(body []byte) error {
		var msg overdueMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			a.logger.Error("failed to decode overdue message", sl.Err(err))
			return nil
		}
		if msg.InvoiceID == "" {
			a.logger.Error("overdue message without invoice id")
			return nil
		}

		err := a.invoices.MarkOverdue(ctx, msg.InvoiceID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, models.ErrInvoiceNotFound), errors.Is(err, models.ErrInvoiceImmutable):
			a.logger.Warn("overdue message skipped",
				slog.String("invoice_id", msg.InvoiceID), sl.Err(err))
			return nil
		default:
			a.logger.Error("failed to mark invoice overdue",
				slog.String("invoice_id", msg.InvoiceID), sl.Err(err))
			return fmt.Errorf("mark overdue %s: %w", msg.InvoiceID, err)
		}
	}
}
