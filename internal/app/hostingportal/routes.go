package hostingportal

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/domain/domaincreate"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/domain/domainlifecycle"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/domain/domainlist"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/domain/domainread"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/domain/domainremove"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/domain/domainupdate"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/health"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoicecreate"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoicedocument"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoicefinalize"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoicelist"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoicepay"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoiceread"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoiceremove"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/invoice/invoiceupdate"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/service/servicecreate"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/service/servicelifecycle"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/service/servicelist"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/service/serviceread"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/service/serviceremove"
	"github.com/magabrotheeeer/hosting-portal/internal/http/handlers/service/serviceupdate"
	"github.com/magabrotheeeer/hosting-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hosting-portal/internal/lib/jwt"
	hostingservice "github.com/magabrotheeeer/hosting-portal/internal/services/hosting"
	invoiceservice "github.com/magabrotheeeer/hosting-portal/internal/services/invoice"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	hostingService *hostingservice.HostingService,
	invoiceService *invoiceservice.InvoiceService,
	jwtMaker jwt.Maker) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/services", servicecreate.New(logger, hostingService).ServeHTTP)
			r.Get("/services", servicelist.New(logger, hostingService).ServeHTTP)
			r.Get("/services/{id}", serviceread.New(logger, hostingService).ServeHTTP)
			r.Put("/services/{id}", serviceupdate.New(logger, hostingService).ServeHTTP)
			r.Delete("/services/{id}", serviceremove.New(logger, hostingService).ServeHTTP)
			r.Get("/services/{id}/lifecycle", servicelifecycle.New(logger, hostingService).ServeHTTP)

			r.Post("/domains", domaincreate.New(logger, hostingService).ServeHTTP)
			r.Get("/domains", domainlist.New(logger, hostingService).ServeHTTP)
			r.Get("/domains/{id}", domainread.New(logger, hostingService).ServeHTTP)
			r.Put("/domains/{id}", domainupdate.New(logger, hostingService).ServeHTTP)
			r.Delete("/domains/{id}", domainremove.New(logger, hostingService).ServeHTTP)
			r.Get("/domains/{id}/lifecycle", domainlifecycle.New(logger, hostingService).ServeHTTP)

			r.Post("/invoices", invoicecreate.New(logger, invoiceService).ServeHTTP)
			r.Get("/invoices", invoicelist.New(logger, invoiceService).ServeHTTP)
			r.Get("/invoices/{id}", invoiceread.New(logger, invoiceService).ServeHTTP)
			r.Patch("/invoices/{id}", invoiceupdate.New(logger, invoiceService).ServeHTTP)
			r.Delete("/invoices/{id}", invoiceremove.New(logger, invoiceService).ServeHTTP)
			r.Post("/invoices/{id}/pay", invoicepay.New(logger, invoiceService).ServeHTTP)
			r.Post("/invoices/{id}/finalize", invoicefinalize.New(logger, invoiceService).ServeHTTP)
			r.Post("/invoices/{id}/document", invoicedocument.New(logger, invoiceService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
