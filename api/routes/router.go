package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stockroomhq/stockroom-backend/api/controllers"
	"github.com/stockroomhq/stockroom-backend/api/middleware"
	"github.com/stockroomhq/stockroom-backend/internal/backups"
	"github.com/stockroomhq/stockroom-backend/internal/inventory"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/logger"
	"github.com/stockroomhq/stockroom-backend/pkg/metrics"
)

// NewRouter wires middleware and routes for the HTTP API.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	reg *prometheus.Registry,
	httpM *metrics.HTTPMetrics,
	svc inventory.Service,
	backupSvc *backups.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.Metrics(httpM))
	r.Use(middleware.CORS())

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, dbP))

	if reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	exportLoc := cfg.Export.Location()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Post("/", controllers.ItemCreate(svc, logg))
			r.Get("/", controllers.ItemList(svc, logg))
			r.Get("/sku/{sku}", controllers.ItemGetBySKU(svc, logg))

			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", controllers.ItemGet(svc, logg))
				r.Patch("/", controllers.ItemUpdate(svc, logg))
				r.Delete("/", controllers.ItemDelete(svc, logg))
				r.Post("/deactivate", controllers.ItemDeactivate(svc, logg))
				r.Post("/receive", controllers.StockReceive(svc, logg))
				r.Post("/issue", controllers.StockIssue(svc, logg))
				r.Post("/recalculate", controllers.StockRecalculate(svc, logg))
				r.Get("/transactions", controllers.StockTransactions(svc, logg))
			})
		})

		r.Get("/exports/items.csv", controllers.ItemsCSV(svc, logg, exportLoc))
		r.Get("/exports/items.xlsx", controllers.ItemsXLSX(svc, logg, exportLoc))

		r.Post("/backups", controllers.BackupCreate(backupSvc, logg))
	})

	return r
}
