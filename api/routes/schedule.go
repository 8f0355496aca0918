package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/busline-io/busline-backend/api/controllers"
	"github.com/busline-io/busline-backend/api/middleware"
	allocsvc "github.com/busline-io/busline-backend/internal/allocation"
	tripsvc "github.com/busline-io/busline-backend/internal/trips"
	"github.com/busline-io/busline-backend/pkg/config"
	"github.com/busline-io/busline-backend/pkg/db"
	"github.com/busline-io/busline-backend/pkg/enums"
	"github.com/busline-io/busline-backend/pkg/logger"
)

// NewScheduleRouter wires the schedule authority: routes, trips, and the seat
// ledger endpoints the reservation service calls.
func NewScheduleRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	registry *prometheus.Registry,
	tripService tripsvc.Service,
	allocationService allocsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "database", Check: dbP.Ping},
		))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))

		r.Route("/routes", func(r chi.Router) {
			r.Get("/", controllers.RouteList(tripService, logg))
			r.With(middleware.RequireRole(enums.UserRoleAdmin, logg)).
				Post("/", controllers.RouteCreate(tripService, logg))
		})

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", controllers.TripSearch(tripService, logg))
			r.With(middleware.RequireRole(enums.UserRoleAdmin, logg)).
				Post("/", controllers.TripCreate(tripService, logg))

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", controllers.TripGet(tripService, logg))
				r.Get("/availability", controllers.SeatAvailability(allocationService, logg))
				r.Post("/allocate", controllers.SeatAllocate(allocationService, logg))
				r.Post("/release", controllers.SeatRelease(allocationService, logg))
			})
		})
	})

	return r
}
