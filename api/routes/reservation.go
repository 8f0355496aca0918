package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/busline-io/busline-backend/api/controllers"
	"github.com/busline-io/busline-backend/api/middleware"
	bookingsvc "github.com/busline-io/busline-backend/internal/booking"
	"github.com/busline-io/busline-backend/internal/reconciliation"
	reservationsvc "github.com/busline-io/busline-backend/internal/reservations"
	"github.com/busline-io/busline-backend/internal/scheduleclient"
	"github.com/busline-io/busline-backend/pkg/config"
	"github.com/busline-io/busline-backend/pkg/db"
	"github.com/busline-io/busline-backend/pkg/enums"
	"github.com/busline-io/busline-backend/pkg/logger"
	pkgredis "github.com/busline-io/busline-backend/pkg/redis"
)

// NewReservationRouter wires the reservation authority: the booking saga,
// reservation reads, and the operator reconciliation queue.
func NewReservationRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *prometheus.Registry,
	schedule scheduleclient.ScheduleAPI,
	bookingService bookingsvc.Service,
	reservationService reservationsvc.Service,
	reconciliationStore reconciliation.Store,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// identity first so the idempotency key is scoped per caller; the guard
	// sits before routing so it sees the raw request path
	r.Use(middleware.Identity(cfg.JWT, logg))
	if redisClient != nil {
		r.Use(middleware.Idempotency(redisClient, cfg.Booking.IdempotencyTTL, logg))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		checks := []controllers.ReadinessCheck{
			{Name: "database", Check: dbP.Ping},
			{Name: "schedule_api", Check: schedule.Ping},
		}
		if redisClient != nil {
			checks = append(checks, controllers.ReadinessCheck{Name: "redis", Check: redisClient.Ping})
		}
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/reservations", func(r chi.Router) {
			// anonymous booking is allowed; ownership gates the reads
			r.Post("/", controllers.ReservationCreate(bookingService, logg))
			r.With(middleware.RequireIdentity(logg)).
				Get("/", controllers.ReservationList(reservationService, logg))

			r.Route("/{reservationID}", func(r chi.Router) {
				r.With(middleware.RequireIdentity(logg)).
					Get("/", controllers.ReservationGet(reservationService, logg))
				r.With(middleware.RequireIdentity(logg)).
					Post("/cancel", controllers.ReservationCancel(bookingService, logg))
			})
		})

		r.Route("/reconciliations", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
			r.Get("/", controllers.ReconciliationList(reconciliationStore, logg))
			r.Post("/{taskID}/resolve", controllers.ReconciliationResolve(reconciliationStore, logg))
		})
	})

	return r
}
