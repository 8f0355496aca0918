package trips

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
)

// Repository defines persistence operations for routes and trips.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateRoute(ctx context.Context, route *models.Route) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	CountRoutes(ctx context.Context) (int64, error)
	FindRoute(ctx context.Context, routeID uuid.UUID) (*models.Route, error)
	CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error)
	FindTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	SearchTrips(ctx context.Context, filters SearchFilters) ([]models.Trip, error)
}

// Service exposes route/trip management and search.
type Service interface {
	CreateRoute(ctx context.Context, input CreateRouteInput) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	CreateTrip(ctx context.Context, input CreateTripInput) (*models.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	Search(ctx context.Context, filters SearchFilters) ([]TripSummary, error)
	SeedDev(ctx context.Context) error
}
