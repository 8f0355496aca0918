package trips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a trips repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRoute(ctx context.Context, route *models.Route) (*models.Route, error) {
	if err := r.db.WithContext(ctx).Create(route).Error; err != nil {
		return nil, err
	}
	return route, nil
}

func (r *repository) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := r.db.WithContext(ctx).
		Order("origin ASC, destination ASC").
		Find(&routes).Error
	if err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *repository) CountRoutes(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Route{}).Count(&count).Error
	return count, err
}

func (r *repository) FindRoute(ctx context.Context, routeID uuid.UUID) (*models.Route, error) {
	var route models.Route
	err := r.db.WithContext(ctx).
		Where("id = ?", routeID).
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *repository) CreateTrip(ctx context.Context, trip *models.Trip) (*models.Trip, error) {
	if err := r.db.WithContext(ctx).Create(trip).Error; err != nil {
		return nil, err
	}
	return trip, nil
}

func (r *repository) FindTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).
		Preload("Route").
		Where("id = ?", tripID).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) SearchTrips(ctx context.Context, filters SearchFilters) ([]models.Trip, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Select("trips.*").
		Joins("JOIN routes ON routes.id = trips.route_id").
		Preload("Route")

	if filters.Origin != "" {
		q = q.Where("routes.origin = ?", filters.Origin)
	}
	if filters.Destination != "" {
		q = q.Where("routes.destination = ?", filters.Destination)
	}
	if filters.Date != nil {
		dayStart := filters.Date.UTC().Truncate(24 * time.Hour)
		q = q.Where("trips.departure_time >= ? AND trips.departure_time < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	var trips []models.Trip
	if err := q.Order("trips.departure_time ASC").Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}
