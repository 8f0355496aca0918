package trips

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the trips service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("trips repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateRoute(ctx context.Context, input CreateRouteInput) (*models.Route, error) {
	origin := strings.TrimSpace(input.Origin)
	destination := strings.TrimSpace(input.Destination)
	if origin == "" || destination == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination required")
	}
	if origin == destination {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin and destination must differ")
	}

	route, err := s.repo.CreateRoute(ctx, &models.Route{
		ID:          uuid.New(),
		Origin:      origin,
		Destination: destination,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create route")
	}
	return route, nil
}

func (s *service) ListRoutes(ctx context.Context) ([]models.Route, error) {
	routes, err := s.repo.ListRoutes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list routes")
	}
	return routes, nil
}

func (s *service) CreateTrip(ctx context.Context, input CreateTripInput) (*models.Trip, error) {
	if input.RouteID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "route id required")
	}
	if input.SeatsTotal < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seats_total must be at least 1")
	}
	if input.DepartureTime.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "departure_time required")
	}

	if _, err := s.repo.FindRoute(ctx, input.RouteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "route not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load route")
	}

	trip, err := s.repo.CreateTrip(ctx, &models.Trip{
		ID:            uuid.New(),
		RouteID:       input.RouteID,
		DepartureTime: input.DepartureTime.UTC(),
		SeatsTotal:    input.SeatsTotal,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trip")
	}
	return trip, nil
}

func (s *service) GetTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	if tripID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip id required")
	}
	trip, err := s.repo.FindTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}
	return trip, nil
}

func (s *service) Search(ctx context.Context, filters SearchFilters) ([]TripSummary, error) {
	filters.Origin = strings.TrimSpace(filters.Origin)
	filters.Destination = strings.TrimSpace(filters.Destination)

	found, err := s.repo.SearchTrips(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search trips")
	}

	summaries := make([]TripSummary, 0, len(found))
	for _, trip := range found {
		summary := TripSummary{
			ID:             trip.ID,
			DepartureTime:  trip.DepartureTime,
			SeatsTotal:     trip.SeatsTotal,
			SeatsAvailable: trip.SeatsAvailable(),
		}
		if trip.Route != nil {
			summary.Origin = trip.Route.Origin
			summary.Destination = trip.Route.Destination
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
