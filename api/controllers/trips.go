package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/api/responses"
	"github.com/busline-io/busline-backend/api/validators"
	tripsvc "github.com/busline-io/busline-backend/internal/trips"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/logger"
)

// RouteCreate handles admin creation of a route.
func RouteCreate(svc tripsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload tripsvc.CreateRouteInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		route, err := svc.CreateRoute(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newRouteResponse(route))
	}
}

// RouteList returns all routes.
func RouteList(svc tripsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes, err := svc.ListRoutes(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]routeResponse, 0, len(routes))
		for i := range routes {
			out = append(out, newRouteResponse(&routes[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// TripCreate handles admin creation of a trip on an existing route.
func TripCreate(svc tripsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload tripsvc.CreateTripInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.CreateTrip(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newTripResponse(trip))
	}
}

// TripGet returns one trip with its route and live seat counters.
func TripGet(svc tripsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID, err := validators.ParsePathUUID(r, "tripID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trip, err := svc.GetTrip(r.Context(), tripID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newTripResponse(trip))
	}
}

// TripSearch filters trips by origin, destination and departure day.
func TripSearch(svc tripsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := tripsvc.SearchFilters{
			Origin:      r.URL.Query().Get("origin"),
			Destination: r.URL.Query().Get("destination"),
			Date:        date,
		}

		results, err := svc.Search(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, results)
	}
}

type routeResponse struct {
	ID          uuid.UUID `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"created_at"`
}

func newRouteResponse(route *models.Route) routeResponse {
	return routeResponse{
		ID:          route.ID,
		Origin:      route.Origin,
		Destination: route.Destination,
		CreatedAt:   route.CreatedAt,
	}
}

type tripResponse struct {
	ID             uuid.UUID      `json:"id"`
	RouteID        uuid.UUID      `json:"route_id"`
	Route          *routeResponse `json:"route,omitempty"`
	DepartureTime  time.Time      `json:"departure_time"`
	SeatsTotal     int            `json:"seats_total"`
	SeatsAllocated int            `json:"seats_allocated"`
	SeatsAvailable int            `json:"seats_available"`
	CreatedAt      time.Time      `json:"created_at"`
}

func newTripResponse(trip *models.Trip) tripResponse {
	out := tripResponse{
		ID:             trip.ID,
		RouteID:        trip.RouteID,
		DepartureTime:  trip.DepartureTime,
		SeatsTotal:     trip.SeatsTotal,
		SeatsAllocated: trip.SeatsAllocated,
		SeatsAvailable: trip.SeatsAvailable(),
		CreatedAt:      trip.CreatedAt,
	}
	if trip.Route != nil {
		route := newRouteResponse(trip.Route)
		out.Route = &route
	}
	return out
}
