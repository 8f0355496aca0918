package trips

import (
	"time"

	"github.com/google/uuid"
)

// CreateRouteInput carries the fields for a new route.
type CreateRouteInput struct {
	Origin      string `json:"origin" validate:"required,min=1,max=120"`
	Destination string `json:"destination" validate:"required,min=1,max=120"`
}

// CreateTripInput carries the fields for a new trip on an existing route.
type CreateTripInput struct {
	RouteID       uuid.UUID `json:"route_id" validate:"required"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	SeatsTotal    int       `json:"seats_total" validate:"required,min=1"`
}

// SearchFilters describe the trip search inputs. Date matches the calendar
// day of departure; zero values mean "any".
type SearchFilters struct {
	Origin      string
	Destination string
	Date        *time.Time
}

// TripSummary is the search result row, route flattened in.
type TripSummary struct {
	ID             uuid.UUID `json:"id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departure_time"`
	SeatsTotal     int       `json:"seats_total"`
	SeatsAvailable int       `json:"seats_available"`
}
