package reservations

import (
	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/pkg/db/models"
)

// CreateInput captures a new PENDING reservation. BookedBy is nil for
// anonymous bookings.
type CreateInput struct {
	TripID        uuid.UUID
	PassengerName string
	Seats         int
	AllocationID  uuid.UUID
	BookedBy      *string
}

// ListFilters narrow the reservation list.
type ListFilters struct {
	BookedBy *string
}

// ReservationList wraps a page of reservations plus the next page cursor.
type ReservationList struct {
	Reservations []models.Reservation `json:"reservations"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}
