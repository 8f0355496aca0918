package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/pkg/enums"
)

// Reservation is the reservation authority's booking record. AllocationID
// references the seat allocation held on the schedule authority; a BOOKED
// record always corresponds to a held allocation, a CANCELLED record to a
// released one.
type Reservation struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TripID        uuid.UUID               `gorm:"column:trip_id;type:uuid;not null;index"`
	PassengerName string                  `gorm:"column:passenger_name;not null"`
	SeatsBooked   int                     `gorm:"column:seats_booked;not null"`
	Status        enums.ReservationStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	BookedBy      *string                 `gorm:"column:booked_by;index"`
	AllocationID  uuid.UUID               `gorm:"column:allocation_id;type:uuid;not null;uniqueIndex"`
	FailureReason *string                 `gorm:"column:failure_reason"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
