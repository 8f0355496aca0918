package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/pkg/enums"
)

// SeatAllocation records a hold of N seats against a trip, keyed by the
// caller-supplied idempotency id. Retained after release so replayed
// allocate/release calls can be answered deterministically.
type SeatAllocation struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	TripID    uuid.UUID             `gorm:"column:trip_id;type:uuid;not null;index"`
	Seats     int                   `gorm:"column:seats;not null"`
	State     enums.AllocationState `gorm:"column:state;type:text;not null;default:'held'"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
