package models

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationTask is written when a compensating release exhausts its
// retries and the held allocation needs out-of-band repair. Rows are the
// operator-facing queue; nothing in the request path deletes them.
type ReconciliationTask struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TripID        uuid.UUID  `gorm:"column:trip_id;type:uuid;not null"`
	AllocationID  uuid.UUID  `gorm:"column:allocation_id;type:uuid;not null;uniqueIndex"`
	ReservationID *uuid.UUID `gorm:"column:reservation_id;type:uuid"`
	Seats         int        `gorm:"column:seats;not null"`
	Reason        string     `gorm:"column:reason;not null"`
	Attempts      int        `gorm:"column:attempts;not null"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
