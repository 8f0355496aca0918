package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip carries the per-trip seat counters owned by the seat ledger.
// SeatsAllocated is mutated only inside the ledger's critical section;
// 0 <= SeatsAllocated <= SeatsTotal holds at all times.
type Trip struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RouteID        uuid.UUID `gorm:"column:route_id;type:uuid;not null;index"`
	DepartureTime  time.Time `gorm:"column:departure_time;not null;index"`
	SeatsTotal     int       `gorm:"column:seats_total;not null"`
	SeatsAllocated int       `gorm:"column:seats_allocated;not null;default:0"`
	Route          *Route    `gorm:"foreignKey:RouteID"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SeatsAvailable is derived, never stored.
func (t Trip) SeatsAvailable() int {
	return t.SeatsTotal - t.SeatsAllocated
}
