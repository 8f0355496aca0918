package models

import (
	"time"

	"github.com/google/uuid"
)

// Route is an origin/destination pair served by the schedule authority.
type Route struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Origin      string    `gorm:"column:origin;not null;index"`
	Destination string    `gorm:"column:destination;not null;index"`
	Trips       []Trip    `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
