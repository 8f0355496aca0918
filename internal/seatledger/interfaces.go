package seatledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
)

// Repository defines persistence operations for the trip seat counters and
// allocation records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error)
	FindAllocation(ctx context.Context, allocationID uuid.UUID) (*models.SeatAllocation, error)
	CreateAllocation(ctx context.Context, alloc *models.SeatAllocation) error
	ReleaseAllocation(ctx context.Context, allocationID uuid.UUID) (bool, error)
	ClaimSeats(ctx context.Context, tripID uuid.UUID, seats int) (bool, error)
	ReturnSeats(ctx context.Context, tripID uuid.UUID, seats int) error
}

// Service is the seat ledger: the single writer for per-trip seat counters.
type Service interface {
	Allocate(ctx context.Context, input AllocateInput) (*Grant, error)
	Release(ctx context.Context, input ReleaseInput) (*ReleaseResult, error)
	Availability(ctx context.Context, tripID uuid.UUID) (*Availability, error)
}
