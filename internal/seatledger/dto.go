package seatledger

import (
	"github.com/google/uuid"
)

// AllocateInput asks the ledger to hold seats on a trip. AllocationID is the
// caller-supplied idempotency id; replaying the same id yields the original
// outcome instead of a second hold.
type AllocateInput struct {
	AllocationID uuid.UUID
	TripID       uuid.UUID
	Seats        int
}

// Grant confirms a hold. Replayed is true when the allocation already existed
// and no new seats were taken.
type Grant struct {
	AllocationID   uuid.UUID `json:"allocation_id"`
	TripID         uuid.UUID `json:"trip_id"`
	Seats          int       `json:"seats"`
	SeatsRemaining int       `json:"seats_remaining"`
	Replayed       bool      `json:"replayed"`
}

// ReleaseInput returns a held allocation's seats to the pool.
type ReleaseInput struct {
	AllocationID uuid.UUID
}

// ReleaseResult reports whether seats actually moved. Released is false when
// the allocation was unknown or already released; both are success for the
// caller, it just means there was nothing left to undo.
type ReleaseResult struct {
	AllocationID uuid.UUID `json:"allocation_id"`
	Released     bool      `json:"released"`
}

// Availability is a point-in-time snapshot of a trip's counters.
type Availability struct {
	TripID         uuid.UUID `json:"trip_id"`
	SeatsTotal     int       `json:"seats_total"`
	SeatsAllocated int       `json:"seats_allocated"`
	SeatsAvailable int       `json:"seats_available"`
}
