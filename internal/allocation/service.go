// Package allocation is the request-facing front of the seat ledger. It owns
// request-shape policy (seat bounds) and leaves counter movement to the ledger.
package allocation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/internal/seatledger"
	"github.com/busline-io/busline-backend/pkg/config"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
)

// Ledger is the slice of the seat ledger the coordinator needs.
type Ledger interface {
	Allocate(ctx context.Context, input seatledger.AllocateInput) (*seatledger.Grant, error)
	Release(ctx context.Context, input seatledger.ReleaseInput) (*seatledger.ReleaseResult, error)
	Availability(ctx context.Context, tripID uuid.UUID) (*seatledger.Availability, error)
}

// Service validates allocation requests before they reach the ledger.
type Service interface {
	Allocate(ctx context.Context, input seatledger.AllocateInput) (*seatledger.Grant, error)
	Release(ctx context.Context, input seatledger.ReleaseInput) (*seatledger.ReleaseResult, error)
	Availability(ctx context.Context, tripID uuid.UUID) (*seatledger.Availability, error)
}

type service struct {
	ledger   Ledger
	maxSeats int
}

// NewService builds the allocation coordinator.
func NewService(ledger Ledger, cfg config.BookingConfig) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("seat ledger required")
	}
	if cfg.MaxSeatsPerRequest < 1 {
		return nil, fmt.Errorf("max seats per request must be positive")
	}
	return &service{ledger: ledger, maxSeats: cfg.MaxSeatsPerRequest}, nil
}

func (s *service) Allocate(ctx context.Context, input seatledger.AllocateInput) (*seatledger.Grant, error) {
	if input.Seats < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seats must be at least 1")
	}
	if input.Seats > s.maxSeats {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("seats must not exceed %d per request", s.maxSeats))
	}
	return s.ledger.Allocate(ctx, input)
}

func (s *service) Release(ctx context.Context, input seatledger.ReleaseInput) (*seatledger.ReleaseResult, error) {
	return s.ledger.Release(ctx, input)
}

func (s *service) Availability(ctx context.Context, tripID uuid.UUID) (*seatledger.Availability, error) {
	return s.ledger.Availability(ctx, tripID)
}
