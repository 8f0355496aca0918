package seatledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/enums"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.AllocationMetrics
}

// NewService builds the seat ledger. The metrics argument may be nil.
func NewService(repo Repository, tx txRunner, m *metrics.AllocationMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("seat ledger repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, metrics: m}, nil
}

// Allocate holds seats against a trip. All counter movement happens in one
// transaction keyed by the caller-supplied allocation id, so a replayed
// request returns the original grant instead of taking seats twice.
func (s *service) Allocate(ctx context.Context, input AllocateInput) (*Grant, error) {
	if input.AllocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation id required")
	}
	if input.TripID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip id required")
	}
	if input.Seats < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seats must be at least 1")
	}

	var grant *Grant
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		trip, err := repo.FindTrip(ctx, input.TripID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
		}

		createErr := repo.CreateAllocation(ctx, &models.SeatAllocation{
			ID:     input.AllocationID,
			TripID: input.TripID,
			Seats:  input.Seats,
			State:  enums.AllocationStateHeld,
		})
		if createErr != nil {
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "record allocation")
			}
			replay, err := s.replayOutcome(ctx, repo, input, trip)
			if err != nil {
				return err
			}
			grant = replay
			return nil
		}

		claimed, err := repo.ClaimSeats(ctx, input.TripID, input.Seats)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim seats")
		}
		if !claimed {
			s.metrics.IncDenied("insufficient_seats")
			return pkgerrors.New(pkgerrors.CodeCapacity, "not enough seats available").
				WithDetails(map[string]any{
					"requested": input.Seats,
					"available": trip.SeatsAvailable(),
				})
		}

		// re-read after the claim so the reported remainder reflects
		// counters moved by competing transactions, not the pre-claim row
		after, err := repo.FindTrip(ctx, input.TripID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload trip")
		}

		grant = &Grant{
			AllocationID:   input.AllocationID,
			TripID:         input.TripID,
			Seats:          input.Seats,
			SeatsRemaining: after.SeatsAvailable(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	source := "fresh"
	if grant.Replayed {
		source = "replay"
	}
	s.metrics.IncGranted(source)
	return grant, nil
}

// replayOutcome resolves an allocate whose id the ledger has already seen.
// A held record answers with the original grant; a released record means the
// booking was already compensated and must not silently re-hold seats.
func (s *service) replayOutcome(ctx context.Context, repo Repository, input AllocateInput, trip *models.Trip) (*Grant, error) {
	existing, err := repo.FindAllocation(ctx, input.AllocationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing allocation")
	}

	if existing.TripID != input.TripID || existing.Seats != input.Seats {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "allocation id reused with different trip or seat count")
	}
	if existing.State == enums.AllocationStateReleased {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "allocation was already released")
	}

	return &Grant{
		AllocationID:   existing.ID,
		TripID:         existing.TripID,
		Seats:          existing.Seats,
		SeatsRemaining: trip.SeatsAvailable(),
		Replayed:       true,
	}, nil
}

// Release returns a held allocation's seats. Unknown and already-released
// ids are a no-op success so compensation retries stay harmless.
func (s *service) Release(ctx context.Context, input ReleaseInput) (*ReleaseResult, error) {
	if input.AllocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation id required")
	}

	result := &ReleaseResult{AllocationID: input.AllocationID}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		alloc, err := repo.FindAllocation(ctx, input.AllocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load allocation")
		}

		// The guarded flip decides which release returns the seats; a
		// concurrent or earlier release makes this one a no-op.
		released, err := repo.ReleaseAllocation(ctx, alloc.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark allocation released")
		}
		if !released {
			return nil
		}

		if err := repo.ReturnSeats(ctx, alloc.TripID, alloc.Seats); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return seats")
		}

		result.Released = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Released {
		s.metrics.IncReleased()
	}
	return result, nil
}

func (s *service) Availability(ctx context.Context, tripID uuid.UUID) (*Availability, error) {
	if tripID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip id required")
	}

	trip, err := s.repo.FindTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "trip not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trip")
	}

	return &Availability{
		TripID:         trip.ID,
		SeatsTotal:     trip.SeatsTotal,
		SeatsAllocated: trip.SeatsAllocated,
		SeatsAvailable: trip.SeatsAvailable(),
	}, nil
}
