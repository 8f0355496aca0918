package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/auth"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/enums"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/pagination"
)

type service struct {
	repo Repository
}

// NewService builds the reservation ledger.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reservations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreatePending(ctx context.Context, input CreateInput) (*models.Reservation, error) {
	if input.TripID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip id required")
	}
	if strings.TrimSpace(input.PassengerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passenger name required")
	}
	if input.Seats < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seats must be at least 1")
	}
	if input.AllocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation id required")
	}

	record, err := s.repo.Create(ctx, &models.Reservation{
		ID:            uuid.New(),
		TripID:        input.TripID,
		PassengerName: strings.TrimSpace(input.PassengerName),
		SeatsBooked:   input.Seats,
		Status:        enums.ReservationStatusPending,
		BookedBy:      input.BookedBy,
		AllocationID:  input.AllocationID,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "a reservation already exists for this allocation")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create reservation")
	}
	return record, nil
}

func (s *service) MarkBooked(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return s.transition(ctx, id, enums.ReservationStatusBooked, nil)
}

func (s *service) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*models.Reservation, error) {
	return s.transition(ctx, id, enums.ReservationStatusFailed, &reason)
}

func (s *service) MarkCancelled(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	return s.transition(ctx, id, enums.ReservationStatusCancelled, nil)
}

// transition applies a guarded status change. Allowed source states come from
// the enum's transition table, so the guard can never drift from it.
func (s *service) transition(ctx context.Context, id uuid.UUID, to enums.ReservationStatus, failureReason *string) (*models.Reservation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	var from []enums.ReservationStatus
	for _, status := range []enums.ReservationStatus{
		enums.ReservationStatusPending,
		enums.ReservationStatusBooked,
	} {
		if status.CanTransitionTo(to) {
			from = append(from, status)
		}
	}

	ok, err := s.repo.TransitionStatus(ctx, id, from, to, failureReason)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reservation status")
	}
	if !ok {
		record, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move reservation from %s to %s", record.Status, to))
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return record, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Reservation, error) {
	if actor.Anonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation id required")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}

	if !actor.IsAdmin() {
		owner := actor.UserID.String()
		if record.BookedBy == nil || *record.BookedBy != owner {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reservation does not belong to caller")
		}
	}
	return record, nil
}

// GetByAllocation resolves the orchestrator's internal lookup by allocation
// id. No ownership check: it never serves external callers directly.
func (s *service) GetByAllocation(ctx context.Context, allocationID uuid.UUID) (*models.Reservation, error) {
	if allocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation id required")
	}
	record, err := s.repo.FindByAllocationID(ctx, allocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "reservation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reservation")
	}
	return record, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, params pagination.Params) (*ReservationList, error) {
	if actor.Anonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity required")
	}

	filters := ListFilters{}
	if !actor.IsAdmin() {
		owner := actor.UserID.String()
		filters.BookedBy = &owner
	}

	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reservations")
	}
	return list, nil
}
