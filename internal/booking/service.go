// Package booking orchestrates a reservation across the two authorities:
// validate, allocate seats on the schedule authority, persist the booking
// record locally, respond. There is no shared transaction, so every partial
// failure has an explicit recovery: compensating release with bounded
// retries, and a reconciliation flag when even that fails.
package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/busline-io/busline-backend/internal/reconciliation"
	"github.com/busline-io/busline-backend/internal/reservations"
	"github.com/busline-io/busline-backend/internal/scheduleclient"
	"github.com/busline-io/busline-backend/pkg/auth"
	"github.com/busline-io/busline-backend/pkg/config"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/enums"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/logger"
	"github.com/busline-io/busline-backend/pkg/metrics"
)

// allocationNamespace seeds the deterministic allocation ids. Changing it
// would orphan in-flight retries, so it never changes.
var allocationNamespace = uuid.MustParse("f5b8dfa7-3a3c-4b22-9a17-6c64a1b0a2d4")

// BookInput captures a booking request. RequestKey is the client's retry
// token; requests that repeat it map to the same allocation.
type BookInput struct {
	TripID        uuid.UUID
	PassengerName string
	Seats         int
	RequestKey    string
}

// Service is the booking orchestrator.
type Service interface {
	Book(ctx context.Context, actor auth.Actor, input BookInput) (*models.Reservation, error)
	Cancel(ctx context.Context, actor auth.Actor, reservationID uuid.UUID) (*models.Reservation, error)
}

type service struct {
	reservations reservations.Service
	schedule     scheduleclient.ScheduleAPI
	tasks        reconciliation.Store
	cfg          config.BookingConfig
	logg         *logger.Logger
	metrics      *metrics.BookingMetrics
}

// NewService builds the orchestrator. The metrics argument may be nil.
func NewService(
	res reservations.Service,
	schedule scheduleclient.ScheduleAPI,
	tasks reconciliation.Store,
	cfg config.BookingConfig,
	logg *logger.Logger,
	m *metrics.BookingMetrics,
) (Service, error) {
	if res == nil {
		return nil, fmt.Errorf("reservation ledger required")
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule client required")
	}
	if tasks == nil {
		return nil, fmt.Errorf("reconciliation store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.MaxSeatsPerRequest < 1 {
		return nil, fmt.Errorf("max seats per request must be positive")
	}
	if cfg.CompensationMaxAttempts < 1 {
		return nil, fmt.Errorf("compensation max attempts must be positive")
	}
	return &service{
		reservations: res,
		schedule:     schedule,
		tasks:        tasks,
		cfg:          cfg,
		logg:         logg,
		metrics:      m,
	}, nil
}

func (s *service) Book(ctx context.Context, actor auth.Actor, input BookInput) (*models.Reservation, error) {
	if input.TripID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trip id required")
	}
	if strings.TrimSpace(input.PassengerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passenger name required")
	}
	if input.Seats < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seats must be at least 1")
	}
	if input.Seats > s.cfg.MaxSeatsPerRequest {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("seats must not exceed %d per request", s.cfg.MaxSeatsPerRequest))
	}

	allocationID := s.allocationID(actor, input)
	ctx = s.logg.WithAllocationID(ctx, allocationID.String())
	ctx = s.logg.WithTripID(ctx, input.TripID.String())

	if err := s.allocate(ctx, input.TripID, allocationID, input.Seats); err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeCapacity) {
			s.recordDenied(ctx, actor, input, allocationID, err)
			s.metrics.IncOutcome("denied")
			return nil, err
		}
		if pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
			// the outcome is unknown: the hold may have landed before the
			// failure, so release it; an unheld id makes that a no-op
			s.logg.Warn(ctx, "allocate outcome unknown, releasing allocation")
			if compErr := s.compensate(ctx, input.TripID, allocationID); compErr != nil {
				s.metrics.IncReconciliationFlagged()
				s.metrics.IncOutcome("reconciliation_required")
				s.flag(ctx, input, allocationID, compErr)
				return nil, pkgerrors.Wrap(pkgerrors.CodeReconciliation,
					multierr.Append(err, compErr),
					"allocate outcome unknown and compensating release exhausted retries").
					WithDetails(map[string]any{"allocation_id": allocationID})
			}
		}
		return nil, err
	}

	record, err := s.persistBooked(ctx, actor, input, allocationID)
	if err == nil {
		s.logg.Info(s.logg.WithReservationID(ctx, record.ID.String()), "booking confirmed")
		s.metrics.IncOutcome("booked")
		return record, nil
	}

	if pkgerrors.HasCode(err, pkgerrors.CodeIdempotency) {
		// a previous attempt already persisted this allocation; hand back its record
		existing, lookupErr := s.reservations.GetByAllocation(ctx, allocationID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		s.metrics.IncOutcome("replayed")
		return existing, nil
	}

	// persist failed after seats were taken: compensate, then retire any
	// PENDING record so the failure is visible in the ledger
	s.logg.Warn(ctx, "booking persist failed, compensating allocation")
	compErr := s.compensate(ctx, input.TripID, allocationID)
	s.retireFailed(ctx, record, err)
	if compErr != nil {
		s.metrics.IncReconciliationFlagged()
		s.metrics.IncOutcome("reconciliation_required")
		s.flag(ctx, input, allocationID, compErr)
		return nil, pkgerrors.Wrap(pkgerrors.CodeReconciliation,
			multierr.Append(err, compErr),
			"persist failed and compensating release exhausted retries").
			WithDetails(map[string]any{"allocation_id": allocationID})
	}

	s.metrics.IncOutcome("failed")
	return nil, err
}

// allocate calls the schedule authority with the same bounded backoff as
// compensation. An error that survives the retries means the hold's fate is
// unknown to this side.
func (s *service) allocate(ctx context.Context, tripID, allocationID uuid.UUID, seats int) error {
	backoff := retry.WithMaxRetries(
		uint64(s.cfg.CompensationMaxAttempts-1),
		retry.NewExponential(s.cfg.CompensationBackoff),
	)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.schedule.Allocate(ctx, tripID, allocationID, seats)
		if err == nil {
			return nil
		}
		if pkgerrors.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// retireFailed moves an abandoned PENDING record to FAILED. Best effort: the
// booking error already carries the outcome, but a same-key retry reads the
// FAILED record where a stuck PENDING one would be uninterpretable.
func (s *service) retireFailed(ctx context.Context, record *models.Reservation, cause error) {
	if record == nil {
		return
	}
	reason := "booking could not be completed"
	if typed := pkgerrors.As(cause); typed != nil && typed.Message() != "" {
		reason = typed.Message()
	}
	if _, err := s.reservations.MarkFailed(ctx, record.ID, reason); err != nil {
		s.logg.Warn(ctx, "could not mark abandoned booking failed")
	}
}

// recordDenied leaves a FAILED record behind for a capacity denial so the
// attempt shows up in listings. Best effort: the denial itself is the answer.
func (s *service) recordDenied(ctx context.Context, actor auth.Actor, input BookInput, allocationID uuid.UUID, cause error) {
	record, err := s.reservations.CreatePending(ctx, reservations.CreateInput{
		TripID:        input.TripID,
		PassengerName: input.PassengerName,
		Seats:         input.Seats,
		AllocationID:  allocationID,
		BookedBy:      bookedBy(actor),
	})
	if err != nil {
		s.logg.Warn(ctx, "could not record denied booking attempt")
		return
	}
	typed := pkgerrors.As(cause)
	reason := "not enough seats available"
	if typed != nil && typed.Message() != "" {
		reason = typed.Message()
	}
	if _, err := s.reservations.MarkFailed(ctx, record.ID, reason); err != nil {
		s.logg.Warn(ctx, "could not mark denied booking attempt failed")
	}
}

// persistBooked writes the PENDING record and promotes it to BOOKED. When the
// promotion fails the created record comes back with the error so the caller
// can retire it.
func (s *service) persistBooked(ctx context.Context, actor auth.Actor, input BookInput, allocationID uuid.UUID) (*models.Reservation, error) {
	record, err := s.reservations.CreatePending(ctx, reservations.CreateInput{
		TripID:        input.TripID,
		PassengerName: input.PassengerName,
		Seats:         input.Seats,
		AllocationID:  allocationID,
		BookedBy:      bookedBy(actor),
	})
	if err != nil {
		return nil, err
	}

	booked, err := s.reservations.MarkBooked(ctx, record.ID)
	if err != nil {
		return record, err
	}
	return booked, nil
}

// compensate releases the held allocation with bounded exponential backoff.
func (s *service) compensate(ctx context.Context, tripID, allocationID uuid.UUID) error {
	backoff := retry.WithMaxRetries(
		uint64(s.cfg.CompensationMaxAttempts-1),
		retry.NewExponential(s.cfg.CompensationBackoff),
	)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		s.metrics.IncCompensation()
		_, err := s.schedule.Release(ctx, tripID, allocationID)
		if err == nil {
			return nil
		}
		if pkgerrors.IsRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (s *service) flag(ctx context.Context, input BookInput, allocationID uuid.UUID, cause error) {
	_, err := s.tasks.Flag(ctx, reconciliation.Task{
		TripID:       input.TripID,
		AllocationID: allocationID,
		Seats:        input.Seats,
		Reason:       cause.Error(),
		Attempts:     s.cfg.CompensationMaxAttempts,
	})
	if err != nil {
		// the fault still surfaces to the caller; losing the queue row is log-only
		s.logg.Error(ctx, "failed to record reconciliation task", err)
	}
}

func (s *service) Cancel(ctx context.Context, actor auth.Actor, reservationID uuid.UUID) (*models.Reservation, error) {
	if actor.Anonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity required")
	}

	record, err := s.reservations.Get(ctx, actor, reservationID)
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithReservationID(ctx, record.ID.String())

	switch record.Status {
	case enums.ReservationStatusCancelled:
		return record, nil
	case enums.ReservationStatusBooked:
		// release first; only a freed allocation may be marked cancelled
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot cancel a %s reservation", record.Status))
	}

	if err := s.compensate(ctx, record.TripID, record.AllocationID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release seats for cancellation")
	}

	cancelled, err := s.reservations.MarkCancelled(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncOutcome("cancelled")
	s.logg.Info(ctx, "booking cancelled")
	return cancelled, nil
}

func (s *service) allocationID(actor auth.Actor, input BookInput) uuid.UUID {
	key := strings.TrimSpace(input.RequestKey)
	if key == "" {
		return uuid.New()
	}
	name := fmt.Sprintf("%s|%s|%s", actor.UserID, input.TripID, key)
	return uuid.NewSHA1(allocationNamespace, []byte(name))
}

func bookedBy(actor auth.Actor) *string {
	if actor.Anonymous() {
		return nil
	}
	id := actor.UserID.String()
	return &id
}
