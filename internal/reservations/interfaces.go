package reservations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/auth"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/enums"
	"github.com/busline-io/busline-backend/pkg/pagination"
)

// Repository defines persistence operations for reservation records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, reservation *models.Reservation) (*models.Reservation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindByAllocationID(ctx context.Context, allocationID uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ReservationList, error)
	// TransitionStatus flips status only when the row currently sits in one of
	// the allowed source states. Returns false when the guard did not match.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []enums.ReservationStatus, to enums.ReservationStatus, failureReason *string) (bool, error)
}

// Service is the reservation ledger: the keyed store of booking records with
// its guarded state machine.
type Service interface {
	CreatePending(ctx context.Context, input CreateInput) (*models.Reservation, error)
	MarkBooked(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*models.Reservation, error)
	MarkCancelled(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*models.Reservation, error)
	GetByAllocation(ctx context.Context, allocationID uuid.UUID) (*models.Reservation, error)
	List(ctx context.Context, actor auth.Actor, params pagination.Params) (*ReservationList, error)
}
