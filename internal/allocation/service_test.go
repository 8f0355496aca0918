package allocation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline-io/busline-backend/internal/seatledger"
	"github.com/busline-io/busline-backend/pkg/config"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
)

type stubLedger struct {
	allocateCalls int
	allocate      func(ctx context.Context, input seatledger.AllocateInput) (*seatledger.Grant, error)
}

func (s *stubLedger) Allocate(ctx context.Context, input seatledger.AllocateInput) (*seatledger.Grant, error) {
	s.allocateCalls++
	if s.allocate != nil {
		return s.allocate(ctx, input)
	}
	return &seatledger.Grant{AllocationID: input.AllocationID, TripID: input.TripID, Seats: input.Seats}, nil
}

func (s *stubLedger) Release(ctx context.Context, input seatledger.ReleaseInput) (*seatledger.ReleaseResult, error) {
	return &seatledger.ReleaseResult{AllocationID: input.AllocationID, Released: true}, nil
}

func (s *stubLedger) Availability(ctx context.Context, tripID uuid.UUID) (*seatledger.Availability, error) {
	return &seatledger.Availability{TripID: tripID, SeatsTotal: 40, SeatsAvailable: 40}, nil
}

func TestAllocateEnforcesSeatBounds(t *testing.T) {
	ledger := &stubLedger{}
	svc, err := NewService(ledger, config.BookingConfig{MaxSeatsPerRequest: 10})
	require.NoError(t, err)

	_, err = svc.Allocate(context.Background(), seatledger.AllocateInput{
		AllocationID: uuid.New(), TripID: uuid.New(), Seats: 0,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Allocate(context.Background(), seatledger.AllocateInput{
		AllocationID: uuid.New(), TripID: uuid.New(), Seats: 11,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	assert.Zero(t, ledger.allocateCalls, "ledger must not see invalid requests")

	_, err = svc.Allocate(context.Background(), seatledger.AllocateInput{
		AllocationID: uuid.New(), TripID: uuid.New(), Seats: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.allocateCalls)
}

func TestNewServiceRejectsBadConfig(t *testing.T) {
	_, err := NewService(&stubLedger{}, config.BookingConfig{MaxSeatsPerRequest: 0})
	assert.Error(t, err)

	_, err = NewService(nil, config.BookingConfig{MaxSeatsPerRequest: 10})
	assert.Error(t, err)
}
