package seatledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a seat ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindTrip(ctx context.Context, tripID uuid.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.WithContext(ctx).
		Where("id = ?", tripID).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) FindAllocation(ctx context.Context, allocationID uuid.UUID) (*models.SeatAllocation, error) {
	var alloc models.SeatAllocation
	err := r.db.WithContext(ctx).
		Where("id = ?", allocationID).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (r *repository) CreateAllocation(ctx context.Context, alloc *models.SeatAllocation) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

// ReleaseAllocation flips a held allocation to released. The state guard in
// the WHERE clause is the decision point for concurrent releases: only the
// caller whose flip lands may return the seats to the trip counter.
func (r *repository) ReleaseAllocation(ctx context.Context, allocationID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SeatAllocation{}).
		Where("id = ? AND state = ?", allocationID, enums.AllocationStateHeld).
		Update("state", enums.AllocationStateReleased)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClaimSeats bumps the trip's allocated counter only when capacity allows.
// The guard in the WHERE clause is what makes concurrent allocates safe: two
// claims racing for the last seat resolve at the database, not in Go.
func (r *repository) ClaimSeats(ctx context.Context, tripID uuid.UUID, seats int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ? AND seats_allocated + ? <= seats_total", tripID, seats).
		Update("seats_allocated", gorm.Expr("seats_allocated + ?", seats))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ReturnSeats decrements the allocated counter, refusing to go below zero.
func (r *repository) ReturnSeats(ctx context.Context, tripID uuid.UUID, seats int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Trip{}).
		Where("id = ? AND seats_allocated >= ?", tripID, seats).
		Update("seats_allocated", gorm.Expr("seats_allocated - ?", seats))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
