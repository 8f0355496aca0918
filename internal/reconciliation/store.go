// Package reconciliation keeps the operator-facing queue of allocations that
// compensation could not clean up. Nothing in the request path consumes the
// queue; it exists so an exhausted release is never silently lost.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
)

// Task captures the data the orchestrator knows when flagging.
type Task struct {
	TripID        uuid.UUID
	AllocationID  uuid.UUID
	ReservationID *uuid.UUID
	Seats         int
	Reason        string
	Attempts      int
}

// Store persists reconciliation tasks.
type Store interface {
	Flag(ctx context.Context, task Task) (*models.ReconciliationTask, error)
	ListOpen(ctx context.Context) ([]models.ReconciliationTask, error)
	Resolve(ctx context.Context, taskID uuid.UUID) error
}

type store struct {
	db *gorm.DB
}

// NewStore builds a reconciliation store bound to the provided DB.
func NewStore(db *gorm.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &store{db: db}, nil
}

// Flag records a task. Flagging the same allocation twice returns the
// existing row, so orchestrator retries never duplicate queue entries.
func (s *store) Flag(ctx context.Context, task Task) (*models.ReconciliationTask, error) {
	if task.AllocationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "allocation id required")
	}
	if task.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}

	record := &models.ReconciliationTask{
		ID:            uuid.New(),
		TripID:        task.TripID,
		AllocationID:  task.AllocationID,
		ReservationID: task.ReservationID,
		Seats:         task.Seats,
		Reason:        task.Reason,
		Attempts:      task.Attempts,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.findByAllocation(ctx, task.AllocationID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record reconciliation task")
	}
	return record, nil
}

func (s *store) findByAllocation(ctx context.Context, allocationID uuid.UUID) (*models.ReconciliationTask, error) {
	var existing models.ReconciliationTask
	err := s.db.WithContext(ctx).
		Where("allocation_id = ?", allocationID).
		First(&existing).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reconciliation task")
	}
	return &existing, nil
}

func (s *store) ListOpen(ctx context.Context) ([]models.ReconciliationTask, error) {
	var tasks []models.ReconciliationTask
	err := s.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reconciliation tasks")
	}
	return tasks, nil
}

func (s *store) Resolve(ctx context.Context, taskID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.ReconciliationTask{}).
		Where("id = ? AND resolved_at IS NULL", taskID).
		Update("resolved_at", time.Now().UTC())
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "resolve reconciliation task")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "open reconciliation task not found")
	}
	return nil
}
