package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/api/responses"
	"github.com/busline-io/busline-backend/api/validators"
	"github.com/busline-io/busline-backend/internal/reconciliation"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/logger"
)

// ReconciliationList returns the open queue of allocations that compensation
// could not release. Admin only.
func ReconciliationList(store reconciliation.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := store.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]reconciliationTaskResponse, 0, len(tasks))
		for i := range tasks {
			out = append(out, newReconciliationTaskResponse(&tasks[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ReconciliationResolve closes a task after an operator repaired the
// allocation out of band.
func ReconciliationResolve(store reconciliation.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID, err := validators.ParsePathUUID(r, "taskID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Resolve(r.Context(), taskID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": taskID, "resolved": true})
	}
}

type reconciliationTaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	TripID        uuid.UUID  `json:"trip_id"`
	AllocationID  uuid.UUID  `json:"allocation_id"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	Seats         int        `json:"seats"`
	Reason        string     `json:"reason"`
	Attempts      int        `json:"attempts"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newReconciliationTaskResponse(task *models.ReconciliationTask) reconciliationTaskResponse {
	return reconciliationTaskResponse{
		ID:            task.ID,
		TripID:        task.TripID,
		AllocationID:  task.AllocationID,
		ReservationID: task.ReservationID,
		Seats:         task.Seats,
		Reason:        task.Reason,
		Attempts:      task.Attempts,
		CreatedAt:     task.CreatedAt,
	}
}
