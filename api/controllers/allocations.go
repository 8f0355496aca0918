package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/api/responses"
	"github.com/busline-io/busline-backend/api/validators"
	allocsvc "github.com/busline-io/busline-backend/internal/allocation"
	"github.com/busline-io/busline-backend/internal/seatledger"
	"github.com/busline-io/busline-backend/pkg/logger"
)

// SeatAllocate grants or replays a seat hold for a trip. The caller supplies
// the allocation id so replays after a lost response converge on one hold.
func SeatAllocate(svc allocsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID, err := validators.ParsePathUUID(r, "tripID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload allocateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		grant, err := svc.Allocate(r.Context(), seatledger.AllocateInput{
			AllocationID: payload.AllocationID,
			TripID:       tripID,
			Seats:        payload.Seats,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if grant.Replayed {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(w, status, grant)
	}
}

// SeatRelease returns a held allocation's seats to the pool. Releasing an
// unknown or already-released allocation succeeds with released=false.
func SeatRelease(svc allocsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the trip id is part of the path for symmetry; the allocation id
		// alone identifies what to release
		if _, err := validators.ParsePathUUID(r, "tripID"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload releaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Release(r.Context(), seatledger.ReleaseInput{AllocationID: payload.AllocationID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SeatAvailability reports the live seat counters for a trip.
func SeatAvailability(svc allocsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID, err := validators.ParsePathUUID(r, "tripID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		availability, err := svc.Availability(r.Context(), tripID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, availability)
	}
}

type allocateRequest struct {
	AllocationID uuid.UUID `json:"allocation_id" validate:"required"`
	Seats        int       `json:"seats" validate:"required,min=1"`
}

type releaseRequest struct {
	AllocationID uuid.UUID `json:"allocation_id" validate:"required"`
}
