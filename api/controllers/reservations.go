package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/api/middleware"
	"github.com/busline-io/busline-backend/api/responses"
	"github.com/busline-io/busline-backend/api/validators"
	bookingsvc "github.com/busline-io/busline-backend/internal/booking"
	reservationsvc "github.com/busline-io/busline-backend/internal/reservations"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/logger"
	"github.com/busline-io/busline-backend/pkg/pagination"
)

// ReservationCreate runs the booking saga: allocate seats on the schedule
// authority, then persist the reservation.
func ReservationCreate(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createReservationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		record, err := svc.Book(r.Context(), actor, bookingsvc.BookInput{
			TripID:        payload.TripID,
			PassengerName: payload.PassengerName,
			Seats:         payload.Seats,
			RequestKey:    payload.RequestKey,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReservationResponse(record))
	}
}

// ReservationCancel releases the seats first, then marks the record; a
// repeat cancel returns the already-cancelled record.
func ReservationCancel(svc bookingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservationID, err := validators.ParsePathUUID(r, "reservationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		record, err := svc.Cancel(r.Context(), actor, reservationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newReservationResponse(record))
	}
}

// ReservationGet returns one reservation, owner or admin only.
func ReservationGet(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservationID, err := validators.ParsePathUUID(r, "reservationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		record, err := svc.Get(r.Context(), actor, reservationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newReservationResponse(record))
	}
}

// ReservationList pages the caller's reservations; admins see everyone's.
func ReservationList(svc reservationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := middleware.ActorFromContext(r.Context())
		list, err := svc.List(r.Context(), actor, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := reservationListResponse{
			Reservations: make([]reservationResponse, 0, len(list.Reservations)),
			NextCursor:   list.NextCursor,
		}
		for i := range list.Reservations {
			out.Reservations = append(out.Reservations, newReservationResponse(&list.Reservations[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

type createReservationRequest struct {
	TripID        uuid.UUID `json:"trip_id" validate:"required"`
	PassengerName string    `json:"passenger_name" validate:"required,min=1,max=200"`
	Seats         int       `json:"seats" validate:"required,min=1"`
	RequestKey    string    `json:"request_key" validate:"omitempty,max=200"`
}

type reservationResponse struct {
	ID            uuid.UUID `json:"id"`
	TripID        uuid.UUID `json:"trip_id"`
	PassengerName string    `json:"passenger_name"`
	Seats         int       `json:"seats"`
	Status        string    `json:"status"`
	BookedBy      *string   `json:"booked_by,omitempty"`
	AllocationID  uuid.UUID `json:"allocation_id"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type reservationListResponse struct {
	Reservations []reservationResponse `json:"reservations"`
	NextCursor   string                `json:"next_cursor,omitempty"`
}

func newReservationResponse(record *models.Reservation) reservationResponse {
	return reservationResponse{
		ID:            record.ID,
		TripID:        record.TripID,
		PassengerName: record.PassengerName,
		Seats:         record.SeatsBooked,
		Status:        string(record.Status),
		BookedBy:      record.BookedBy,
		AllocationID:  record.AllocationID,
		FailureReason: record.FailureReason,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
