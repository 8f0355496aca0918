package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	bookingsvc "github.com/busline-io/busline-backend/internal/booking"
	"github.com/busline-io/busline-backend/internal/reconciliation"
	reservationsvc "github.com/busline-io/busline-backend/internal/reservations"
	"github.com/busline-io/busline-backend/internal/seatledger"
	tripsvc "github.com/busline-io/busline-backend/internal/trips"
	pkgauth "github.com/busline-io/busline-backend/pkg/auth"
	"github.com/busline-io/busline-backend/pkg/config"
	"github.com/busline-io/busline-backend/pkg/db/models"
	"github.com/busline-io/busline-backend/pkg/enums"
	"github.com/busline-io/busline-backend/pkg/logger"
	"github.com/busline-io/busline-backend/pkg/pagination"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "busline-test"},
		Booking: config.BookingConfig{
			MaxSeatsPerRequest:      10,
			CompensationMaxAttempts: 3,
			CompensationBackoff:     time.Millisecond,
			IdempotencyTTL:          time.Hour,
		},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubTripService struct{}

func (stubTripService) CreateRoute(context.Context, tripsvc.CreateRouteInput) (*models.Route, error) {
	return &models.Route{ID: uuid.New()}, nil
}

func (stubTripService) ListRoutes(context.Context) ([]models.Route, error) {
	return nil, nil
}

func (stubTripService) CreateTrip(context.Context, tripsvc.CreateTripInput) (*models.Trip, error) {
	return &models.Trip{ID: uuid.New()}, nil
}

func (stubTripService) GetTrip(context.Context, uuid.UUID) (*models.Trip, error) {
	return &models.Trip{ID: uuid.New()}, nil
}

func (stubTripService) Search(context.Context, tripsvc.SearchFilters) ([]tripsvc.TripSummary, error) {
	return []tripsvc.TripSummary{}, nil
}

func (stubTripService) SeedDev(context.Context) error { return nil }

type stubAllocationService struct{}

func (stubAllocationService) Allocate(_ context.Context, input seatledger.AllocateInput) (*seatledger.Grant, error) {
	return &seatledger.Grant{AllocationID: input.AllocationID, TripID: input.TripID, Seats: input.Seats}, nil
}

func (stubAllocationService) Release(_ context.Context, input seatledger.ReleaseInput) (*seatledger.ReleaseResult, error) {
	return &seatledger.ReleaseResult{AllocationID: input.AllocationID}, nil
}

func (stubAllocationService) Availability(_ context.Context, tripID uuid.UUID) (*seatledger.Availability, error) {
	return &seatledger.Availability{TripID: tripID}, nil
}

type stubBookingService struct{}

func (stubBookingService) Book(_ context.Context, _ pkgauth.Actor, input bookingsvc.BookInput) (*models.Reservation, error) {
	return &models.Reservation{
		ID:            uuid.New(),
		TripID:        input.TripID,
		PassengerName: input.PassengerName,
		SeatsBooked:   input.Seats,
		Status:        enums.ReservationStatusBooked,
		AllocationID:  uuid.New(),
	}, nil
}

func (stubBookingService) Cancel(_ context.Context, _ pkgauth.Actor, reservationID uuid.UUID) (*models.Reservation, error) {
	return &models.Reservation{ID: reservationID, Status: enums.ReservationStatusCancelled}, nil
}

type stubReservationService struct{}

func (stubReservationService) CreatePending(context.Context, reservationsvc.CreateInput) (*models.Reservation, error) {
	return nil, nil
}

func (stubReservationService) MarkBooked(context.Context, uuid.UUID) (*models.Reservation, error) {
	return nil, nil
}

func (stubReservationService) MarkFailed(context.Context, uuid.UUID, string) (*models.Reservation, error) {
	return nil, nil
}

func (stubReservationService) MarkCancelled(context.Context, uuid.UUID) (*models.Reservation, error) {
	return nil, nil
}

func (stubReservationService) Get(context.Context, pkgauth.Actor, uuid.UUID) (*models.Reservation, error) {
	return &models.Reservation{ID: uuid.New(), Status: enums.ReservationStatusBooked}, nil
}

func (stubReservationService) GetByAllocation(context.Context, uuid.UUID) (*models.Reservation, error) {
	return nil, nil
}

func (stubReservationService) List(context.Context, pkgauth.Actor, pagination.Params) (*reservationsvc.ReservationList, error) {
	return &reservationsvc.ReservationList{}, nil
}

type stubReconciliationStore struct{}

func (stubReconciliationStore) Flag(context.Context, reconciliation.Task) (*models.ReconciliationTask, error) {
	return nil, nil
}

func (stubReconciliationStore) ListOpen(context.Context) ([]models.ReconciliationTask, error) {
	return []models.ReconciliationTask{}, nil
}

func (stubReconciliationStore) Resolve(context.Context, uuid.UUID) error { return nil }

type stubScheduleAPI struct{}

func (stubScheduleAPI) Allocate(_ context.Context, tripID, allocationID uuid.UUID, seats int) (*seatledger.Grant, error) {
	return &seatledger.Grant{AllocationID: allocationID, TripID: tripID, Seats: seats}, nil
}

func (stubScheduleAPI) Release(_ context.Context, _, allocationID uuid.UUID) (*seatledger.ReleaseResult, error) {
	return &seatledger.ReleaseResult{AllocationID: allocationID, Released: true}, nil
}

func (stubScheduleAPI) Availability(_ context.Context, tripID uuid.UUID) (*seatledger.Availability, error) {
	return &seatledger.Availability{TripID: tripID}, nil
}

func (stubScheduleAPI) Ping(context.Context) error { return nil }

func newScheduleHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewScheduleRouter(testConfig(), testLogger(), stubPinger{}, nil, stubTripService{}, stubAllocationService{})
}

func newReservationHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewReservationRouter(testConfig(), testLogger(), stubPinger{}, nil, nil,
		stubScheduleAPI{}, stubBookingService{}, stubReservationService{}, stubReconciliationStore{})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(testConfig().JWT, time.Now(), uuid.New(), role, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestScheduleHealthLive(t *testing.T) {
	handler := newScheduleHandler(t)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestTripSearchIsPublic(t *testing.T) {
	handler := newScheduleHandler(t)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/trips?origin=A", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouteCreateRequiresAdmin(t *testing.T) {
	handler := newScheduleHandler(t)
	body := `{"origin":"City A","destination":"City B"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/routes", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/routes", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleUser))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/routes", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSeatAllocateRouted(t *testing.T) {
	handler := newScheduleHandler(t)
	tripID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/"+tripID.String()+"/allocate",
		strings.NewReader(`{"allocation_id":"`+uuid.NewString()+`","seats":2}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAnonymousBookingAllowed(t *testing.T) {
	handler := newReservationHandler(t)
	body := `{"trip_id":"` + uuid.NewString() + `","passenger_name":"Ada Passenger","seats":2}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReservationListRequiresIdentity(t *testing.T) {
	handler := newReservationHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleUser))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestReconciliationsRequireAdmin(t *testing.T) {
	handler := newReservationHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reconciliations", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reconciliations", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
