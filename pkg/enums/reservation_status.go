package enums

import "fmt"

// ReservationStatus tracks the lifecycle of a reservation record.
// Legal transitions: pending -> {booked, failed}, booked -> cancelled.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusBooked    ReservationStatus = "booked"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusFailed    ReservationStatus = "failed"
)

var validReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusBooked,
	ReservationStatusCancelled,
	ReservationStatusFailed,
}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending: {ReservationStatusBooked, ReservationStatusFailed},
	ReservationStatusBooked:  {ReservationStatusCancelled},
}

// String implements fmt.Stringer.
func (r ReservationStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReservationStatus.
func (r ReservationStatus) IsValid() bool {
	for _, candidate := range validReservationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the state machine permits moving to next.
func (r ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, candidate := range reservationTransitions[r] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (r ReservationStatus) IsTerminal() bool {
	return len(reservationTransitions[r]) == 0
}

// ParseReservationStatus converts raw input into a ReservationStatus.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, candidate := range validReservationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", value)
}
