package enums

import "testing"

func TestReservationStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{ReservationStatusPending, ReservationStatusBooked, true},
		{ReservationStatusPending, ReservationStatusFailed, true},
		{ReservationStatusPending, ReservationStatusCancelled, false},
		{ReservationStatusBooked, ReservationStatusCancelled, true},
		{ReservationStatusBooked, ReservationStatusPending, false},
		{ReservationStatusBooked, ReservationStatusFailed, false},
		{ReservationStatusCancelled, ReservationStatusBooked, false},
		{ReservationStatusFailed, ReservationStatusBooked, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected %v got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestReservationStatusTerminal(t *testing.T) {
	if ReservationStatusPending.IsTerminal() || ReservationStatusBooked.IsTerminal() {
		t.Fatalf("pending/booked must not be terminal")
	}
	if !ReservationStatusCancelled.IsTerminal() || !ReservationStatusFailed.IsTerminal() {
		t.Fatalf("cancelled/failed must be terminal")
	}
}

func TestParseReservationStatus(t *testing.T) {
	if _, err := ParseReservationStatus("booked"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseReservationStatus("BOOKED"); err == nil {
		t.Fatalf("expected case-sensitive parse to fail")
	}
}
