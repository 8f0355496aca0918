package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// AllocationMetrics records seat ledger outcomes on the schedule service.
type AllocationMetrics struct {
	granted  *prometheus.CounterVec
	denied   *prometheus.CounterVec
	released prometheus.Counter
}

// NewAllocationMetrics registers the allocation metrics on the provided registerer.
func NewAllocationMetrics(reg prometheus.Registerer) *AllocationMetrics {
	if reg == nil {
		return &AllocationMetrics{}
	}
	granted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_allocations_granted_total",
		Help: "Seat allocations granted, by request source.",
	}, []string{"source"})
	denied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seat_allocations_denied_total",
		Help: "Seat allocations denied, by reason.",
	}, []string{"reason"})
	released := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seat_allocations_released_total",
		Help: "Seat allocations released back to trips.",
	})
	reg.MustRegister(granted, denied, released)
	return &AllocationMetrics{
		granted:  granted,
		denied:   denied,
		released: released,
	}
}

// IncGranted increments the granted counter for the given source.
func (a *AllocationMetrics) IncGranted(source string) {
	if a == nil || a.granted == nil {
		return
	}
	a.granted.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncDenied increments the denied counter for the given reason.
func (a *AllocationMetrics) IncDenied(reason string) {
	if a == nil || a.denied == nil {
		return
	}
	a.denied.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncReleased increments the release counter.
func (a *AllocationMetrics) IncReleased() {
	if a == nil || a.released == nil {
		return
	}
	a.released.Inc()
}

// BookingMetrics records orchestrator outcomes on the reservation service.
type BookingMetrics struct {
	outcomes        *prometheus.CounterVec
	compensations   prometheus.Counter
	reconciliations prometheus.Counter
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking requests by terminal outcome.",
	}, []string{"outcome"})
	compensations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_compensation_attempts_total",
		Help: "Compensating release attempts issued by the orchestrator.",
	})
	reconciliations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_reconciliations_flagged_total",
		Help: "Allocations flagged for out-of-band reconciliation.",
	})
	reg.MustRegister(outcomes, compensations, reconciliations)
	return &BookingMetrics{
		outcomes:        outcomes,
		compensations:   compensations,
		reconciliations: reconciliations,
	}
}

// IncOutcome increments the terminal outcome counter (booked/failed/cancelled).
func (b *BookingMetrics) IncOutcome(outcome string) {
	if b == nil || b.outcomes == nil {
		return
	}
	b.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncCompensation increments the compensation attempt counter.
func (b *BookingMetrics) IncCompensation() {
	if b == nil || b.compensations == nil {
		return
	}
	b.compensations.Inc()
}

// IncReconciliationFlagged increments the reconciliation counter.
func (b *BookingMetrics) IncReconciliationFlagged() {
	if b == nil || b.reconciliations == nil {
		return
	}
	b.reconciliations.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
