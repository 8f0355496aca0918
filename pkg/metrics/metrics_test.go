package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAllocationMetricsExportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAllocationMetrics(reg)

	metrics.IncGranted("booking")
	metrics.IncGranted("booking")
	metrics.IncDenied("insufficient seats")
	metrics.IncReleased()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "seat_allocations_granted_total", "source", "booking"); err != nil {
		t.Fatalf("fetch granted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected granted=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "seat_allocations_denied_total", "reason", "insufficient_seats"); err != nil {
		t.Fatalf("fetch denied: %v", err)
	} else if got != 1 {
		t.Fatalf("expected denied=1, got %f", got)
	}
}

func TestBookingMetricsExportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewBookingMetrics(reg)

	metrics.IncOutcome("booked")
	metrics.IncCompensation()
	metrics.IncReconciliationFlagged()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "bookings_total", "outcome", "booked"); err != nil {
		t.Fatalf("fetch outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected booked=1, got %f", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	allocation := NewAllocationMetrics(nil)
	allocation.IncGranted("booking")
	allocation.IncDenied("unknown trip")
	allocation.IncReleased()

	booking := NewBookingMetrics(nil)
	booking.IncOutcome("failed")
	booking.IncCompensation()
	booking.IncReconciliationFlagged()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
		return 0, fmt.Errorf("metric %q has no series %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
