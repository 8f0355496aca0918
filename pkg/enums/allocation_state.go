package enums

import "fmt"

// AllocationState tracks whether a seat allocation is currently held.
type AllocationState string

const (
	AllocationStateHeld     AllocationState = "held"
	AllocationStateReleased AllocationState = "released"
)

var validAllocationStates = []AllocationState{
	AllocationStateHeld,
	AllocationStateReleased,
}

// String implements fmt.Stringer.
func (a AllocationState) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AllocationState.
func (a AllocationState) IsValid() bool {
	for _, candidate := range validAllocationStates {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAllocationState converts raw input into an AllocationState.
func ParseAllocationState(value string) (AllocationState, error) {
	for _, candidate := range validAllocationStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid allocation state %q", value)
}
