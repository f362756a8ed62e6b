package booking

import "fmt"

// Status represents the current state of a booking in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// validTransitions defines the state machine for booking status transitions.
// Cancellation is only reachable before the rental starts; an active rental
// must run to completion.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if the booking can be cancelled from this status.
func (s Status) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// BlocksVehicle returns true if a booking in this status holds the vehicle
// for its date range and therefore participates in conflict detection.
func (s Status) BlocksVehicle() bool {
	return s != StatusCancelled && s != StatusCompleted
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
