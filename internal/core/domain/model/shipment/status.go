package shipment

import (
	"errors"
	"fmt"

	"shiptrack/internal/pkg/errs"
)

// ErrInvalidTransition is the sentinel wrapped by InvalidTransitionError.
// Callers performing transitions as a side effect of another operation are
// expected to treat it as benign and continue.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of a shipment.
// It implements a state machine with a fixed transition graph:
//
//	created ──> assigned ──> picked_up ──> in_transit ──> out_for_delivery ──> delivered
//	               │                                            │
//	               └──> created (unassign)          not_delivered ──> out_for_delivery
//	                                                     │        └──> returned
//	   every non-terminal status except out_for_delivery ──> cancelled
//
// delivered, returned and cancelled are terminal: no outgoing transitions.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created is the initial status of every shipment.
	Created

	// Assigned indicates a driver or external carrier has been assigned.
	Assigned

	// PickedUp indicates the goods have been collected from the sender.
	PickedUp

	// InTransit indicates the shipment is moving between facilities.
	InTransit

	// OutForDelivery indicates the courier is on the final leg.
	OutForDelivery

	// Delivered is the terminal success status.
	Delivered

	// NotDelivered indicates a failed delivery attempt; the shipment can go
	// out for delivery again, be returned to the sender, or be cancelled.
	NotDelivered

	// Returned is the terminal status for shipments sent back to the sender.
	Returned

	// Cancelled is the terminal status for aborted shipments.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Created:        "created",
		Assigned:       "assigned",
		PickedUp:       "picked_up",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		NotDelivered:   "not_delivered",
		Returned:       "returned",
		Cancelled:      "cancelled",
	}
}

// allowedTransitions returns the immutable transition table. A status absent
// from the table (or mapped to an empty set) has no outgoing transitions.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Created:        {Assigned, Cancelled},
		Assigned:       {PickedUp, Cancelled, Created},
		PickedUp:       {InTransit, Cancelled},
		InTransit:      {OutForDelivery, Cancelled},
		OutForDelivery: {Delivered, NotDelivered},
		NotDelivered:   {OutForDelivery, Returned, Cancelled},
		Delivered:      {},
		Returned:       {},
		Cancelled:      {},
	}
}

// StatusFromString parses the wire representation of a status ("picked_up",
// "delivered", ...). Returns an error for unrecognized values.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid status", s))
}

// String returns the snake_case name of the status, "unknown" for invalid
// values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate returns an error for Unknown and any unmapped value.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// CanTransitionTo reports whether the transition graph permits moving from s
// to target. Total function: unknown or terminal statuses yield false for
// every target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
// Unknown is not terminal; it is invalid.
func (s Status) IsTerminal() bool {
	if s.Validate() != nil {
		return false
	}
	return len(allowedTransitions()[s]) == 0
}

// InvalidTransitionError reports a transition rejected by the state machine.
// It wraps ErrInvalidTransition for errors.Is checks.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the pair.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
