package models

import "fmt"

// PaymentStatus is the lifecycle state of an order or prebooking.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusPaid      PaymentStatus = "PAID"
	StatusCompleted PaymentStatus = "COMPLETED"
	StatusCancelled PaymentStatus = "CANCELLED"
	StatusRefunded  PaymentStatus = "REFUNDED"
)

// allowedTransitions is the forward-only state machine. COMPLETED,
// CANCELLED and REFUNDED are terminal.
var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	StatusPending: {StatusPaid, StatusCancelled},
	StatusPaid:    {StatusCompleted, StatusRefunded, StatusCancelled},
}

// InvalidTransitionError is returned for a transition the table forbids.
// Handlers map it to HTTP 409.
type InvalidTransitionError struct {
	From PaymentStatus
	To   PaymentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition payment status from %s to %s", e.From, e.To)
}

// Valid reports whether s is one of the five known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s PaymentStatus) Terminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// CanTransition checks the transition table. A transition to the current
// state is allowed as an idempotent no-op so that replayed gateway
// callbacks do not fail.
func (s PaymentStatus) CanTransition(to PaymentStatus) error {
	if !to.Valid() {
		return &InvalidTransitionError{From: s, To: to}
	}
	if s == to {
		return nil
	}
	for _, next := range allowedTransitions[s] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: s, To: to}
}
