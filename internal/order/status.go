package order

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending       Status = "PENDING"
	StatusPreparing     Status = "PREPARING"
	StatusReady         Status = "READY"
	StatusBillRequested Status = "BILL_REQUESTED"
	StatusCompleted     Status = "COMPLETED"
)

func (s Status) String() string {
	return string(s)
}

// ErrUnknownStatus is returned when a status label is not part of the
// lifecycle.
var ErrUnknownStatus = errors.New("unknown order status")

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusPreparing: true,
	},
	StatusPreparing: {
		StatusReady: true,
	},
	StatusReady: {
		StatusBillRequested: true,
		StatusCompleted:     true,
	},
	StatusBillRequested: {
		StatusCompleted: true,
	},
	StatusCompleted: {},
}

// ParseStatus maps a raw label onto the closed status set. The source system
// accepted any string here; rejecting unknown labels closes that gap.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := allowedTransitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// CanTransitionTo reports whether the lifecycle permits moving from s to
// next. Self-transitions are not permitted.
func (s Status) CanTransitionTo(next Status) bool {
	targets, ok := allowedTransitions[s]
	if !ok {
		return false
	}
	return targets[next]
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Billable reports whether an order in status s may have a bill generated
// against it.
func (s Status) Billable() bool {
	return s == StatusReady || s == StatusBillRequested
}
