package parcel

import (
	"errors"
	"fmt"
	"strings"

	"mailroom/internal/pkg/errs"
)

// Status is the lifecycle state of a package.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// Waiting is the initial state after registration: the package is on the
	// shelf and holds a number.
	Waiting

	// Retrieved means the package was handed to the resident. The number stays
	// reserved until the package is resolved.
	Retrieved

	// Resolved is terminal: the package is closed and its number is released.
	Resolved

	// Failed is terminal: registration failed before a package reached the shelf.
	Failed
)

var statusNames = map[Status]string{
	Unknown:   "UNKNOWN",
	Waiting:   "WAITING",
	Retrieved: "RETRIEVED",
	Resolved:  "RESOLVED",
	Failed:    "FAILED",
}

// transitions is the only place allowed moves are declared.
var transitions = map[Status][]Status{
	Waiting:   {Retrieved, Resolved},
	Retrieved: {Resolved},
	Resolved:  {},
	Failed:    {},
}

// ErrInvalidTransition is the sentinel behind InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid package status transition")

// InvalidTransitionError names the rejected source/target pair.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ParseStatus maps the persisted or wire name (case-insensitive) to a Status.
func ParseStatus(s string) (Status, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range statusNames {
		if status != Unknown && name == needle {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a package status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// Validate rejects Unknown and out-of-range values, e.g. a corrupted column.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsLive reports whether a package in this state holds a number.
func (s Status) IsLive() bool {
	return s == Waiting || s == Retrieved
}

// IsTerminal reports whether no transition leaves this state.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether the table allows s -> target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the move is allowed, otherwise an
// InvalidTransitionError naming both states.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return s, NewInvalidTransitionError(s, target)
	}
	return target, nil
}

// AllStatuses lists every valid status, for exhaustive tests and docs.
func AllStatuses() []Status {
	return []Status{Waiting, Retrieved, Resolved, Failed}
}
