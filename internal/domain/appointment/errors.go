package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrValidation          = errors.New("validation failed")
	ErrConfirmationNeeded  = errors.New("finalizing requires explicit confirmation")
)

// TransitionError reports the current persisted status and the attempted
// target, so a stale client can see exactly which race it lost.
type TransitionError struct {
	Current Status
	Target  Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.Current, e.Target)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func invalidTransition(current, target Status) error {
	return &TransitionError{Current: current, Target: target}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
