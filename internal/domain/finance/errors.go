package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateLedgerEntry is raised by the store when an appointment
	// already has a ledger row. The engine treats it as a normal skip; it
	// never reaches a caller as a failure.
	ErrDuplicateLedgerEntry = errors.New("ledger entry already exists for appointment")
	ErrRecordNotFound       = errors.New("payment record not found")
	ErrAlreadyWithdrawn     = errors.New("payment record already linked to a withdrawal")
	ErrValidation           = errors.New("validation failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
