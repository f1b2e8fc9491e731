package client

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrInvalidStatus  = errors.New("invalid client status")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrValidation     = errors.New("validation failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
