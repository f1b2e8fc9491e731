package page

import (
	"errors"
	"fmt"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrSlugTaken    = errors.New("page slug already exists")
	ErrNotOwner     = errors.New("only the page owner may do this")
	ErrValidation   = errors.New("validation failed")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
