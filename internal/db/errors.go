package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrTransient marks storage failures that are safe to retry. It must never
// be confused with a domain decision: a timeout is not a denial.
var ErrTransient = errors.New("transient storage error")

// Classify wraps infrastructure failures in ErrTransient and leaves every
// other error untouched, so repositories can surface retryability without
// hiding the cause.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}

func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}
