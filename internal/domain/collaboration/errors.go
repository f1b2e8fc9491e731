package collaboration

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCollaborationNotFound = errors.New("collaboration not found")
	ErrAlreadyCollaborator   = errors.New("user already collaborates on this page")
	ErrInvalidRole           = errors.New("invalid role")
	ErrOwnerCollaboration    = errors.New("page owner cannot be a collaborator")
)

// PermissionError names the capability the actor was missing, so denials
// are debuggable instead of silent.
type PermissionError struct {
	Capability string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: missing capability %q", e.Capability)
}

func (e *PermissionError) Unwrap() error { return ErrPermissionDenied }

func Denied(capability string) error {
	return &PermissionError{Capability: capability}
}
