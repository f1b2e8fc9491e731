package handler

import (
	"errors"
	"net/http"

	appdb "lawpages-go/internal/db"
	aptdomain "lawpages-go/internal/domain/appointment"
	clientdomain "lawpages-go/internal/domain/client"
	collabdomain "lawpages-go/internal/domain/collaboration"
	findomain "lawpages-go/internal/domain/finance"
	pagedomain "lawpages-go/internal/domain/page"
)

// respondError maps domain errors to HTTP. Denials and transition conflicts
// carry their own messages (which capability was missing, which states
// raced) so stale clients can diagnose themselves; anything unrecognized is
// a logged 500.
func (h *Handlers) respondError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, collabdomain.ErrPermissionDenied):
		h.log.BusinessError(op+": denied", err)
		writeError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, pagedomain.ErrNotOwner):
		h.log.BusinessError(op+": denied", err)
		writeError(w, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, aptdomain.ErrInvalidTransition):
		h.log.BusinessError(op+": invalid transition", err)
		writeError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, aptdomain.ErrValidation),
		errors.Is(err, aptdomain.ErrConfirmationNeeded),
		errors.Is(err, pagedomain.ErrValidation),
		errors.Is(err, clientdomain.ErrValidation),
		errors.Is(err, clientdomain.ErrInvalidStatus),
		errors.Is(err, clientdomain.ErrInvalidEmail),
		errors.Is(err, findomain.ErrValidation),
		errors.Is(err, collabdomain.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, pagedomain.ErrPageNotFound),
		errors.Is(err, aptdomain.ErrAppointmentNotFound),
		errors.Is(err, clientdomain.ErrClientNotFound),
		errors.Is(err, collabdomain.ErrCollaborationNotFound),
		errors.Is(err, findomain.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, pagedomain.ErrSlugTaken),
		errors.Is(err, collabdomain.ErrAlreadyCollaborator),
		errors.Is(err, collabdomain.ErrOwnerCollaboration),
		errors.Is(err, findomain.ErrAlreadyWithdrawn):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, appdb.ErrTransient):
		h.log.Error(op+": transient storage failure", "err", err)
		writeError(w, http.StatusServiceUnavailable, "transient_error", "temporary storage failure, retry")
	default:
		h.log.InternalError(op+": failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
