package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	collabdomain "lawpages-go/internal/domain/collaboration"
	"lawpages-go/internal/transport/httpserver/middleware"
)

type grantCollaborationRequest struct {
	CollaboratorID string `json:"collaborator_id"`
	Role           string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type collaborationResponse struct {
	ID             string    `json:"id"`
	PageID         string    `json:"page_id"`
	OwnerID        string    `json:"owner_id"`
	CollaboratorID string    `json:"collaborator_id"`
	Role           string    `json:"role"`
	Permissions    []string  `json:"permissions"`
	CreatedAt      time.Time `json:"created_at"`
}

func toCollaborationResponse(collab collabdomain.Collaboration) collaborationResponse {
	permissions := collabdomain.RolePermissions(collab.Role)
	names := make([]string, 0, len(permissions))
	for _, p := range []collabdomain.Permission{
		collabdomain.PermissionClients,
		collabdomain.PermissionAppointments,
		collabdomain.PermissionFinancial,
	} {
		if permissions.Has(p) {
			names = append(names, string(p))
		}
	}

	return collaborationResponse{
		ID:             collab.ID,
		PageID:         collab.PageID,
		OwnerID:        collab.OwnerID,
		CollaboratorID: collab.CollaboratorID,
		Role:           string(collab.Role),
		Permissions:    names,
		CreatedAt:      collab.CreatedAt,
	}
}

type accessResponse struct {
	IsOwner     bool     `json:"is_owner"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
}

func (h *Handlers) GrantCollaboration(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req grantCollaborationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	collab, err := h.Collaborations.Grant(r.Context(), actorID, chi.URLParam(r, "page_id"),
		req.CollaboratorID, collabdomain.Role(req.Role))
	if err != nil {
		h.respondError(w, "collaborations.grant", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCollaborationResponse(*collab))
}

func (h *Handlers) ChangeCollaborationRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	collab, err := h.Collaborations.ChangeRole(r.Context(), actorID,
		chi.URLParam(r, "collaboration_id"), collabdomain.Role(req.Role))
	if err != nil {
		h.respondError(w, "collaborations.change_role", err)
		return
	}

	writeJSON(w, http.StatusOK, toCollaborationResponse(*collab))
}

func (h *Handlers) RevokeCollaboration(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Collaborations.Revoke(r.Context(), actorID, chi.URLParam(r, "collaboration_id")); err != nil {
		h.respondError(w, "collaborations.revoke", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListPageCollaborations(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	collabs, err := h.Collaborations.ListByPage(r.Context(), actorID, chi.URLParam(r, "page_id"))
	if err != nil {
		h.respondError(w, "collaborations.list", err)
		return
	}

	response := make([]collaborationResponse, 0, len(collabs))
	for _, collab := range collabs {
		response = append(response, toCollaborationResponse(collab))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) ListMyCollaborations(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	collabs, err := h.Collaborations.ListByCollaborator(r.Context(), actorID)
	if err != nil {
		h.respondError(w, "collaborations.list_mine", err)
		return
	}

	response := make([]collaborationResponse, 0, len(collabs))
	for _, collab := range collabs {
		response = append(response, toCollaborationResponse(collab))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

// GetAccess exposes the resolver verdict so a frontend can hide what the
// actor cannot do anyway. The verdict for an unknown page is simply empty.
func (h *Handlers) GetAccess(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	access, err := h.Collaborations.Resolver().Resolve(r.Context(), actorID, chi.URLParam(r, "page_id"))
	if err != nil {
		h.respondError(w, "collaborations.access", err)
		return
	}

	permissions := make([]string, 0, len(access.Permissions))
	for _, p := range []collabdomain.Permission{
		collabdomain.PermissionClients,
		collabdomain.PermissionAppointments,
		collabdomain.PermissionFinancial,
	} {
		if access.Permissions.Has(p) {
			permissions = append(permissions, string(p))
		}
	}

	writeJSON(w, http.StatusOK, accessResponse{
		IsOwner:     access.IsOwner,
		Role:        string(access.Role),
		Permissions: permissions,
	})
}
