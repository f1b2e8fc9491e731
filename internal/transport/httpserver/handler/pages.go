package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	pagedomain "lawpages-go/internal/domain/page"
	"lawpages-go/internal/transport/httpserver/middleware"
)

type createPageRequest struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Kind  string `json:"kind"`
	OAB   string `json:"oab"`
	Phone string `json:"phone"`
}

type updatePageRequest struct {
	Name  string `json:"name"`
	OAB   string `json:"oab"`
	Phone string `json:"phone"`
}

type pageResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Kind      string    `json:"kind"`
	OAB       string    `json:"oab,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toPageResponse(page pagedomain.Page) pageResponse {
	return pageResponse{
		ID:        page.ID,
		OwnerID:   page.OwnerID,
		Name:      page.Name,
		Slug:      page.Slug,
		Kind:      page.Kind,
		OAB:       page.OAB,
		Phone:     page.Phone,
		Active:    page.Active,
		CreatedAt: page.CreatedAt,
	}
}

func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req createPageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	page, err := h.Pages.Create(r.Context(), pagedomain.CreatePageInput{
		OwnerID: actorID,
		Name:    req.Name,
		Slug:    req.Slug,
		Kind:    req.Kind,
		OAB:     req.OAB,
		Phone:   req.Phone,
	})
	if err != nil {
		h.respondError(w, "pages.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPageResponse(*page))
}

func (h *Handlers) ListMyPages(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	pages, err := h.Pages.ListByOwner(r.Context(), actorID)
	if err != nil {
		h.respondError(w, "pages.list", err)
		return
	}

	response := make([]pageResponse, 0, len(pages))
	for _, page := range pages {
		response = append(response, toPageResponse(page))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.Pages.Get(r.Context(), chi.URLParam(r, "page_id"))
	if err != nil {
		h.respondError(w, "pages.get", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(*page))
}

func (h *Handlers) GetPageBySlug(w http.ResponseWriter, r *http.Request) {
	page, err := h.Pages.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondError(w, "pages.get_by_slug", err)
		return
	}
	writeJSON(w, http.StatusOK, toPageResponse(*page))
}

func (h *Handlers) UpdatePage(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req updatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	page, err := h.Pages.Update(r.Context(), actorID, chi.URLParam(r, "page_id"), pagedomain.UpdatePageInput{
		Name:  req.Name,
		OAB:   req.OAB,
		Phone: req.Phone,
	})
	if err != nil {
		h.respondError(w, "pages.update", err)
		return
	}

	writeJSON(w, http.StatusOK, toPageResponse(*page))
}

func (h *Handlers) DeactivatePage(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Pages.Deactivate(r.Context(), actorID, chi.URLParam(r, "page_id")); err != nil {
		h.respondError(w, "pages.deactivate", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
