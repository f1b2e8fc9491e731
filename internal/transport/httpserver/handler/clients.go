package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	clientdomain "lawpages-go/internal/domain/client"
	"lawpages-go/internal/transport/httpserver/middleware"
)

type registerClientRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type setClientStatusRequest struct {
	Status string `json:"status"`
}

type clientResponse struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone,omitempty"`
	Status            string     `json:"status"`
	TotalAppointments int64      `json:"total_appointments"`
	TotalSpent        float64    `json:"total_spent"`
	LastContact       *time.Time `json:"last_contact,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toClientResponse(record clientdomain.Client) clientResponse {
	return clientResponse{
		ID:                record.ID,
		Email:             record.Email,
		Name:              record.Name,
		Phone:             record.Phone,
		Status:            record.Status,
		TotalAppointments: record.TotalAppointments,
		TotalSpent:        record.TotalSpent,
		LastContact:       record.LastContact,
		CreatedAt:         record.CreatedAt,
	}
}

func (h *Handlers) RegisterClient(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req registerClientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Clients.Register(r.Context(), actorID, chi.URLParam(r, "page_id"), clientdomain.RegisterInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		h.respondError(w, "clients.register", err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientResponse(*record))
}

func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	records, err := h.Clients.List(r.Context(), actorID, chi.URLParam(r, "page_id"))
	if err != nil {
		h.respondError(w, "clients.list", err)
		return
	}

	response := make([]clientResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toClientResponse(record))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) GetClient(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	record, err := h.Clients.Get(r.Context(), actorID, chi.URLParam(r, "page_id"), chi.URLParam(r, "client_id"))
	if err != nil {
		h.respondError(w, "clients.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(*record))
}

func (h *Handlers) SetClientStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req setClientStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Clients.SetStatus(r.Context(), actorID, chi.URLParam(r, "page_id"),
		chi.URLParam(r, "client_id"), req.Status)
	if err != nil {
		h.respondError(w, "clients.set_status", err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(*record))
}
