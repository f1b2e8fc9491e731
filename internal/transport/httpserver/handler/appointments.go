package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	aptdomain "lawpages-go/internal/domain/appointment"
	"lawpages-go/internal/transport/httpserver/middleware"
)

type bookingRequest struct {
	PageID          string   `json:"page_id"`
	ClientName      string   `json:"client_name"`
	ClientEmail     string   `json:"client_email"`
	ProposedMin     *float64 `json:"proposed_min"`
	ProposedMax     *float64 `json:"proposed_max"`
	AppointmentDate string   `json:"appointment_date"`
}

type setPriceRequest struct {
	FinalPrice    float64 `json:"final_price"`
	VideoCallLink string  `json:"video_call_link"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type finalizeRequest struct {
	Confirmed bool `json:"confirmed"`
}

type paymentWebhookRequest struct {
	AppointmentID string `json:"appointment_id"`
	TransactionID string `json:"transaction_id"`
}

type appointmentResponse struct {
	ID              string     `json:"id"`
	PageID          string     `json:"page_id"`
	ClientID        *string    `json:"client_id,omitempty"`
	ClientName      string     `json:"client_name"`
	ClientEmail     string     `json:"client_email"`
	Status          string     `json:"status"`
	ProposedMin     *float64   `json:"proposed_min,omitempty"`
	ProposedMax     *float64   `json:"proposed_max,omitempty"`
	FinalPrice      float64    `json:"final_price"`
	VideoCallLink   string     `json:"video_call_link,omitempty"`
	CancelReason    string     `json:"cancel_reason,omitempty"`
	AppointmentDate time.Time  `json:"appointment_date"`
	CreatedAt       time.Time  `json:"created_at"`
	PaidAt          *time.Time `json:"paid_at,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

func toAppointmentResponse(apt aptdomain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:              apt.ID,
		PageID:          apt.PageID,
		ClientID:        apt.ClientID,
		ClientName:      apt.ClientName,
		ClientEmail:     apt.ClientEmail,
		Status:          string(apt.Status),
		ProposedMin:     apt.ProposedMin,
		ProposedMax:     apt.ProposedMax,
		FinalPrice:      apt.FinalPrice,
		VideoCallLink:   apt.VideoCallLink,
		CancelReason:    apt.CancelReason,
		AppointmentDate: apt.AppointmentDate,
		CreatedAt:       apt.CreatedAt,
		PaidAt:          apt.PaidAt,
		ConfirmedAt:     apt.ConfirmedAt,
	}
}

// CreateBooking is the public intake endpoint: no JWT, the request comes
// from a page's public profile.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, err := time.Parse(time.RFC3339, req.AppointmentDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "appointment_date must be RFC 3339")
		return
	}

	apt, err := h.Appointments.CreateRequest(r.Context(), aptdomain.CreateRequestInput{
		PageID:          req.PageID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ProposedMin:     req.ProposedMin,
		ProposedMax:     req.ProposedMax,
		AppointmentDate: date,
	})
	if err != nil {
		h.respondError(w, "appointments.booking", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(*apt))
}

func (h *Handlers) ListAppointments(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	query := r.URL.Query()
	filter := aptdomain.ListFilter{}

	if value := query.Get("status"); value != "" {
		status := aptdomain.Status(value)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
			return
		}
		filter.Status = &status
	}

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	filter.From = from
	filter.To = to

	if filter.Limit, err = parseIntParam(query.Get("limit"), 50); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	if filter.Offset, err = parseIntParam(query.Get("offset"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	items, total, err := h.Appointments.List(r.Context(), actorID, chi.URLParam(r, "page_id"), filter)
	if err != nil {
		h.respondError(w, "appointments.list", err)
		return
	}

	response := make([]appointmentResponse, 0, len(items))
	for _, apt := range items {
		response = append(response, toAppointmentResponse(apt))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response, "total": total})
}

func (h *Handlers) GetAppointment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	apt, err := h.Appointments.Get(r.Context(), actorID, chi.URLParam(r, "appointment_id"))
	if err != nil {
		h.respondError(w, "appointments.get", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*apt))
}

func (h *Handlers) SetAppointmentPrice(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req setPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Appointments.SetPrice(r.Context(), actorID, chi.URLParam(r, "appointment_id"),
		req.FinalPrice, req.VideoCallLink)
	if err != nil {
		h.respondError(w, "appointments.set_price", err)
		return
	}

	if result.PriceOutOfRange {
		h.log.Warn("appointments.set_price: price outside proposed range",
			"appointment_id", result.Appointment.ID, "final_price", req.FinalPrice)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"appointment":        toAppointmentResponse(*result.Appointment),
		"price_out_of_range": result.PriceOutOfRange,
	})
}

func (h *Handlers) RejectAppointment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	apt, err := h.Appointments.Reject(r.Context(), actorID, chi.URLParam(r, "appointment_id"), req.Reason)
	if err != nil {
		h.respondError(w, "appointments.reject", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*apt))
}

func (h *Handlers) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	apt, err := h.Appointments.Confirm(r.Context(), actorID, chi.URLParam(r, "appointment_id"))
	if err != nil {
		h.respondError(w, "appointments.confirm", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*apt))
}

func (h *Handlers) FinalizeAppointment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req finalizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	apt, err := h.Appointments.Finalize(r.Context(), actorID, chi.URLParam(r, "appointment_id"), req.Confirmed)
	if err != nil {
		h.respondError(w, "appointments.finalize", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*apt))
}

func (h *Handlers) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	apt, err := h.Appointments.Cancel(r.Context(), actorID, chi.URLParam(r, "appointment_id"), req.Reason)
	if err != nil {
		h.respondError(w, "appointments.cancel", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*apt))
}

func (h *Handlers) RegisterAppointmentClient(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	record, err := h.Appointments.RegisterClient(r.Context(), actorID, chi.URLParam(r, "appointment_id"))
	if err != nil {
		h.respondError(w, "appointments.register_client", err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(*record))
}

// PaymentWebhook is the gateway's callback; it is authenticated by the
// shared webhook token middleware, not a user JWT.
func (h *Handlers) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req paymentWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	apt, err := h.Appointments.MarkPaid(r.Context(), req.AppointmentID, req.TransactionID)
	if err != nil {
		h.respondError(w, "appointments.payment_webhook", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(*apt))
}
