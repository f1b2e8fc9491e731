package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	findomain "lawpages-go/internal/domain/finance"
	"lawpages-go/internal/transport/httpserver/middleware"
)

type reconcileRequest struct {
	OwnerID string `json:"owner_id"`
}

type linkWithdrawalRequest struct {
	WithdrawalID string   `json:"withdrawal_id"`
	RecordIDs    []string `json:"record_ids"`
}

type paymentRecordResponse struct {
	ID            string    `json:"id"`
	AppointmentID string    `json:"appointment_id"`
	PageID        string    `json:"page_id"`
	ClientID      *string   `json:"client_id,omitempty"`
	ClientEmail   string    `json:"client_email"`
	Amount        float64   `json:"amount"`
	RecordedAt    time.Time `json:"recorded_at"`
	AvailableAt   time.Time `json:"available_at"`
	WithdrawalID  *string   `json:"withdrawal_id,omitempty"`
}

func toPaymentRecordResponse(record findomain.PaymentRecord) paymentRecordResponse {
	return paymentRecordResponse{
		ID:            record.ID,
		AppointmentID: record.AppointmentID,
		PageID:        record.PageID,
		ClientID:      record.ClientID,
		ClientEmail:   record.ClientEmail,
		Amount:        record.Amount,
		RecordedAt:    record.RecordedAt,
		AvailableAt:   record.AvailableAt,
		WithdrawalID:  record.WithdrawalID,
	}
}

// Reconcile sweeps the owner's paid appointments into the ledger. The
// owner id defaults to the actor, so an owner can just POST with an empty
// body.
func (h *Handlers) Reconcile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ownerID := actorID
	if r.ContentLength > 0 {
		var req reconcileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
			return
		}
		if req.OwnerID != "" {
			ownerID = req.OwnerID
		}
	}

	result, err := h.Finance.Reconcile(r.Context(), actorID, ownerID)
	if err != nil {
		h.respondError(w, "finance.reconcile", err)
		return
	}

	h.log.Info("finance.reconcile: sweep done", "owner_id", ownerID,
		"migrated", result.Migrated, "skipped", result.Skipped, "failed", result.Failed)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	summary, err := h.Finance.Summary(r.Context(), actorID, chi.URLParam(r, "page_id"))
	if err != nil {
		h.respondError(w, "finance.summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) ListPaymentRecords(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		ownerID = actorID
	}

	records, err := h.Finance.ListRecords(r.Context(), actorID, ownerID)
	if err != nil {
		h.respondError(w, "finance.records", err)
		return
	}

	response := make([]paymentRecordResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toPaymentRecordResponse(record))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) AvailableBalance(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		ownerID = actorID
	}

	balance, err := h.Finance.AvailableBalance(r.Context(), actorID, ownerID)
	if err != nil {
		h.respondError(w, "finance.balance", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"available_balance": balance})
}

func (h *Handlers) LinkWithdrawal(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.ActorIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req linkWithdrawalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Finance.LinkWithdrawal(r.Context(), actorID, req.WithdrawalID, req.RecordIDs); err != nil {
		h.respondError(w, "finance.link_withdrawal", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
