package appointment

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	clientdomain "lawpages-go/internal/domain/client"
	"lawpages-go/internal/domain/collaboration"
)

// Clients is the slice of the client registry the lifecycle needs for the
// promote-to-client side channel.
type Clients interface {
	RegisterForOwner(ctx context.Context, ownerID string, input clientdomain.RegisterInput) (*clientdomain.Client, error)
	RefreshAggregates(ctx context.Context, ownerID, email string) error
}

type Service struct {
	repo     Repository
	resolver *collaboration.Resolver
	clients  Clients
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, resolver *collaboration.Resolver, clients Clients) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		clients:  clients,
		notifier: noopNotifier{},
		now:      time.Now,
	}
}

func (s *Service) SetNotifier(notifier Notifier) {
	if notifier != nil {
		s.notifier = notifier
	}
}

// CreateRequest is the booking-intake entry point: no actor, the request
// comes from the public page.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (*Appointment, error) {
	email := strings.ToLower(strings.TrimSpace(input.ClientEmail))
	if email == "" {
		return nil, validationf("client email is required")
	}
	name := strings.TrimSpace(input.ClientName)
	if name == "" {
		return nil, validationf("client name is required")
	}
	if input.AppointmentDate.IsZero() {
		return nil, validationf("appointment date is required")
	}
	if input.ProposedMin != nil && input.ProposedMax != nil && *input.ProposedMin > *input.ProposedMax {
		return nil, validationf("proposed price range is inverted")
	}

	ownerID, err := s.repo.GetPageOwner(ctx, input.PageID)
	if err != nil {
		return nil, err
	}

	apt := Appointment{
		ID:              uuid.NewString(),
		PageID:          input.PageID,
		OwnerID:         ownerID,
		ClientName:      name,
		ClientEmail:     email,
		Status:          StatusPending,
		ProposedMin:     input.ProposedMin,
		ProposedMax:     input.ProposedMax,
		AppointmentDate: input.AppointmentDate,
	}
	if err := s.repo.Create(ctx, &apt); err != nil {
		return nil, err
	}

	return &apt, nil
}

func (s *Service) Get(ctx context.Context, actorID, appointmentID string) (*Appointment, error) {
	apt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(ctx, actorID, apt.PageID); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) List(ctx context.Context, actorID, pageID string, filter ListFilter) ([]Appointment, int64, error) {
	if err := s.requireManage(ctx, actorID, pageID); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, pageID, filter)
}

// SetPrice moves pendente -> aguardando_pagamento, persisting the agreed
// price and call link. A price outside the proposed range is a warning in
// the result, not a rejection.
func (s *Service) SetPrice(ctx context.Context, actorID, appointmentID string, finalPrice float64, videoCallLink string) (*SetPriceResult, error) {
	if finalPrice <= 0 {
		return nil, validationf("final price must be positive")
	}
	link := strings.TrimSpace(videoCallLink)
	parsed, err := url.Parse(link)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, validationf("video call link must be an absolute URL")
	}

	apt, err := s.authorizedAppointment(ctx, actorID, appointmentID)
	if err != nil {
		return nil, err
	}

	updated, err := s.transition(ctx, apt, StatusChange{
		To:            StatusAwaitingPayment,
		FinalPrice:    &finalPrice,
		VideoCallLink: &link,
	})
	if err != nil {
		return nil, err
	}

	outOfRange := false
	if apt.ProposedMin != nil && finalPrice < *apt.ProposedMin {
		outOfRange = true
	}
	if apt.ProposedMax != nil && finalPrice > *apt.ProposedMax {
		outOfRange = true
	}

	return &SetPriceResult{Appointment: updated, PriceOutOfRange: outOfRange}, nil
}

// Reject declines a pending request.
func (s *Service) Reject(ctx context.Context, actorID, appointmentID, reason string) (*Appointment, error) {
	apt, err := s.authorizedAppointment(ctx, actorID, appointmentID)
	if err != nil {
		return nil, err
	}
	if apt.Status != StatusPending {
		return nil, invalidTransition(apt.Status, StatusCancelled)
	}

	reason = strings.TrimSpace(reason)
	return s.transition(ctx, apt, StatusChange{
		To:           StatusCancelled,
		CancelReason: &reason,
	})
}

// MarkPaid is the payment gateway's entry point; the webhook token is
// checked at the transport layer, there is no acting user. A retry for the
// same transaction is a no-op success.
func (s *Service) MarkPaid(ctx context.Context, appointmentID, transactionID string) (*Appointment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, validationf("transaction id is required")
	}

	apt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if apt.Status.Paid() && apt.TransactionID == transactionID {
		return apt, nil
	}

	paidAt := s.now().UTC()
	return s.transition(ctx, apt, StatusChange{
		To:            StatusPaid,
		TransactionID: &transactionID,
		PaidAt:        &paidAt,
	})
}

func (s *Service) Confirm(ctx context.Context, actorID, appointmentID string) (*Appointment, error) {
	apt, err := s.authorizedAppointment(ctx, actorID, appointmentID)
	if err != nil {
		return nil, err
	}

	confirmedAt := s.now().UTC()
	return s.transition(ctx, apt, StatusChange{
		To:          StatusConfirmed,
		ConfirmedAt: &confirmedAt,
	})
}

// Finalize marks a confirmed appointment as realized. The step is
// irreversible, so the caller must pass the explicit confirmation flag.
func (s *Service) Finalize(ctx context.Context, actorID, appointmentID string, confirmed bool) (*Appointment, error) {
	if !confirmed {
		return nil, ErrConfirmationNeeded
	}

	apt, err := s.authorizedAppointment(ctx, actorID, appointmentID)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, apt, StatusChange{To: StatusCompleted})
}

func (s *Service) Cancel(ctx context.Context, actorID, appointmentID, reason string) (*Appointment, error) {
	apt, err := s.authorizedAppointment(ctx, actorID, appointmentID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	return s.transition(ctx, apt, StatusChange{
		To:           StatusCancelled,
		CancelReason: &reason,
	})
}

// RegisterClient promotes the appointment's contact into a permanent
// client record once the appointment has been paid for. Re-promoting is a
// no-op success.
func (s *Service) RegisterClient(ctx context.Context, actorID, appointmentID string) (*clientdomain.Client, error) {
	apt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	access, err := s.resolver.Resolve(ctx, actorID, apt.PageID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageClients() {
		return nil, collaboration.Denied("clients")
	}

	if !apt.Status.Paid() {
		return nil, validationf("appointment is not paid yet (status %s)", apt.Status)
	}

	record, err := s.clients.RegisterForOwner(ctx, apt.OwnerID, clientdomain.RegisterInput{
		Email: apt.ClientEmail,
		Name:  apt.ClientName,
	})
	if err != nil {
		return nil, err
	}

	if apt.ClientID == nil || *apt.ClientID != record.ID {
		if err := s.repo.SetClientID(ctx, apt.ID, record.ID); err != nil {
			return nil, err
		}
	}

	if err := s.clients.RefreshAggregates(ctx, apt.OwnerID, record.Email); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) authorizedAppointment(ctx context.Context, actorID, appointmentID string) (*Appointment, error) {
	apt, err := s.repo.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(ctx, actorID, apt.PageID); err != nil {
		return nil, err
	}
	return apt, nil
}

func (s *Service) requireManage(ctx context.Context, actorID, pageID string) error {
	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return err
	}
	if !access.CanManageAppointments() {
		return collaboration.Denied("appointments")
	}
	return nil
}

// transition validates the edge against the status read from storage and
// applies it with compare-and-set. Losing the CAS means another actor
// already advanced the appointment: the caller gets a TransitionError
// describing the now-current state, with nothing written.
func (s *Service) transition(ctx context.Context, apt *Appointment, change StatusChange) (*Appointment, error) {
	from := apt.Status
	if !CanTransition(from, change.To) {
		return nil, invalidTransition(from, change.To)
	}

	applied, err := s.repo.UpdateStatus(ctx, apt.ID, from, change)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := s.repo.GetByID(ctx, apt.ID)
		if err != nil {
			return nil, err
		}
		return nil, invalidTransition(current.Status, change.To)
	}

	updated := *apt
	updated.Status = change.To
	if change.FinalPrice != nil {
		updated.FinalPrice = *change.FinalPrice
	}
	if change.VideoCallLink != nil {
		updated.VideoCallLink = *change.VideoCallLink
	}
	if change.TransactionID != nil {
		updated.TransactionID = *change.TransactionID
	}
	if change.CancelReason != nil {
		updated.CancelReason = *change.CancelReason
	}
	if change.PaidAt != nil {
		updated.PaidAt = change.PaidAt
	}
	if change.ConfirmedAt != nil {
		updated.ConfirmedAt = change.ConfirmedAt
	}

	s.notifier.StatusChanged(ctx, &updated, from, change.To)

	return &updated, nil
}
