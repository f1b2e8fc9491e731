package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"lawpages-go/internal/domain/collaboration"
)

type Service struct {
	repo     Repository
	resolver *collaboration.Resolver
}

func NewService(repo Repository, resolver *collaboration.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// Register creates the client record for (owner, email) if it does not
// exist yet. Re-registering an existing pair is a no-op success returning
// the stored record, never a duplicate.
func (s *Service) Register(ctx context.Context, actorID, pageID string, input RegisterInput) (*Client, error) {
	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageClients() {
		return nil, collaboration.Denied("clients")
	}

	return s.register(ctx, access.OwnerID, input)
}

// RegisterForOwner is the trusted entry point used by the appointment
// side-channel, where the permission check already happened against the
// appointment's page.
func (s *Service) RegisterForOwner(ctx context.Context, ownerID string, input RegisterInput) (*Client, error) {
	return s.register(ctx, ownerID, input)
}

func (s *Service) register(ctx context.Context, ownerID string, input RegisterInput) (*Client, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}

	record := Client{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Email:   email,
		Name:    name,
		Phone:   strings.TrimSpace(input.Phone),
		Status:  StatusActive,
	}

	inserted, err := s.repo.Create(ctx, &record)
	if err != nil {
		return nil, err
	}
	if inserted {
		return &record, nil
	}

	// Lost to an earlier registration; the existing row wins.
	return s.repo.GetByEmail(ctx, ownerID, email)
}

func (s *Service) Get(ctx context.Context, actorID, pageID, clientID string) (*Client, error) {
	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageClients() {
		return nil, collaboration.Denied("clients")
	}

	return s.repo.GetByID(ctx, access.OwnerID, clientID)
}

func (s *Service) List(ctx context.Context, actorID, pageID string) ([]Client, error) {
	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageClients() {
		return nil, collaboration.Denied("clients")
	}

	return s.repo.List(ctx, access.OwnerID)
}

// SetStatus toggles ativo/inativo. Clients are historical records and are
// never deleted.
func (s *Service) SetStatus(ctx context.Context, actorID, pageID, clientID, status string) (*Client, error) {
	if status != StatusActive && status != StatusInactive {
		return nil, ErrInvalidStatus
	}

	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !access.CanManageClients() {
		return nil, collaboration.Denied("clients")
	}

	record, err := s.repo.GetByID(ctx, access.OwnerID, clientID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, access.OwnerID, clientID, status); err != nil {
		return nil, err
	}

	record.Status = status
	return record, nil
}

// RefreshAggregates recomputes the derived totals from appointment history
// and persists them. It is the only writer of those fields.
func (s *Service) RefreshAggregates(ctx context.Context, ownerID, email string) error {
	record, err := s.repo.GetByEmail(ctx, ownerID, email)
	if err != nil {
		return err
	}

	aggregates, err := s.repo.AggregatesFromAppointments(ctx, ownerID, record.Email)
	if err != nil {
		return err
	}

	return s.repo.UpdateAggregates(ctx, record.ID, aggregates)
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}
