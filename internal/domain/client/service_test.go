package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"lawpages-go/internal/domain/collaboration"
)

const (
	ownerID    = "11111111-1111-1111-1111-111111111111"
	pageID     = "22222222-2222-2222-2222-222222222222"
	internID   = "33333333-3333-3333-3333-333333333333"
	financeID  = "44444444-4444-4444-4444-444444444444"
	strangerID = "55555555-5555-5555-5555-555555555555"
)

type fakeAccessRepo struct {
	pages map[string]*collaboration.PageRef
	roles map[string]collaboration.Role
}

func newFakeAccessRepo() *fakeAccessRepo {
	return &fakeAccessRepo{
		pages: map[string]*collaboration.PageRef{
			pageID: {ID: pageID, OwnerID: ownerID, Name: "Silva Advocacia", Active: true},
		},
		roles: map[string]collaboration.Role{
			internID:  collaboration.RoleIntern,
			financeID: collaboration.RoleFinancial,
		},
	}
}

func (r *fakeAccessRepo) GetPage(ctx context.Context, id string) (*collaboration.PageRef, error) {
	return r.pages[id], nil
}

func (r *fakeAccessRepo) Get(ctx context.Context, pageID, collaboratorID string) (*collaboration.Collaboration, error) {
	role, ok := r.roles[collaboratorID]
	if !ok {
		return nil, collaboration.ErrCollaborationNotFound
	}
	return &collaboration.Collaboration{PageID: pageID, CollaboratorID: collaboratorID, Role: role}, nil
}

func (r *fakeAccessRepo) GetByID(ctx context.Context, collaborationID string) (*collaboration.Collaboration, error) {
	return nil, collaboration.ErrCollaborationNotFound
}

func (r *fakeAccessRepo) ListByPage(ctx context.Context, pageID string) ([]collaboration.Collaboration, error) {
	return nil, nil
}

func (r *fakeAccessRepo) ListByCollaborator(ctx context.Context, collaboratorID string) ([]collaboration.Collaboration, error) {
	return nil, nil
}

func (r *fakeAccessRepo) Create(ctx context.Context, collab *collaboration.Collaboration) error {
	return nil
}

func (r *fakeAccessRepo) UpdateRole(ctx context.Context, collaborationID string, role collaboration.Role) error {
	return nil
}

func (r *fakeAccessRepo) Delete(ctx context.Context, collaborationID string) error {
	return nil
}

func (r *fakeAccessRepo) ListOwnedPages(ctx context.Context, ownerID string) ([]collaboration.PageRef, error) {
	return nil, nil
}

func (r *fakeAccessRepo) ListPagesByCollaboratorRoles(ctx context.Context, collaboratorID string, roles []collaboration.Role) ([]collaboration.PageRef, error) {
	return nil, nil
}

type fakeClientRepo struct {
	clients    map[string]*Client
	aggregates map[string]Aggregates
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		clients:    make(map[string]*Client),
		aggregates: make(map[string]Aggregates),
	}
}

func (r *fakeClientRepo) GetByID(ctx context.Context, ownerID, clientID string) (*Client, error) {
	record, ok := r.clients[clientID]
	if !ok || record.OwnerID != ownerID {
		return nil, ErrClientNotFound
	}
	return record, nil
}

func (r *fakeClientRepo) GetByEmail(ctx context.Context, ownerID, email string) (*Client, error) {
	for _, record := range r.clients {
		if record.OwnerID == ownerID && record.Email == email {
			return record, nil
		}
	}
	return nil, ErrClientNotFound
}

func (r *fakeClientRepo) List(ctx context.Context, ownerID string) ([]Client, error) {
	result := make([]Client, 0)
	for _, record := range r.clients {
		if record.OwnerID == ownerID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (r *fakeClientRepo) Create(ctx context.Context, client *Client) (bool, error) {
	for _, record := range r.clients {
		if record.OwnerID == client.OwnerID && record.Email == client.Email {
			return false, nil
		}
	}
	copied := *client
	r.clients[client.ID] = &copied
	return true, nil
}

func (r *fakeClientRepo) UpdateStatus(ctx context.Context, ownerID, clientID, status string) error {
	record, ok := r.clients[clientID]
	if !ok || record.OwnerID != ownerID {
		return ErrClientNotFound
	}
	record.Status = status
	return nil
}

func (r *fakeClientRepo) UpdateAggregates(ctx context.Context, clientID string, aggregates Aggregates) error {
	record, ok := r.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}
	record.TotalAppointments = aggregates.TotalAppointments
	record.TotalSpent = aggregates.TotalSpent
	record.LastContact = aggregates.LastContact
	return nil
}

func (r *fakeClientRepo) AggregatesFromAppointments(ctx context.Context, ownerID, email string) (Aggregates, error) {
	return r.aggregates[ownerID+"/"+email], nil
}

func newTestService(repo *fakeClientRepo) *Service {
	return NewService(repo, collaboration.NewResolver(newFakeAccessRepo()))
}

func TestRegisterCreatesClient(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestService(repo)

	record, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{
		Email: "  Maria@Example.COM ",
		Name:  " Maria Souza ",
		Phone: "+55 11 99999-0000",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.Email != "maria@example.com" {
		t.Fatalf("expected normalized email, got %q", record.Email)
	}
	if record.Name != "Maria Souza" || record.Status != StatusActive {
		t.Fatalf("unexpected record %+v", record)
	}
	if repo.clients[record.ID] == nil {
		t.Fatalf("client not stored")
	}
}

func TestRegisterDuplicateReturnsExisting(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestService(repo)

	first, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: "maria@example.com", Name: "Maria"})
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	second, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: "MARIA@example.com", Name: "Maria S."})
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected existing record, got new id %q", second.ID)
	}
	if len(repo.clients) != 1 {
		t.Fatalf("expected 1 client, got %d", len(repo.clients))
	}
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc := newTestService(newFakeClientRepo())

	for _, email := range []string{"", "maria", "maria@", "@example.com", "maria@example"} {
		_, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: email, Name: "Maria"})
		if !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("email %q: expected ErrInvalidEmail, got %v", email, err)
		}
	}
}

func TestRegisterNameRequired(t *testing.T) {
	svc := newTestService(newFakeClientRepo())

	_, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: "maria@example.com", Name: "  "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRegisterPermission(t *testing.T) {
	svc := newTestService(newFakeClientRepo())

	// Intern holds the clients permission, financial role does not.
	if _, err := svc.Register(context.Background(), internID, pageID, RegisterInput{Email: "maria@example.com", Name: "Maria"}); err != nil {
		t.Fatalf("expected intern to register, got %v", err)
	}
	if _, err := svc.Register(context.Background(), financeID, pageID, RegisterInput{Email: "ana@example.com", Name: "Ana"}); !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected denial for financial role, got %v", err)
	}
	if _, err := svc.Register(context.Background(), strangerID, pageID, RegisterInput{Email: "ana@example.com", Name: "Ana"}); !errors.Is(err, collaboration.ErrPermissionDenied) {
		t.Fatalf("expected denial for outsider, got %v", err)
	}
}

func TestSetStatusValidatesValue(t *testing.T) {
	svc := newTestService(newFakeClientRepo())

	_, err := svc.SetStatus(context.Background(), ownerID, pageID, "client-1", "arquivado")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestSetStatusUpdates(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestService(repo)

	record, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: "maria@example.com", Name: "Maria"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.SetStatus(context.Background(), ownerID, pageID, record.ID, StatusInactive)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != StatusInactive {
		t.Fatalf("expected inativo, got %q", updated.Status)
	}
	if repo.clients[record.ID].Status != StatusInactive {
		t.Fatalf("status not persisted")
	}
}

func TestRefreshAggregates(t *testing.T) {
	repo := newFakeClientRepo()
	svc := newTestService(repo)

	record, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: "maria@example.com", Name: "Maria"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	last := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	repo.aggregates[ownerID+"/maria@example.com"] = Aggregates{
		TotalAppointments: 3,
		TotalSpent:        450.00,
		LastContact:       &last,
	}

	if err := svc.RefreshAggregates(context.Background(), ownerID, "maria@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored := repo.clients[record.ID]
	if stored.TotalAppointments != 3 || stored.TotalSpent != 450.00 {
		t.Fatalf("aggregates not persisted: %+v", stored)
	}
	if stored.LastContact == nil || !stored.LastContact.Equal(last) {
		t.Fatalf("last contact not persisted: %+v", stored.LastContact)
	}
}

func TestListScopedToOwner(t *testing.T) {
	repo := newFakeClientRepo()
	repo.clients["other"] = &Client{ID: "other", OwnerID: strangerID, Email: "x@example.com", Name: "X"}
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), ownerID, pageID, RegisterInput{Email: "maria@example.com", Name: "Maria"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	items, err := svc.List(context.Background(), ownerID, pageID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].Email != "maria@example.com" {
		t.Fatalf("expected only the owner's client, got %+v", items)
	}
}
