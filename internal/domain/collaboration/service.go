package collaboration

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	resolver *Resolver
}

func NewService(repo Repository, resolver *Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Grant adds a collaborator with a fixed role. Only the page owner may
// invite, and the owner cannot collaborate on their own page.
func (s *Service) Grant(ctx context.Context, actorID, pageID, collaboratorID string, role Role) (*Collaboration, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !access.CanInvite() {
		return nil, Denied("invite")
	}

	page, err := s.repo.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, Denied("invite")
	}
	if collaboratorID == page.OwnerID {
		return nil, ErrOwnerCollaboration
	}

	if _, err := s.repo.Get(ctx, pageID, collaboratorID); err == nil {
		return nil, ErrAlreadyCollaborator
	} else if !errors.Is(err, ErrCollaborationNotFound) {
		return nil, err
	}

	collab := Collaboration{
		ID:             uuid.NewString(),
		PageID:         pageID,
		OwnerID:        page.OwnerID,
		CollaboratorID: collaboratorID,
		Role:           role,
	}
	if err := s.repo.Create(ctx, &collab); err != nil {
		return nil, err
	}

	return &collab, nil
}

func (s *Service) ChangeRole(ctx context.Context, actorID, collaborationID string, role Role) (*Collaboration, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	collab, err := s.repo.GetByID(ctx, collaborationID)
	if err != nil {
		return nil, err
	}

	access, err := s.resolver.Resolve(ctx, actorID, collab.PageID)
	if err != nil {
		return nil, err
	}
	if !access.CanInvite() {
		return nil, Denied("invite")
	}

	if err := s.repo.UpdateRole(ctx, collab.ID, role); err != nil {
		return nil, err
	}

	collab.Role = role
	return collab, nil
}

// Revoke removes a collaboration. The owner may revoke anyone; a
// collaborator may remove themselves.
func (s *Service) Revoke(ctx context.Context, actorID, collaborationID string) error {
	collab, err := s.repo.GetByID(ctx, collaborationID)
	if err != nil {
		return err
	}

	if actorID != collab.CollaboratorID {
		access, err := s.resolver.Resolve(ctx, actorID, collab.PageID)
		if err != nil {
			return err
		}
		if !access.CanInvite() {
			return Denied("invite")
		}
	}

	return s.repo.Delete(ctx, collab.ID)
}

// ListByPage is visible to the owner and to anyone collaborating on the
// page; outsiders are denied rather than shown an empty list.
func (s *Service) ListByPage(ctx context.Context, actorID, pageID string) ([]Collaboration, error) {
	access, err := s.resolver.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner && access.Role == "" {
		return nil, Denied("collaborations")
	}

	return s.repo.ListByPage(ctx, pageID)
}

func (s *Service) ListByCollaborator(ctx context.Context, actorID string) ([]Collaboration, error) {
	return s.repo.ListByCollaborator(ctx, actorID)
}
