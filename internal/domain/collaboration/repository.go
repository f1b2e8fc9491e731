package collaboration

import "context"

// PageRef is the slice of the page record the resolver needs.
type PageRef struct {
	ID      string
	OwnerID string
	Name    string
	Active  bool
}

type Repository interface {
	// GetPage returns (nil, nil) when the page does not exist, so the
	// resolver can fail closed without inventing an error.
	GetPage(ctx context.Context, pageID string) (*PageRef, error)
	Get(ctx context.Context, pageID, collaboratorID string) (*Collaboration, error)
	GetByID(ctx context.Context, collaborationID string) (*Collaboration, error)
	ListByPage(ctx context.Context, pageID string) ([]Collaboration, error)
	ListByCollaborator(ctx context.Context, collaboratorID string) ([]Collaboration, error)
	Create(ctx context.Context, collaboration *Collaboration) error
	UpdateRole(ctx context.Context, collaborationID string, role Role) error
	Delete(ctx context.Context, collaborationID string) error
	ListOwnedPages(ctx context.Context, ownerID string) ([]PageRef, error)
	ListPagesByCollaboratorRoles(ctx context.Context, collaboratorID string, roles []Role) ([]PageRef, error)
}
