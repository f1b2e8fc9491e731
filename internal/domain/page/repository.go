package page

import "context"

type Repository interface {
	GetByID(ctx context.Context, pageID string) (*Page, error)
	GetBySlug(ctx context.Context, slug string) (*Page, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Page, error)
	Create(ctx context.Context, page *Page) error
	Update(ctx context.Context, page *Page) error
	SetActive(ctx context.Context, pageID string, active bool) error
	IsSlugTaken(ctx context.Context, slug string) (bool, error)
}
