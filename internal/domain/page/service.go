package page

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func (s *Service) Create(ctx context.Context, input CreatePageInput) (*Page, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}

	kind := strings.TrimSpace(input.Kind)
	if kind != KindIndividual && kind != KindFirm {
		return nil, validationf("kind must be %q or %q", KindIndividual, KindFirm)
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugRegex.MatchString(slug) {
		return nil, validationf("slug must be lowercase letters, digits and dashes")
	}

	taken, err := s.repo.IsSlugTaken(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	page := Page{
		ID:      uuid.NewString(),
		OwnerID: input.OwnerID,
		Name:    name,
		Slug:    slug,
		Kind:    kind,
		OAB:     strings.TrimSpace(input.OAB),
		Phone:   strings.TrimSpace(input.Phone),
		Active:  true,
	}
	if err := s.repo.Create(ctx, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (s *Service) Get(ctx context.Context, pageID string) (*Page, error) {
	return s.repo.GetByID(ctx, pageID)
}

// GetBySlug serves the public profile lookup; inactive pages resolve as
// not found.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Page, error) {
	page, err := s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !page.Active {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Page, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, actorID, pageID string, input UpdatePageInput) (*Page, error) {
	page, err := s.requireOwner(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationf("name is required")
	}

	page.Name = name
	page.OAB = strings.TrimSpace(input.OAB)
	page.Phone = strings.TrimSpace(input.Phone)

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// Deactivate is the only removal a page gets: appointments keep referencing
// it, so it is never hard-deleted.
func (s *Service) Deactivate(ctx context.Context, actorID, pageID string) error {
	if _, err := s.requireOwner(ctx, actorID, pageID); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, pageID, false)
}

func (s *Service) Reactivate(ctx context.Context, actorID, pageID string) error {
	if _, err := s.requireOwner(ctx, actorID, pageID); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, pageID, true)
}

func (s *Service) requireOwner(ctx context.Context, actorID, pageID string) (*Page, error) {
	page, err := s.repo.GetByID(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page.OwnerID != actorID {
		return nil, ErrNotOwner
	}
	return page, nil
}
