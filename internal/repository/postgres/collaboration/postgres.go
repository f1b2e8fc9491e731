package collaboration

import (
	"context"
	"errors"

	appdb "lawpages-go/internal/db"
	collabdomain "lawpages-go/internal/domain/collaboration"
	pagedomain "lawpages-go/internal/domain/page"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetPage(ctx context.Context, pageID string) (*collabdomain.PageRef, error) {
	var page pagedomain.Page
	if err := r.db.WithContext(ctx).Where("id = ?", pageID).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appdb.Classify(err)
	}
	return &collabdomain.PageRef{ID: page.ID, OwnerID: page.OwnerID, Name: page.Name, Active: page.Active}, nil
}

func (r *PostgresRepository) Get(ctx context.Context, pageID, collaboratorID string) (*collabdomain.Collaboration, error) {
	var collab collabdomain.Collaboration
	if err := r.db.WithContext(ctx).
		Where("page_id = ? AND collaborator_id = ?", pageID, collaboratorID).
		First(&collab).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, collabdomain.ErrCollaborationNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &collab, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, collaborationID string) (*collabdomain.Collaboration, error) {
	var collab collabdomain.Collaboration
	if err := r.db.WithContext(ctx).Where("id = ?", collaborationID).First(&collab).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, collabdomain.ErrCollaborationNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &collab, nil
}

func (r *PostgresRepository) ListByPage(ctx context.Context, pageID string) ([]collabdomain.Collaboration, error) {
	var collabs []collabdomain.Collaboration
	if err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("created_at asc").
		Find(&collabs).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return collabs, nil
}

func (r *PostgresRepository) ListByCollaborator(ctx context.Context, collaboratorID string) ([]collabdomain.Collaboration, error) {
	var collabs []collabdomain.Collaboration
	if err := r.db.WithContext(ctx).
		Where("collaborator_id = ?", collaboratorID).
		Order("created_at asc").
		Find(&collabs).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return collabs, nil
}

func (r *PostgresRepository) Create(ctx context.Context, collab *collabdomain.Collaboration) error {
	return appdb.Classify(r.db.WithContext(ctx).Create(collab).Error)
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, collaborationID string, role collabdomain.Role) error {
	return appdb.Classify(r.db.WithContext(ctx).
		Model(&collabdomain.Collaboration{}).
		Where("id = ?", collaborationID).
		Update("role", role).Error)
}

func (r *PostgresRepository) Delete(ctx context.Context, collaborationID string) error {
	return appdb.Classify(r.db.WithContext(ctx).
		Delete(&collabdomain.Collaboration{}, "id = ?", collaborationID).Error)
}

func (r *PostgresRepository) ListOwnedPages(ctx context.Context, ownerID string) ([]collabdomain.PageRef, error) {
	var pages []pagedomain.Page
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND active = true", ownerID).
		Find(&pages).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return toPageRefs(pages), nil
}

func (r *PostgresRepository) ListPagesByCollaboratorRoles(ctx context.Context, collaboratorID string, roles []collabdomain.Role) ([]collabdomain.PageRef, error) {
	var pages []pagedomain.Page
	if err := r.db.WithContext(ctx).
		Table("pages").
		Joins("join collaborations on collaborations.page_id = pages.id").
		Where("collaborations.collaborator_id = ? AND collaborations.role IN ? AND pages.active = true", collaboratorID, roles).
		Find(&pages).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return toPageRefs(pages), nil
}

func toPageRefs(pages []pagedomain.Page) []collabdomain.PageRef {
	refs := make([]collabdomain.PageRef, 0, len(pages))
	for _, page := range pages {
		refs = append(refs, collabdomain.PageRef{
			ID:      page.ID,
			OwnerID: page.OwnerID,
			Name:    page.Name,
			Active:  page.Active,
		})
	}
	return refs
}
