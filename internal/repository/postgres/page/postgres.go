package page

import (
	"context"
	"errors"

	appdb "lawpages-go/internal/db"
	pagedomain "lawpages-go/internal/domain/page"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, pageID string) (*pagedomain.Page, error) {
	var page pagedomain.Page
	if err := r.db.WithContext(ctx).Where("id = ?", pageID).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pagedomain.ErrPageNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &page, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*pagedomain.Page, error) {
	var page pagedomain.Page
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pagedomain.ErrPageNotFound
		}
		return nil, appdb.Classify(err)
	}
	return &page, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]pagedomain.Page, error) {
	var pages []pagedomain.Page
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&pages).Error; err != nil {
		return nil, appdb.Classify(err)
	}
	return pages, nil
}

func (r *PostgresRepository) Create(ctx context.Context, page *pagedomain.Page) error {
	return appdb.Classify(r.db.WithContext(ctx).Create(page).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, page *pagedomain.Page) error {
	return appdb.Classify(r.db.WithContext(ctx).Save(page).Error)
}

func (r *PostgresRepository) SetActive(ctx context.Context, pageID string, active bool) error {
	return appdb.Classify(r.db.WithContext(ctx).
		Model(&pagedomain.Page{}).
		Where("id = ?", pageID).
		Update("active", active).Error)
}

func (r *PostgresRepository) IsSlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pagedomain.Page{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, appdb.Classify(err)
	}
	return count > 0, nil
}
