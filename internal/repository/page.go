package repository

import (
	"context"

	"valentine-pages/internal/model"

	"gorm.io/gorm"
)

type PageRepository interface {
	Create(ctx context.Context, page *model.Page) error
	FindBySlug(ctx context.Context, slug string) (*model.Page, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Page, error)
}

type pageRepoImpl struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) PageRepository {
	return &pageRepoImpl{
		db: db,
	}
}

// Create inserts the page. A taken slug or session back-reference is
// reported as gorm.ErrDuplicatedKey.
func (r *pageRepoImpl) Create(ctx context.Context, page *model.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *pageRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Page, error) {
	var page model.Page
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Where("status = ?", model.PagePublished).
		First(&page).Error
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (r *pageRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Page, error) {
	var page model.Page
	err := r.db.WithContext(ctx).
		Where("entitlement_session_id = ?", sessionID).
		First(&page).Error
	if err != nil {
		return nil, err
	}

	return &page, nil
}
