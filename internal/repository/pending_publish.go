package repository

import (
	"context"

	"valentine-pages/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PendingPublishRepository interface {
	Create(ctx context.Context, pending *model.PendingPublish) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.PendingPublish, error)
	Delete(ctx context.Context, sessionID string) error
}

type pendingPublishRepoImpl struct {
	db *gorm.DB
}

func NewPendingPublishRepository(db *gorm.DB) PendingPublishRepository {
	return &pendingPublishRepoImpl{
		db: db,
	}
}

// Create keeps the first draft stored for a session.
func (r *pendingPublishRepoImpl) Create(ctx context.Context, pending *model.PendingPublish) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(pending).Error
}

func (r *pendingPublishRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.PendingPublish, error) {
	var pending model.PendingPublish
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&pending).Error
	if err != nil {
		return nil, err
	}

	return &pending, nil
}

func (r *pendingPublishRepoImpl) Delete(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.PendingPublish{}).Error
}
