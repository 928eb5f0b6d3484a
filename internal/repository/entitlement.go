package repository

import (
	"context"
	"time"

	"valentine-pages/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntitlementRepository interface {
	CreatePending(ctx context.Context, sessionID, plan string) error
	ApplyOutcome(ctx context.Context, entitlement *model.Entitlement) (bool, error)
	FindActive(ctx context.Context, sessionID string) (*model.Entitlement, error)
	FindBySessionID(ctx context.Context, sessionID string) (*model.Entitlement, error)
}

type entitlementRepoImpl struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepoImpl{
		db: db,
	}
}

// CreatePending records a checkout attempt. An existing row (for example one
// the webhook already activated) is left untouched.
func (r *entitlementRepoImpl) CreatePending(ctx context.Context, sessionID, plan string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&model.Entitlement{
		SessionID: sessionID,
		Plan:      plan,
		Status:    model.EntitlementPending,
	}).Error
}

// ApplyOutcome upserts the entitlement keyed by session id. Active is
// terminal: a later outcome never moves an active row. The returned bool
// reports whether a row was inserted or changed.
func (r *entitlementRepoImpl) ApplyOutcome(ctx context.Context, entitlement *model.Entitlement) (bool, error) {
	inserted := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(entitlement)
	if inserted.Error != nil {
		return false, inserted.Error
	}
	if inserted.RowsAffected > 0 {
		return true, nil
	}

	updates := map[string]interface{}{
		"plan":       entitlement.Plan,
		"status":     entitlement.Status,
		"updated_at": time.Now(),
	}
	if entitlement.CustomerEmail != nil {
		updates["customer_email"] = entitlement.CustomerEmail
	}

	result := r.db.WithContext(ctx).
		Model(&model.Entitlement{}).
		Where("session_id = ?", entitlement.SessionID).
		Where("status <> ?", model.EntitlementActive).
		Where("NOT (status = ? AND plan = ?)", entitlement.Status, entitlement.Plan).
		Updates(updates)

	return result.RowsAffected > 0, result.Error
}

func (r *entitlementRepoImpl) FindActive(ctx context.Context, sessionID string) (*model.Entitlement, error) {
	var entitlement model.Entitlement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("status = ?", model.EntitlementActive).
		First(&entitlement).Error
	if err != nil {
		return nil, err
	}

	return &entitlement, nil
}

func (r *entitlementRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Entitlement, error) {
	var entitlement model.Entitlement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&entitlement).Error
	if err != nil {
		return nil, err
	}

	return &entitlement, nil
}
