package repository

import (
	"context"
	"errors"
	"time"

	"valentine-pages/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceCountRepository interface {
	Get(ctx context.Context, deviceID string) (int64, error)
	// Reserve takes one publish slot for deviceID if fewer than limit are
	// used. The check and the increment are a single statement.
	Reserve(ctx context.Context, deviceID string, limit int64) (bool, error)
	Release(ctx context.Context, deviceID string) error
}

type deviceCountRepoImpl struct {
	db *gorm.DB
}

func NewDeviceCountRepository(db *gorm.DB) DeviceCountRepository {
	return &deviceCountRepoImpl{
		db: db,
	}
}

func (r *deviceCountRepoImpl) Get(ctx context.Context, deviceID string) (int64, error) {
	var count model.DevicePublishCount
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		First(&count).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return count.Published, nil
}

func (r *deviceCountRepoImpl) Reserve(ctx context.Context, deviceID string, limit int64) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	reserved, err := r.incrementBelow(ctx, deviceID, limit)
	if err != nil || reserved {
		return reserved, err
	}

	// first publish from this device
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.DevicePublishCount{
			DeviceID:  deviceID,
			Published: 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	// lost the insert to a concurrent first publish
	return r.incrementBelow(ctx, deviceID, limit)
}

func (r *deviceCountRepoImpl) incrementBelow(ctx context.Context, deviceID string, limit int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.DevicePublishCount{}).
		Where("device_id = ? AND published < ?", deviceID, limit).
		Updates(map[string]interface{}{
			"published":  gorm.Expr("published + ?", 1),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *deviceCountRepoImpl) Release(ctx context.Context, deviceID string) error {
	return r.db.WithContext(ctx).
		Model(&model.DevicePublishCount{}).
		Where("device_id = ? AND published > 0", deviceID).
		Updates(map[string]interface{}{
			"published":  gorm.Expr("published - ?", 1),
			"updated_at": time.Now(),
		}).Error
}
