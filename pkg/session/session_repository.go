package session

import (
	"Invoice-Capture/entities"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	KeyUsername     = "username"
	KeyToken        = "token"
	KeyRestaurantID = "restaurant_id"

	// keyLegacyPassword held the plaintext password in older installs.
	// It is never written, only removed.
	keyLegacyPassword = "password"
)

type (
	SessionRepository interface {
		Get(ctx context.Context, key string) (string, bool, error)
		Set(ctx context.Context, key, value string) error
		Delete(ctx context.Context, keys ...string) error
	}

	sessionRepository struct {
		db *gorm.DB
	}
)

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var pref entities.Preference
	if err := r.db.WithContext(ctx).Where("pref_key = ?", key).First(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return pref.Value, true, nil
}

func (r *sessionRepository) Set(ctx context.Context, key, value string) error {
	pref := entities.Preference{Key: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}

func (r *sessionRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Unscoped().Where("pref_key IN ?", keys).Delete(&entities.Preference{}).Error
}
