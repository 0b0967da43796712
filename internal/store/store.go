package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"proffy-mobile/internal/model"
)

// Store is the device-local key-value store. Values are opaque strings and
// every call is atomic on its own; there are no multi-key transactions.
type Store interface {
	// Get returns ok=false with a nil error when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func keyEq(key string) clause.Eq {
	return clause.Eq{Column: "key", Value: key}
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var kv model.KeyValue
	err := s.db.WithContext(ctx).Where(keyEq(key)).First(&kv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return kv.Value, true, nil
}

// Set upserts the row for key.
func (s *gormStore) Set(ctx context.Context, key, value string) error {
	kv := model.KeyValue{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *gormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where(keyEq(key)).Delete(&model.KeyValue{}).Error; err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}
