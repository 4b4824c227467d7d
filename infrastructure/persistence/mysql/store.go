package mysql

import (
	"context"
	"errors"
	"fmt"

	"scanorder/infrastructure/persistence"
	"scanorder/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps every key in one kv_entries row, written with an upsert
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&po.KVEntryPO{}); err != nil {
		return fmt.Errorf("mysql: migrate kv_entries: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var entry po.KVEntryPO
	err := s.db.WithContext(ctx).Where("`key` = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", persistence.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("mysql: get %q: %w", key, err)
	}
	return entry.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	entry := po.KVEntryPO{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(upsertOnKey()).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("mysql: set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("`key` = ?", key).Delete(&po.KVEntryPO{}).Error; err != nil {
		return fmt.Errorf("mysql: delete %q: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// upsertOnKey last writer wins: a second write to a key replaces its value
func upsertOnKey() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}
}

var _ persistence.Store = (*Store)(nil)
