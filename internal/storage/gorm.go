package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodsaver/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Slot is the single-table GORM model backing GormStore.
type Slot struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// OpenDB opens a GORM connection for the given DSN. Postgres DSNs
// (postgres:// URLs or key=value strings containing "host=") use the
// postgres driver; everything else is treated as a sqlite file path.
func OpenDB(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open(dsn), cfg)
}

// GormStore persists slots in a single key/value table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the slots table and returns the store.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// Get returns the slot contents or ErrSlotNotFound.
func (s *GormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var slot Slot
	err := s.db.WithContext(ctx).First(&slot, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		observability.StorageErrorRate.WithLabelValues("gorm", "get").Inc()
		return nil, err
	}
	return slot.Value, nil
}

// Set upserts the slot contents.
func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	slot := Slot{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		observability.StorageErrorRate.WithLabelValues("gorm", "set").Inc()
	}
	return err
}

// Delete removes the slot.
func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&Slot{}, "key = ?", key).Error
	if err != nil {
		observability.StorageErrorRate.WithLabelValues("gorm", "delete").Inc()
	}
	return err
}
