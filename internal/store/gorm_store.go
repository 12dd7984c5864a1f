package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/card-ledger/backend/internal/models"
)

// GormStore is the primary Store implementation, backed by a gorm-managed
// SQLite database. It supports per-row addressing, so the incremental
// reconciler can use it directly.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) SelectAll(ctx context.Context) ([]models.Record, error) {
	var recs []models.Record
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return recs, nil
}

func (s *GormStore) Insert(ctx context.Context, rec models.Record) error {
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert id %d: %w", rec.ID, err)
	}
	return nil
}

func (s *GormStore) InsertBatch(ctx context.Context, recs []models.Record) error {
	if len(recs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&recs).Error; err != nil {
		return fmt.Errorf("insert batch of %d: %w", len(recs), err)
	}
	return nil
}

// UpsertBatch applies insert-or-replace semantics keyed on id. Replaying
// the same batch leaves the table unchanged.
func (s *GormStore) UpsertBatch(ctx context.Context, recs []models.Record) error {
	if len(recs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&recs).Error
	if err != nil {
		return fmt.Errorf("upsert batch of %d: %w", len(recs), err)
	}
	return nil
}

func (s *GormStore) DeleteByKeys(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&models.Record{}, ids).Error; err != nil {
		return fmt.Errorf("delete %d keys: %w", len(ids), err)
	}
	return nil
}

func (s *GormStore) DeleteAll(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.Record{}).Error; err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}

func (s *GormStore) SupportsRowAddressing() bool {
	return true
}
