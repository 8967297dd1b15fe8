package services

import (
	"context"
	"time"

	"github.com/djdreamfix/Code-Companion/models"

	"gorm.io/gorm"
)

type MarkStore struct {
	db *gorm.DB
}

func NewMarkStore(db *gorm.DB) *MarkStore {
	return &MarkStore{db: db}
}

// ListLive returns every mark that has not yet expired. Order is whatever
// the database gives back; clients must not depend on it.
func (s *MarkStore) ListLive(ctx context.Context) ([]models.Mark, error) {
	var marks []models.Mark
	err := s.db.WithContext(ctx).
		Where("expires_at > ?", time.Now().UTC()).
		Find(&marks).Error
	return marks, err
}

func (s *MarkStore) Insert(ctx context.Context, m *models.Mark) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// DeleteExpired removes every mark with expires_at <= now (boundary
// inclusive) and returns the deleted ids. The select and delete run in one
// transaction over a fixed id set, so a mark inserted mid-sweep with a
// future expiry can never be caught by it.
func (s *MarkStore) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Mark{}).
			Where("expires_at <= ?", now).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		return tx.Where("id IN ?", ids).Delete(&models.Mark{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
