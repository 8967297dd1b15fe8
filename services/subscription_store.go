package services

import (
	"context"

	"github.com/djdreamfix/Code-Companion/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) List(ctx context.Context) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := s.db.WithContext(ctx).Find(&subs).Error
	return subs, err
}

// Insert stores a subscription. Re-subscribing with an endpoint that is
// already on file is a no-op, so browsers that post their subscription on
// every page load never pile up duplicate rows.
func (s *SubscriptionStore) Insert(ctx context.Context, sub *models.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoNothing: true,
	}).Create(sub).Error
}

// DeleteByEndpoint removes any row for the endpoint. Deleting an endpoint
// that is not on file is not an error.
func (s *SubscriptionStore) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&models.PushSubscription{}).Error
}
