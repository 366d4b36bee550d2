// Package postgres contains GORM-backed billing repositories
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/getaipilot/joincounter/internal/domain/billing/deps"
	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) deps.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetByUser returns the user's subscription row
func (r *subscriptionRepository) GetByUser(ctx context.Context, userID int64) (*entities.Subscription, error) {
	var sub entities.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billingerrors.ErrNoSubscription
		}
		return nil, err
	}
	return &sub, nil
}

// Upsert creates or replaces the user's single subscription row
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *entities.Subscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"plan", "expires_at"}),
		}).
		Create(sub).Error
}
