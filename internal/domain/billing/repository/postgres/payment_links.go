package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/getaipilot/joincounter/internal/domain/billing/deps"
	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
)

type paymentLinkRepository struct {
	db *gorm.DB
}

// NewPaymentLinkRepository creates a new payment link repository
func NewPaymentLinkRepository(db *gorm.DB) deps.PaymentLinkRepository {
	return &paymentLinkRepository{db: db}
}

// Save stores a freshly issued checkout link
func (r *paymentLinkRepository) Save(ctx context.Context, link *entities.PaymentLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

// LatestPending returns the newest link for the user still awaiting payment
func (r *paymentLinkRepository) LatestPending(ctx context.Context, userID int64) (*entities.PaymentLink, error) {
	var link entities.PaymentLink
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, entities.PaymentStatusCreated).
		Order("created_at DESC").
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billingerrors.ErrNoPaymentLink
		}
		return nil, err
	}
	return &link, nil
}

// UpdateStatus records the gateway-side status for a link
func (r *paymentLinkRepository) UpdateStatus(ctx context.Context, providerID, status string) error {
	return r.db.WithContext(ctx).
		Model(&entities.PaymentLink{}).
		Where("provider_id = ?", providerID).
		Update("status", status).Error
}
