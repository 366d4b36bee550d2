// Package deps defines the interfaces the billing domain depends on
package deps

import (
	"context"
	"time"

	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
)

// SubscriptionRepository persists user entitlements
type SubscriptionRepository interface {
	GetByUser(ctx context.Context, userID int64) (*entities.Subscription, error)
	// Upsert creates or replaces the user's single subscription row.
	Upsert(ctx context.Context, sub *entities.Subscription) error
}

// PaymentLinkRepository persists gateway checkout links
type PaymentLinkRepository interface {
	Save(ctx context.Context, link *entities.PaymentLink) error
	// LatestPending returns the newest link for the user still awaiting payment.
	LatestPending(ctx context.Context, userID int64) (*entities.PaymentLink, error)
	UpdateStatus(ctx context.Context, providerID, status string) error
}

// GatewayLink is a checkout link issued by the payment gateway
type GatewayLink struct {
	ProviderID string
	ShortURL   string
}

// PaymentGateway creates checkout links and reports their payment state
type PaymentGateway interface {
	CreateLink(ctx context.Context, userID int64, plan entities.Plan) (*GatewayLink, error)
	// FetchStatus returns the gateway-side status of a previously created link.
	FetchStatus(ctx context.Context, providerID string) (string, error)
}

// SubscriptionEvent announces an entitlement change to sibling services
type SubscriptionEvent struct {
	UserID    int64     `json:"user_id"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
	PaidAt    time.Time `json:"paid_at"`
}

// EventProducer publishes subscription events
type EventProducer interface {
	SendSubscriptionActivated(ctx context.Context, event *SubscriptionEvent) error
}
