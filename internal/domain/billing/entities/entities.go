// Package entities contains billing domain models
package entities

import "time"

// PlanID identifies a purchasable subscription plan
type PlanID string

const (
	PlanBasic   PlanID = "basic"
	PlanPro     PlanID = "pro"
	PlanPremium PlanID = "premium"
)

// Plan describes a purchasable subscription tier
type Plan struct {
	ID         PlanID
	Title      string
	PricePaise int64
	Days       int
}

// Subscription is a user's paid entitlement window
type Subscription struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"uniqueIndex;not null"`
	Plan      string    `gorm:"size:32;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// ActiveAt reports whether the entitlement covers the given instant
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// PaymentLink payment statuses as reported by the gateway
const (
	PaymentStatusCreated   = "created"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusExpired   = "expired"
)

// PaymentLink is a gateway checkout link issued for one purchase attempt
type PaymentLink struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	UserID      int64     `gorm:"index;not null"`
	Plan        string    `gorm:"size:32;not null"`
	ProviderID  string    `gorm:"uniqueIndex;size:64;not null"`
	ShortURL    string    `gorm:"size:255;not null"`
	AmountPaise int64     `gorm:"not null"`
	Status      string    `gorm:"size:32;not null;default:created"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (PaymentLink) TableName() string {
	return "payment_links"
}
