// Package business contains billing use cases
package business

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain/billing/deps"
	"github.com/getaipilot/joincounter/internal/domain/billing/entities"
	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
	pkgerrors "github.com/getaipilot/joincounter/pkg/errors"
)

type UseCase struct {
	subs     deps.SubscriptionRepository
	payments deps.PaymentLinkRepository
	gateway  deps.PaymentGateway
	events   deps.EventProducer
	plans    []entities.Plan
	logger   zerolog.Logger

	now func() time.Time
}

func NewUseCase(
	subs deps.SubscriptionRepository,
	payments deps.PaymentLinkRepository,
	gateway deps.PaymentGateway,
	events deps.EventProducer,
	plansCfg *config.Plans,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		subs:     subs,
		payments: payments,
		gateway:  gateway,
		events:   events,
		plans:    plansFromConfig(plansCfg),
		logger:   logger.With().Str("component", "billing_usecase").Logger(),
		now:      time.Now,
	}
}

func plansFromConfig(cfg *config.Plans) []entities.Plan {
	return []entities.Plan{
		{ID: entities.PlanBasic, Title: "Basic", PricePaise: int64(cfg.BasicPricePaise), Days: cfg.DurationDays},
		{ID: entities.PlanPro, Title: "Pro", PricePaise: int64(cfg.ProPricePaise), Days: cfg.DurationDays},
		{ID: entities.PlanPremium, Title: "Premium", PricePaise: int64(cfg.PremiumPricePaise), Days: cfg.DurationDays},
	}
}

// Plans returns the purchasable plan catalog
func (u *UseCase) Plans() []entities.Plan {
	return u.plans
}

// PlanByID looks up a plan in the catalog
func (u *UseCase) PlanByID(id string) (entities.Plan, error) {
	for _, p := range u.plans {
		if string(p.ID) == id {
			return p, nil
		}
	}
	return entities.Plan{}, billingerrors.ErrUnknownPlan
}

// HasActive reports whether the user holds an unexpired entitlement
func (u *UseCase) HasActive(ctx context.Context, userID int64) (bool, error) {
	sub, err := u.subs.GetByUser(ctx, userID)
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return false, nil
		}
		return false, err
	}
	return sub.ActiveAt(u.now()), nil
}

// Status returns the user's subscription, or ErrNoSubscription
func (u *UseCase) Status(ctx context.Context, userID int64) (*entities.Subscription, error) {
	return u.subs.GetByUser(ctx, userID)
}

// Buy issues a checkout link for the plan and records it for later
// verification. A still-pending link for the same plan is handed back
// instead of minting a new one.
func (u *UseCase) Buy(ctx context.Context, userID int64, planID string) (*entities.PaymentLink, error) {
	plan, err := u.PlanByID(planID)
	if err != nil {
		return nil, err
	}

	pending, err := u.payments.LatestPending(ctx, userID)
	if err == nil && pending.Plan == planID {
		u.logger.Info().
			Int64("user_id", userID).
			Str("provider_id", pending.ProviderID).
			Msg("reusing pending payment link")
		return pending, nil
	}
	if err != nil && !pkgerrors.IsNotFoundError(err) {
		return nil, err
	}

	gw, err := u.gateway.CreateLink(ctx, userID, plan)
	if err != nil {
		u.logger.Error().Err(err).Int64("user_id", userID).Str("plan", planID).Msg("failed to create payment link")
		return nil, err
	}

	link := &entities.PaymentLink{
		UserID:      userID,
		Plan:        string(plan.ID),
		ProviderID:  gw.ProviderID,
		ShortURL:    gw.ShortURL,
		AmountPaise: plan.PricePaise,
		Status:      entities.PaymentStatusCreated,
	}
	if err := u.payments.Save(ctx, link); err != nil {
		u.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to save payment link")
		return nil, err
	}

	u.logger.Info().
		Int64("user_id", userID).
		Str("plan", planID).
		Str("provider_id", gw.ProviderID).
		Msg("payment link issued")
	return link, nil
}

// Verify checks the user's newest pending payment link against the
// gateway and, when paid, activates the entitlement. An existing
// unexpired subscription is extended rather than restarted.
func (u *UseCase) Verify(ctx context.Context, userID int64) (*entities.Subscription, error) {
	link, err := u.payments.LatestPending(ctx, userID)
	if err != nil {
		return nil, err
	}

	status, err := u.gateway.FetchStatus(ctx, link.ProviderID)
	if err != nil {
		u.logger.Error().Err(err).Str("provider_id", link.ProviderID).Msg("failed to fetch payment status")
		return nil, err
	}

	if status != entities.PaymentStatusPaid {
		if status != entities.PaymentStatusCreated {
			// Terminal non-paid state; stop offering it for verification
			if uerr := u.payments.UpdateStatus(ctx, link.ProviderID, status); uerr != nil {
				u.logger.Warn().Err(uerr).Str("provider_id", link.ProviderID).Msg("failed to record payment status")
			}
		}
		return nil, billingerrors.ErrPaymentNotPaid
	}

	if err := u.payments.UpdateStatus(ctx, link.ProviderID, entities.PaymentStatusPaid); err != nil {
		return nil, err
	}

	plan, err := u.PlanByID(link.Plan)
	if err != nil {
		return nil, err
	}

	sub, err := u.activate(ctx, userID, plan)
	if err != nil {
		return nil, err
	}

	event := &deps.SubscriptionEvent{
		UserID:    userID,
		Plan:      sub.Plan,
		ExpiresAt: sub.ExpiresAt,
		PaidAt:    u.now().UTC(),
	}
	if err := u.events.SendSubscriptionActivated(ctx, event); err != nil {
		// Entitlement is already granted; the announcement is best effort
		u.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to publish subscription event")
	}

	u.logger.Info().
		Int64("user_id", userID).
		Str("plan", sub.Plan).
		Time("expires_at", sub.ExpiresAt).
		Msg("subscription activated")
	return sub, nil
}

// activate grants or extends the entitlement by the plan duration
func (u *UseCase) activate(ctx context.Context, userID int64, plan entities.Plan) (*entities.Subscription, error) {
	now := u.now().UTC()
	base := now

	existing, err := u.subs.GetByUser(ctx, userID)
	if err != nil && !pkgerrors.IsNotFoundError(err) {
		return nil, err
	}
	if existing != nil && existing.ExpiresAt.After(now) {
		base = existing.ExpiresAt
	}

	sub := &entities.Subscription{
		UserID:    userID,
		Plan:      string(plan.ID),
		ExpiresAt: base.AddDate(0, 0, plan.Days),
	}
	if err := u.subs.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}
