// Package billing wires the subscription and payments domain
package billing

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/getaipilot/joincounter/config"
	billingtg "github.com/getaipilot/joincounter/internal/domain/billing/delivery/telegram"
	"github.com/getaipilot/joincounter/internal/domain/billing/deps"
	"github.com/getaipilot/joincounter/internal/domain/billing/repository/postgres"
	"github.com/getaipilot/joincounter/internal/domain/billing/repository/razorpay"
	"github.com/getaipilot/joincounter/internal/domain/billing/usecase/business"
	trackerdeps "github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/infrastructure/telegram"
)

var Module = fx.Module(
	"billing",
	fx.Provide(
		NewSubscriptionRepository,
		NewPaymentLinkRepository,
		NewPaymentGateway,
		business.NewUseCase,
		NewEntitlementChecker,
		billingtg.NewHandlers,
		billingtg.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

func NewSubscriptionRepository(db *gorm.DB) deps.SubscriptionRepository {
	return postgres.NewSubscriptionRepository(db)
}

func NewPaymentLinkRepository(db *gorm.DB) deps.PaymentLinkRepository {
	return postgres.NewPaymentLinkRepository(db)
}

func NewPaymentGateway(cfg *config.Razorpay, logger zerolog.Logger) deps.PaymentGateway {
	return razorpay.NewGateway(cfg, logger)
}

// NewEntitlementChecker exposes the billing use case as the premium
// gate the tracker domain depends on.
func NewEntitlementChecker(uc *business.UseCase) trackerdeps.EntitlementChecker {
	return uc
}

func registerRoutes(router *billingtg.Router, bot *telegram.Bot, log zerolog.Logger) {
	router.RegisterRoutes(bot)
	log.Info().Msg("billing routes registered")
}
