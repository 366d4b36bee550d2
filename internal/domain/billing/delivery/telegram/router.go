package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/internal/infrastructure/telegram"
)

// Router registers billing handlers on the bot
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new billing router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command and callback handlers on the bot
func (r *Router) RegisterRoutes(bot *telegram.Bot) {
	b := bot.Raw()

	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/upgrade", tgbot.MatchTypeExact, r.handlers.HandleUpgrade)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/upgrade_status", tgbot.MatchTypeExact, r.handlers.HandleUpgradeStatus)

	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbBuyPrefix, tgbot.MatchTypePrefix, r.handlers.HandleBuy)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbVerify, tgbot.MatchTypeExact, r.handlers.HandleVerify)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbPlans, tgbot.MatchTypeExact, r.handlers.HandlePlansCancel)

	r.logger.Info().Msg("All billing handlers registered successfully")
}
