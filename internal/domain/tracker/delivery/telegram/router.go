package telegram

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/internal/infrastructure/telegram"
)

// Router registers tracker handlers on the bot
type Router struct {
	handlers *Handlers
	logger   zerolog.Logger
}

// NewRouter creates new Telegram router
func NewRouter(handlers *Handlers, logger zerolog.Logger) *Router {
	return &Router{
		handlers: handlers,
		logger:   logger,
	}
}

// RegisterRoutes registers all command and callback handlers on the bot
func (r *Router) RegisterRoutes(bot *telegram.Bot) {
	b := bot.Raw()

	// Command handlers
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start", tgbot.MatchTypeExact, r.handlers.HandleStart)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/help", tgbot.MatchTypeExact, r.handlers.HandleHelp)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/start_demo", tgbot.MatchTypeExact, r.handlers.HandleStartDemo)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/status", tgbot.MatchTypeExact, r.handlers.HandleStatus)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/login", tgbot.MatchTypeExact, r.handlers.HandleLogin)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/stoplogin", tgbot.MatchTypeExact, r.handlers.HandleStopLogin)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/logout", tgbot.MatchTypeExact, r.handlers.HandleLogout)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/create_link", tgbot.MatchTypeExact, r.handlers.HandleCreateLink)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/links", tgbot.MatchTypeExact, r.handlers.HandleLinks)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/remove_link", tgbot.MatchTypeExact, r.handlers.HandleRemoveLink)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/stats", tgbot.MatchTypeExact, r.handlers.HandleStats)
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/hour_status", tgbot.MatchTypeExact, r.handlers.HandleWindowStatus("hour"))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/today_status", tgbot.MatchTypeExact, r.handlers.HandleWindowStatus("today"))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/week_status", tgbot.MatchTypeExact, r.handlers.HandleWindowStatus("week"))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/month_status", tgbot.MatchTypeExact, r.handlers.HandleWindowStatus("month"))
	b.RegisterHandler(tgbot.HandlerTypeMessageText, "/year_status", tgbot.MatchTypeExact, r.handlers.HandleWindowStatus("year"))

	// Callback handlers
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbToggle+":", tgbot.MatchTypePrefix, r.handlers.HandleToggle)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbSelectionDone, tgbot.MatchTypeExact, r.handlers.HandleSelectionDone)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbSelectionStop, tgbot.MatchTypeExact, r.handlers.HandleSelectionCancel)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbRemoveConfirm, tgbot.MatchTypeExact, r.handlers.HandleRemoveConfirm)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbRemoveCancel, tgbot.MatchTypeExact, r.handlers.HandleRemoveCancel)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbStatsOpen+":", tgbot.MatchTypePrefix, r.handlers.HandleStatsOpen)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbStatsCancel, tgbot.MatchTypeExact, r.handlers.HandleStatsCancel)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbStatsPage+":", tgbot.MatchTypePrefix, r.handlers.HandleStatsPage)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbResendCode, tgbot.MatchTypeExact, r.handlers.HandleResendCode)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbLogoutConfirm, tgbot.MatchTypeExact, r.handlers.HandleLogoutConfirm)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbLogoutCancel, tgbot.MatchTypeExact, r.handlers.HandleLogoutCancel)
	b.RegisterHandler(tgbot.HandlerTypeCallbackQueryData, cbPinLinks, tgbot.MatchTypeExact, r.handlers.HandlePinLinks)

	// Free text feeds the login conversation
	bot.SetDefaultHandler(r.handlers.HandleFreeText)

	r.logger.Info().Msg("All tracker handlers registered successfully")
}
