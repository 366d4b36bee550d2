// Package telegram contains Telegram delivery handlers for the billing
// domain.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	billingerrors "github.com/getaipilot/joincounter/internal/domain/billing/errors"
	"github.com/getaipilot/joincounter/internal/domain/billing/usecase/business"
	trackerbusiness "github.com/getaipilot/joincounter/internal/domain/tracker/usecase/business"
)

// Callback data tokens for the upgrade flow
const (
	cbBuyPrefix = "buy_"
	cbVerify    = "verify_payment"
	cbPlans     = "plans_cancel"
)

// Handlers contains billing command and callback handlers
type Handlers struct {
	uc     *business.UseCase
	logger zerolog.Logger
}

// NewHandlers creates new billing handlers
func NewHandlers(uc *business.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger.With().Str("component", "billing_handlers").Logger(),
	}
}

func (h *Handlers) reply(ctx context.Context, b *tgbot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &tgbot.SendMessageParams{ChatID: chatID, Text: text}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

func (h *Handlers) edit(ctx context.Context, b *tgbot.Bot, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) {
	params := &tgbot.EditMessageTextParams{ChatID: chatID, MessageID: messageID, Text: text}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("failed to edit message")
	}
}

func (h *Handlers) ack(ctx context.Context, b *tgbot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to answer callback query")
	}
}

// plansKeyboard offers one buy button per plan
func (h *Handlers) plansKeyboard() *models.InlineKeyboardMarkup {
	plans := h.uc.Plans()
	rows := make([][]models.InlineKeyboardButton, 0, len(plans)+1)
	for _, p := range plans {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("%s — ₹%d / %d days", p.Title, p.PricePaise/100, p.Days),
			CallbackData: cbBuyPrefix + string(p.ID),
		}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text: "Cancel", CallbackData: cbPlans,
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// verifyKeyboard offers to verify a pending payment
func verifyKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "I've paid — verify", CallbackData: cbVerify},
		}},
	}
}

// HandleUpgrade shows the plan catalog
func (h *Handlers) HandleUpgrade(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID,
		"Pick a plan. Premium features: creating tracked invite links and join statistics.",
		h.plansKeyboard())
}

// HandleUpgradeStatus shows the user's entitlement
func (h *Handlers) HandleUpgradeStatus(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	sub, err := h.uc.Status(ctx, update.Message.From.ID)
	if err != nil {
		if errors.Is(err, billingerrors.ErrNoSubscription) {
			h.reply(ctx, b, chatID, "You have no subscription yet. Use /upgrade to see the plans.", nil)
			return
		}
		h.reply(ctx, b, chatID, "Something went wrong. Please try again.", nil)
		return
	}

	expires := sub.ExpiresAt.In(trackerbusiness.IST).Format("02 Jan 2006 15:04 IST")
	if sub.ExpiresAt.Before(time.Now()) {
		h.reply(ctx, b, chatID, fmt.Sprintf("Your %s subscription expired on %s. Use /upgrade to renew.", sub.Plan, expires), nil)
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Your %s subscription is active until %s.", sub.Plan, expires), nil)
}

// HandleBuy issues a payment link for the chosen plan
func (h *Handlers) HandleBuy(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	planID := strings.TrimPrefix(cb.Data, cbBuyPrefix)

	h.ack(ctx, b, cb.ID, "")
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID

	link, err := h.uc.Buy(ctx, cb.From.ID, planID)
	if err != nil {
		h.edit(ctx, b, chatID, messageID, payErrText(err), nil)
		return
	}

	text := fmt.Sprintf(
		"Pay ₹%d here:\n%s\n\nAfter paying, press the button below and I will activate your subscription.",
		link.AmountPaise/100, link.ShortURL)
	h.edit(ctx, b, chatID, messageID, text, verifyKeyboard())
}

// HandleVerify checks the newest pending payment and activates the plan
func (h *Handlers) HandleVerify(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "Checking payment…")
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID

	sub, err := h.uc.Verify(ctx, cb.From.ID)
	if err != nil {
		if errors.Is(err, billingerrors.ErrPaymentNotPaid) {
			h.ack(ctx, b, cb.ID, "Payment not received yet.")
			return
		}
		h.edit(ctx, b, chatID, messageID, payErrText(err), nil)
		return
	}

	expires := sub.ExpiresAt.In(trackerbusiness.IST).Format("02 Jan 2006 15:04 IST")
	h.edit(ctx, b, chatID, messageID,
		fmt.Sprintf("Payment received. Your %s subscription is active until %s.", sub.Plan, expires), nil)
}

// HandlePlansCancel closes the plan catalog
func (h *Handlers) HandlePlansCancel(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	h.edit(ctx, b, cb.Message.Message.Chat.ID, cb.Message.Message.ID, "Maybe later. Use /upgrade whenever you are ready.", nil)
}

// payErrText maps billing errors to user-facing replies
func payErrText(err error) string {
	switch {
	case errors.Is(err, billingerrors.ErrUnknownPlan):
		return "That plan does not exist. Use /upgrade to see the current plans."
	case errors.Is(err, billingerrors.ErrNoPaymentLink):
		return "No pending payment found. Use /upgrade to pick a plan first."
	case errors.Is(err, billingerrors.ErrGatewayUnavailable):
		return "The payment provider is unreachable right now. Please try again in a few minutes."
	default:
		return "Something went wrong. Please try again."
	}
}
