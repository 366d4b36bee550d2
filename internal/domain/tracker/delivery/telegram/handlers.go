// Package telegram contains Telegram delivery handlers for the tracker
// domain.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
	"github.com/getaipilot/joincounter/internal/domain/tracker/usecase/business"
)

const timeLayout = "02 Jan 2006 15:04 IST"

// Handlers contains Telegram command and callback handlers
type Handlers struct {
	uc     *business.UseCase
	logger zerolog.Logger
}

// NewHandlers creates new Telegram handlers
func NewHandlers(uc *business.UseCase, logger zerolog.Logger) *Handlers {
	return &Handlers{
		uc:     uc,
		logger: logger.With().Str("component", "tracker_handlers").Logger(),
	}
}

// reply sends a plain text message
func (h *Handlers) reply(ctx context.Context, b *tgbot.Bot, chatID int64, text string) {
	h.replyKb(ctx, b, chatID, text, nil)
}

// replyKb sends a text message with an optional inline keyboard
func (h *Handlers) replyKb(ctx context.Context, b *tgbot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &tgbot.SendMessageParams{ChatID: chatID, Text: text}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

// edit rewrites the message a callback came from
func (h *Handlers) edit(ctx context.Context, b *tgbot.Bot, chatID int64, messageID int, text string, kb *models.InlineKeyboardMarkup) {
	params := &tgbot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("failed to edit message")
	}
}

// ack answers a callback query, optionally with a toast
func (h *Handlers) ack(ctx context.Context, b *tgbot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to answer callback query")
	}
}

// errText maps domain errors to user-facing replies
func errText(err error) string {
	switch {
	case errors.Is(err, trackererrors.ErrNoSession):
		return "You are not logged in. Use /login to connect your Telegram account."
	case errors.Is(err, trackererrors.ErrSessionUnauthorized):
		return "Your saved login is no longer valid. Use /login to connect again."
	case errors.Is(err, trackererrors.ErrSubscriptionRequired):
		return "This feature needs an active subscription. Use /upgrade to see the plans."
	case errors.Is(err, trackererrors.ErrNoEligibleChats):
		return "No private groups or channels found where you are an admin."
	case errors.Is(err, trackererrors.ErrLinkNotFound):
		return "You have no tracked invite links yet. Use /create_link to create some."
	case errors.Is(err, trackererrors.ErrNothingSelected):
		return "Nothing is selected. Tap the numbers to pick at least one entry."
	case errors.Is(err, trackererrors.ErrNoSelection):
		return "This selection is no longer active. Start over with the command."
	case errors.Is(err, trackererrors.ErrNoLoginInProgress):
		return "No login in progress. Use /login to start."
	case errors.Is(err, trackererrors.ErrConnectFailed):
		return "Could not reach Telegram right now. Please try again in a moment."
	case errors.Is(err, trackererrors.ErrExportInviteFailed):
		return "Could not create invite links for the selected chats."
	case errors.Is(err, trackererrors.ErrStatsPageExpired):
		return "This stats view has expired. Run /stats again."
	default:
		return "Something went wrong. Please try again."
	}
}

// HandleStart greets the user
func (h *Handlers) HandleStart(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	text := "Welcome! I create invite links for your private groups and channels and count who joins through them.\n\n" +
		"First connect your own Telegram account with /login, then create tracked links with /create_link.\n" +
		"Send /help for the full command list."
	h.replyKb(ctx, b, update.Message.Chat.ID, text, pinLinksKeyboard())
}

// HandleHelp lists the available commands
func (h *Handlers) HandleHelp(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	text := "Commands:\n" +
		"/login — connect your Telegram account\n" +
		"/stoplogin — cancel a login in progress\n" +
		"/logout — disconnect your account\n" +
		"/status — show your connection status\n" +
		"/create_link — create tracked invite links\n" +
		"/links — list your tracked links\n" +
		"/remove_link — remove tracked links\n" +
		"/stats — who joined via a link\n" +
		"/hour_status, /today_status, /week_status, /month_status, /year_status — join counts per window\n" +
		"/upgrade — subscription plans\n" +
		"/upgrade_status — your subscription\n" +
		"/start_demo — quick walkthrough"
	h.reply(ctx, b, update.Message.Chat.ID, text)
}

// HandleStartDemo walks through a typical session
func (h *Handlers) HandleStartDemo(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	text := "Quick walkthrough:\n\n" +
		"1. /login — send your phone number (like +919876543210), then the code Telegram sends you. " +
		"If the code message gets revoked, send it as HELLO 12345.\n" +
		"2. /create_link — pick the groups or channels to track; I export a fresh invite link for each.\n" +
		"3. Share those links.\n" +
		"4. /stats — see exactly who joined through each link, newest first.\n" +
		"5. /today_status or /week_status — join totals per link for the window."
	h.reply(ctx, b, update.Message.Chat.ID, text)
}

// HandleStatus shows the session state
func (h *Handlers) HandleStatus(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	self, err := h.uc.SessionStatus(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	h.reply(ctx, b, chatID, fmt.Sprintf("Connected as %s.", self.DisplayName()))
}

// HandleLogin starts the login conversation
func (h *Handlers) HandleLogin(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	res, err := h.uc.StartLogin(ctx, update.Message.From.ID)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	h.sendLoginReply(ctx, b, chatID, res)
}

// HandleStopLogin cancels the login conversation
func (h *Handlers) HandleStopLogin(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	if h.uc.CancelLogin(ctx, update.Message.From.ID) {
		h.reply(ctx, b, chatID, "Login cancelled.")
		return
	}
	h.reply(ctx, b, chatID, "No login in progress.")
}

// HandleLogout asks for logout confirmation
func (h *Handlers) HandleLogout(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	has, err := h.uc.HasSession(ctx, update.Message.From.ID)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	if !has {
		h.reply(ctx, b, chatID, "You are not logged in.")
		return
	}
	h.replyKb(ctx, b, chatID,
		"Log out and delete your saved login? Your tracked links and join history are kept.",
		logoutConfirmKeyboard())
}

// HandleLogoutConfirm performs the logout
func (h *Handlers) HandleLogoutConfirm(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID

	if err := h.uc.Logout(ctx, cb.From.ID); err != nil {
		h.edit(ctx, b, chatID, messageID, errText(err), nil)
		return
	}
	h.edit(ctx, b, chatID, messageID, "Logged out. Use /login whenever you want to reconnect.", nil)
}

// HandleLogoutCancel aborts the logout
func (h *Handlers) HandleLogoutCancel(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	h.edit(ctx, b, cb.Message.Message.Chat.ID, cb.Message.Message.ID, "Logout cancelled.", nil)
}

// HandleResendCode requests a fresh one-time code
func (h *Handlers) HandleResendCode(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	if err := h.uc.ResendCode(ctx, cb.From.ID); err != nil {
		h.ack(ctx, b, cb.ID, errText(err))
		return
	}
	h.ack(ctx, b, cb.ID, "Code sent again.")
}

// HandleFreeText routes non-command text into the login conversation
func (h *Handlers) HandleFreeText(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" || update.Message.From == nil {
		return
	}
	if strings.HasPrefix(update.Message.Text, "/") {
		h.reply(ctx, b, update.Message.Chat.ID, "Unknown command. Send /help for the list of available commands.")
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !h.uc.InLogin(userID) {
		h.reply(ctx, b, chatID, "Use commands to interact with me. Send /help for the list.")
		return
	}

	res, err := h.uc.SubmitLoginInput(ctx, userID, update.Message.Text)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	h.sendLoginReply(ctx, b, chatID, res)
}

// sendLoginReply turns a login state machine outcome into a message
func (h *Handlers) sendLoginReply(ctx context.Context, b *tgbot.Bot, chatID int64, res *business.LoginResult) {
	switch res.Event {
	case business.LoginEventAlreadyAuthorized:
		h.reply(ctx, b, chatID, fmt.Sprintf("You are already connected as %s. Use /logout first to switch accounts.", res.Self.DisplayName()))
	case business.LoginEventPhoneNeeded:
		h.reply(ctx, b, chatID, "Send your phone number in international format, like +919876543210.\nUse /stoplogin to cancel.")
	case business.LoginEventBadPhone:
		h.reply(ctx, b, chatID, "That does not look like a phone number. Send it like +919876543210.")
	case business.LoginEventCodeSent:
		h.replyKb(ctx, b, chatID,
			"I sent a code to your Telegram app. Send it here.\nIf Telegram deletes your message, wrap the code like: HELLO 12345",
			resendCodeKeyboard())
	case business.LoginEventBadCode:
		h.reply(ctx, b, chatID, "That does not look like a code. Send the 4-8 digit code, optionally as HELLO 12345.")
	case business.LoginEventWrongCode:
		h.reply(ctx, b, chatID, "Telegram rejected that code. Let's start over: send your phone number again.")
	case business.LoginEventPasswordNeeded:
		h.reply(ctx, b, chatID, "Your account has two-step verification. Send your password.")
	case business.LoginEventWrongPassword:
		h.reply(ctx, b, chatID, "Wrong password, try again.")
	case business.LoginEventSuccess:
		h.reply(ctx, b, chatID, fmt.Sprintf("Connected as %s. You can now use /create_link.", res.Self.DisplayName()))
	}
}

// HandleCreateLink starts a chat selection round
func (h *Handlers) HandleCreateLink(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.startCreateSelection(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

// HandlePinLinks starts link creation from the pinned start button
func (h *Handlers) HandlePinLinks(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	h.startCreateSelection(ctx, b, cb.Message.Message.Chat.ID, cb.From.ID)
}

func (h *Handlers) startCreateSelection(ctx context.Context, b *tgbot.Bot, chatID, userID int64) {
	sel, err := h.uc.BeginCreateSelection(ctx, userID)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	h.replyKb(ctx, b, chatID, selectionText(sel), selectionKeyboard(sel))
}

// HandleRemoveLink starts a link removal selection round
func (h *Handlers) HandleRemoveLink(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	sel, err := h.uc.BeginRemoveSelection(ctx, update.Message.From.ID)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	h.replyKb(ctx, b, chatID, selectionText(sel), selectionKeyboard(sel))
}

// selectionText renders the numbered list behind a selection keyboard
func selectionText(sel *business.Selection) string {
	var sb strings.Builder
	if sel.Mode == business.SelectionCreate {
		sb.WriteString("Pick the chats to create tracked invite links for:\n\n")
	} else {
		sb.WriteString("Pick the tracked links to remove:\n\n")
	}
	for i, item := range sel.Items {
		mark := " "
		if sel.Picked[i] {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, item.Label, mark)
	}
	sb.WriteString("\nTap the numbers to toggle, then press Done.")
	return sb.String()
}

// HandleToggle flips one selection row
func (h *Handlers) HandleToggle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	number, err := callbackIntArg(cb.Data)
	if err != nil || number < 1 {
		h.ack(ctx, b, cb.ID, "Bad selection.")
		return
	}

	sel, err := h.uc.ToggleSelection(cb.From.ID, int(number)-1)
	if err != nil {
		h.ack(ctx, b, cb.ID, errText(err))
		return
	}

	h.ack(ctx, b, cb.ID, "")
	h.edit(ctx, b, cb.Message.Message.Chat.ID, cb.Message.Message.ID, selectionText(sel), selectionKeyboard(sel))
}

// HandleSelectionDone completes the selection round
func (h *Handlers) HandleSelectionDone(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID
	userID := cb.From.ID

	mode, ok := h.uc.SelectionMode(userID)
	if !ok {
		h.ack(ctx, b, cb.ID, errText(trackererrors.ErrNoSelection))
		return
	}
	h.ack(ctx, b, cb.ID, "")

	switch mode {
	case business.SelectionCreate:
		created, err := h.uc.CompleteCreateSelection(ctx, userID)
		if err != nil {
			if errors.Is(err, trackererrors.ErrNothingSelected) {
				h.reply(ctx, b, chatID, errText(err))
				return
			}
			h.edit(ctx, b, chatID, messageID, errText(err), nil)
			return
		}

		var sb strings.Builder
		sb.WriteString("Created tracked invite links:\n\n")
		for _, c := range created {
			fmt.Fprintf(&sb, "%s\n%s\n\n", c.Title, c.URL)
		}
		sb.WriteString("Share them; I will count everyone who joins through them.")
		h.edit(ctx, b, chatID, messageID, sb.String(), nil)

	case business.SelectionRemove:
		picked, err := h.uc.CompleteRemoveSelection(ctx, userID)
		if err != nil {
			if errors.Is(err, trackererrors.ErrNothingSelected) {
				h.reply(ctx, b, chatID, errText(err))
				return
			}
			h.edit(ctx, b, chatID, messageID, errText(err), nil)
			return
		}

		var sb strings.Builder
		sb.WriteString("Remove these links and all their join history?\n\n")
		for i := range picked {
			fmt.Fprintf(&sb, "• %s\n", picked[i].DisplayTitle())
		}
		h.edit(ctx, b, chatID, messageID, sb.String(), removeConfirmKeyboard())
	}
}

// HandleSelectionCancel aborts the selection round
func (h *Handlers) HandleSelectionCancel(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	h.uc.CancelSelection(cb.From.ID)
	h.edit(ctx, b, cb.Message.Message.Chat.ID, cb.Message.Message.ID, "Selection cancelled.", nil)
}

// HandleRemoveConfirm deletes the pending links with their join history
func (h *Handlers) HandleRemoveConfirm(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID

	n, err := h.uc.ConfirmRemoval(ctx, cb.From.ID)
	if err != nil {
		h.edit(ctx, b, chatID, messageID, errText(err), nil)
		return
	}
	h.edit(ctx, b, chatID, messageID, fmt.Sprintf("Removed %d link(s) and their join history.", n), nil)
}

// HandleRemoveCancel keeps everything untouched
func (h *Handlers) HandleRemoveCancel(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	h.uc.CancelRemoval(cb.From.ID)
	h.edit(ctx, b, cb.Message.Message.Chat.ID, cb.Message.Message.ID, "Nothing was removed.", nil)
}

// HandleLinks lists the tracked links
func (h *Handlers) HandleLinks(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	links, err := h.uc.ListLinks(ctx, update.Message.From.ID)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	if len(links) == 0 {
		h.reply(ctx, b, chatID, "You have no tracked invite links yet. Use /create_link to create some.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Your tracked invite links:\n\n")
	for i := range links {
		fmt.Fprintf(&sb, "%s\n%s\ncreated %s\n\n",
			links[i].DisplayTitle(),
			links[i].InviteLink,
			links[i].CreatedAt.In(business.IST).Format(timeLayout))
	}
	h.reply(ctx, b, chatID, sb.String())
}

// HandleStats starts the all-time stats link selection
func (h *Handlers) HandleStats(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.startStatsSelection(ctx, b, update.Message.Chat.ID, update.Message.From.ID, "all")
}

// HandleWindowStatus starts the stats link selection scoped to a named
// window. Bound once per status command.
func (h *Handlers) HandleWindowStatus(window string) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		h.startStatsSelection(ctx, b, update.Message.Chat.ID, update.Message.From.ID, window)
	}
}

func (h *Handlers) startStatsSelection(ctx context.Context, b *tgbot.Bot, chatID, userID int64, window string) {
	links, err := h.uc.BeginStats(ctx, userID, window)
	if err != nil {
		h.reply(ctx, b, chatID, errText(err))
		return
	}
	text := fmt.Sprintf("Pick a link to see who joined through it (%s):", windowLabel(window))
	h.replyKb(ctx, b, chatID, text, statsLinksKeyboard(links))
}

// HandleStatsOpen renders the first page for one link
func (h *Handlers) HandleStatsOpen(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}

	linkID, err := callbackIntArg(cb.Data)
	if err != nil {
		h.ack(ctx, b, cb.ID, "Bad link.")
		return
	}

	h.ack(ctx, b, cb.ID, "Refreshing…")
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID
	userID := cb.From.ID

	page, rows, err := h.uc.OpenStats(ctx, userID, linkID)
	if err != nil {
		h.edit(ctx, b, chatID, messageID, errText(err), nil)
		return
	}

	h.uc.SavePage(userID, messageID, page)
	h.edit(ctx, b, chatID, messageID, statsPageText(page, rows), statsPageKeyboard(page))
}

// HandleStatsCancel closes the link selection
func (h *Handlers) HandleStatsCancel(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	h.ack(ctx, b, cb.ID, "")
	h.edit(ctx, b, cb.Message.Message.Chat.ID, cb.Message.Message.ID, "Stats closed.", nil)
}

// HandleStatsPage turns or closes a stats page
func (h *Handlers) HandleStatsPage(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID
	userID := cb.From.ID

	switch callbackArg(cb.Data) {
	case pageClose:
		h.ack(ctx, b, cb.ID, "")
		h.uc.ClosePage(userID, messageID)
		h.edit(ctx, b, chatID, messageID, "Stats closed.", nil)
		return
	case pageNext:
		h.turnPage(ctx, b, cb, 1)
	case pagePrev:
		h.turnPage(ctx, b, cb, -1)
	default:
		h.ack(ctx, b, cb.ID, "")
	}
}

func (h *Handlers) turnPage(ctx context.Context, b *tgbot.Bot, cb *models.CallbackQuery, delta int) {
	chatID := cb.Message.Message.Chat.ID
	messageID := cb.Message.Message.ID

	page, rows, err := h.uc.TurnPage(ctx, cb.From.ID, messageID, delta)
	if err != nil {
		h.ack(ctx, b, cb.ID, errText(err))
		return
	}

	h.ack(ctx, b, cb.ID, "")
	h.edit(ctx, b, chatID, messageID, statsPageText(page, rows), statsPageKeyboard(page))
}

// statsPageText renders one page of joiners, newest first. The header
// carries the link URL, its creation time in IST and the window label.
func statsPageText(page *business.StatsPage, rows []entities.JoinRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", page.Title, page.URL)
	if !page.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Link created at %s\n", page.CreatedAt.In(business.IST).Format(timeLayout))
	}
	fmt.Fprintf(&sb, "Total joins (%s): %d\n", windowLabel(page.Window.Name), page.Total)

	if page.Total == 0 {
		sb.WriteString("\nNo joins found in this range yet.")
		return sb.String()
	}

	first := page.Offset + 1
	last := page.Offset + len(rows)
	fmt.Fprintf(&sb, "Showing %d-%d of %d, newest first\n\n", first, last, page.Total)

	for i, row := range rows {
		fmt.Fprintf(&sb, "%d. %s — %s\n",
			page.Offset+i+1,
			row.JoinedUsername,
			row.JoinedAt.In(business.IST).Format(timeLayout))
	}
	return sb.String()
}

func windowLabel(name string) string {
	switch name {
	case "hour":
		return "last hour"
	case "today":
		return "since midnight IST"
	case "week":
		return "last 7 days"
	case "month":
		return "last 30 days"
	case "year":
		return "last 365 days"
	default:
		return "all time"
	}
}
