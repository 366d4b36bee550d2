package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	"github.com/getaipilot/joincounter/internal/domain/tracker/usecase/business"
)

// selectionRowWidth is how many toggle buttons share one keyboard row
const selectionRowWidth = 7

// selectionKeyboard renders the multi-select toggles plus Done/Cancel.
// Picked rows carry a check mark.
func selectionKeyboard(sel *business.Selection) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(sel.Items)/selectionRowWidth+2)

	// Chat titles live in the message body as a numbered list; the
	// buttons only carry the numbers.
	var row []models.InlineKeyboardButton
	for i := range sel.Items {
		label := fmt.Sprintf("%d", i+1)
		if sel.Picked[i] {
			label = "✅ " + label
		}
		row = append(row, models.InlineKeyboardButton{
			Text:         label,
			CallbackData: toggleData(i),
		})
		if len(row) == selectionRowWidth {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "Done", CallbackData: cbSelectionDone},
		{Text: "Cancel", CallbackData: cbSelectionStop},
	})

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// removeConfirmKeyboard asks to confirm or abort a pending removal
func removeConfirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Yes, remove", CallbackData: cbRemoveConfirm},
			{Text: "Cancel", CallbackData: cbRemoveCancel},
		}},
	}
}

// logoutConfirmKeyboard asks to confirm or abort a logout
func logoutConfirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Yes, log out", CallbackData: cbLogoutConfirm},
			{Text: "Cancel", CallbackData: cbLogoutCancel},
		}},
	}
}

// resendCodeKeyboard offers to resend the one-time code
func resendCodeKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Resend code", CallbackData: cbResendCode},
		}},
	}
}

// statsLinksKeyboard offers one button per tracked link
func statsLinksKeyboard(links []entities.InviteLink) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(links)+1)
	for i := range links {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         links[i].DisplayTitle(),
			CallbackData: statsOpenData(links[i].ID),
		}})
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text: "Cancel", CallbackData: cbStatsCancel,
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// statsPageKeyboard renders pagination controls for one stats page
func statsPageKeyboard(page *business.StatsPage) *models.InlineKeyboardMarkup {
	var nav []models.InlineKeyboardButton
	if page.HasPrev() {
		nav = append(nav, models.InlineKeyboardButton{Text: "⬅️ Prev", CallbackData: statsPageData(pagePrev)})
	}
	if page.HasNext() {
		nav = append(nav, models.InlineKeyboardButton{Text: "Next ➡️", CallbackData: statsPageData(pageNext)})
	}

	rows := make([][]models.InlineKeyboardButton, 0, 2)
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []models.InlineKeyboardButton{{
		Text: "Close", CallbackData: statsPageData(pageClose),
	}})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// pinLinksKeyboard offers to jump straight to link creation
func pinLinksKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Create invite links", CallbackData: cbPinLinks},
		}},
	}
}
