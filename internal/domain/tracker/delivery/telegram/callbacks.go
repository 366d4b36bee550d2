package telegram

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback data tokens. Arguments ride after a colon; tokens must stay
// under Telegram's 64-byte callback data cap.
const (
	cbToggle        = "msel"
	cbSelectionDone = "msel_done"
	cbSelectionStop = "msel_cancel"
	cbRemoveConfirm = "rem_confirm"
	cbRemoveCancel  = "rem_cancel"
	cbStatsOpen     = "stats"
	cbStatsCancel   = "stats_cancel"
	cbStatsPage     = "stats_page"
	cbResendCode    = "resend_otp"
	cbLogoutConfirm = "logout_confirm"
	cbLogoutCancel  = "logout_cancel"
	cbPinLinks      = "pin_create_links"
)

// Stats page turn arguments
const (
	pageNext  = "next"
	pagePrev  = "prev"
	pageClose = "close"
)

// toggleData builds callback data for flipping one selection row.
// The wire format carries the 1-based row number shown on the button.
func toggleData(index int) string {
	return fmt.Sprintf("%s:%d", cbToggle, index+1)
}

// statsOpenData builds callback data for opening one link's stats
func statsOpenData(linkID int64) string {
	return fmt.Sprintf("%s:%d", cbStatsOpen, linkID)
}

// statsPageData builds callback data for turning a stats page
func statsPageData(arg string) string {
	return cbStatsPage + ":" + arg
}

// callbackArg splits "token:arg" data and returns the argument
func callbackArg(data string) string {
	if i := strings.IndexByte(data, ':'); i >= 0 {
		return data[i+1:]
	}
	return ""
}

// callbackIntArg parses a numeric callback argument
func callbackIntArg(data string) (int64, error) {
	arg := callbackArg(data)
	if arg == "" {
		return 0, fmt.Errorf("callback data %q has no argument", data)
	}
	return strconv.ParseInt(arg, 10, 64)
}
