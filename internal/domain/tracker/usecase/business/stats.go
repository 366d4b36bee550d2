package business

import (
	"context"
	"fmt"
	"time"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

// IST is the display and day-boundary timezone. The product is aimed at
// Indian group owners, so "today" starts at midnight IST.
var IST = time.FixedZone("IST", 5*3600+30*60)

// Window is a named time window over join records. Nil bounds mean
// unbounded on that side; both bounds are inclusive.
type Window struct {
	Name  string
	Since *time.Time
	Until *time.Time
}

// WindowFor builds the window for a status command name. Unknown names
// fall back to all-time.
func (u *UseCase) WindowFor(name string) Window {
	now := u.now().In(IST)
	var since time.Time

	switch name {
	case "hour":
		since = now.Add(-time.Hour)
	case "today":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, IST)
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, 0, -30)
	case "year":
		since = now.AddDate(0, 0, -365)
	default:
		return Window{Name: "all"}
	}
	return Window{Name: name, Since: &since}
}

// PageKey addresses one live paginated stats message
type PageKey struct {
	UserID    int64
	MessageID int
}

// StatsPage is the transient cursor behind one stats message. It
// snapshots the link's title, URL and creation time so page turns do
// not re-read the link row.
type StatsPage struct {
	LinkID    int64
	Title     string
	URL       string
	CreatedAt time.Time
	Window    Window
	Total     int64
	Offset    int
}

// HasPrev reports whether an earlier page exists
func (p *StatsPage) HasPrev() bool { return p.Offset > 0 }

// HasNext reports whether a later page exists
func (p *StatsPage) HasNext() bool { return int64(p.Offset+StatsPageSize) < p.Total }

// BeginStats returns the user's links for stats selection and arms the
// window the eventual link pick will be scoped to. Premium-gated.
func (u *UseCase) BeginStats(ctx context.Context, userID int64, windowName string) ([]entities.InviteLink, error) {
	if err := u.requireEntitlement(ctx, userID); err != nil {
		return nil, err
	}

	links, err := u.links.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, trackererrors.ErrLinkNotFound
	}

	u.windows.Set(userID, u.WindowFor(windowName))
	return links, nil
}

// OpenStats refreshes one link's join set and returns the first page
// within the window armed by BeginStats (all-time when none is armed).
func (u *UseCase) OpenStats(ctx context.Context, userID, linkID int64) (*StatsPage, []entities.JoinRecord, error) {
	if err := u.requireEntitlement(ctx, userID); err != nil {
		return nil, nil, err
	}

	window, ok := u.windows.Clear(userID)
	if !ok {
		window = Window{Name: "all"}
	}

	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	link, err := u.links.Get(ctx, userID, linkID)
	if err != nil {
		return nil, nil, err
	}

	account, err := u.account(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := u.syncLink(ctx, account, link); err != nil {
		u.logger.Warn().Err(err).
			Int64("user_id", userID).
			Int64("link_id", linkID).
			Msg("failed to refresh join set, serving stored data")
	}

	total, err := u.joins.CountForLink(ctx, userID, linkID, window.Since, window.Until)
	if err != nil {
		return nil, nil, err
	}

	page := &StatsPage{
		LinkID:    linkID,
		Title:     link.DisplayTitle(),
		URL:       link.InviteLink,
		CreatedAt: link.CreatedAt,
		Window:    window,
		Total:     total,
	}
	rows, err := u.joins.PageForLink(ctx, userID, linkID, window.Since, window.Until, 0, StatsPageSize)
	if err != nil {
		return nil, nil, err
	}
	u.resolveRowNames(ctx, account, rows, 0)
	return page, rows, nil
}

// SavePage binds a page cursor to the message displaying it
func (u *UseCase) SavePage(userID int64, messageID int, page *StatsPage) {
	u.pages.Set(PageKey{UserID: userID, MessageID: messageID}, page)
}

// TurnPage moves the cursor behind a stats message by delta pages and
// returns the new page rows. Fails with ErrStatsPageExpired when the
// message is no longer tracked.
func (u *UseCase) TurnPage(ctx context.Context, userID int64, messageID, delta int) (*StatsPage, []entities.JoinRecord, error) {
	key := PageKey{UserID: userID, MessageID: messageID}
	page, ok := u.pages.Get(key)
	if !ok {
		return nil, nil, trackererrors.ErrStatsPageExpired
	}

	offset := page.Offset + delta*StatsPageSize
	if offset < 0 {
		offset = 0
	}
	if int64(offset) >= page.Total && page.Total > 0 {
		// Last page remains current when there is nothing further
		offset = page.Offset
	}
	page.Offset = offset
	u.pages.Set(key, page)

	rows, err := u.joins.PageForLink(ctx, userID, page.LinkID, page.Window.Since, page.Window.Until, offset, StatsPageSize)
	if err != nil {
		return nil, nil, err
	}

	// Resolution is best effort; a dropped client still turns the page
	account, err := u.account(ctx, userID)
	if err != nil {
		account = nil
	}
	u.resolveRowNames(ctx, account, rows, offset)
	return page, rows, nil
}

// resolveRowNames swaps each row's sync-time name for a live profile
// lookup. Rows Telegram cannot resolve keep the stored name, or a
// positional placeholder when nothing was stored.
func (u *UseCase) resolveRowNames(ctx context.Context, account deps.TelegramAccount, rows []entities.JoinRecord, offset int) {
	for i := range rows {
		if account != nil {
			if user, err := account.ResolveUser(ctx, rows[i].JoinedUserID); err == nil {
				rows[i].JoinedUsername = user.DisplayName()
				continue
			}
		}
		if rows[i].JoinedUsername == "" {
			rows[i].JoinedUsername = fmt.Sprintf("User %d", offset+i+1)
		}
	}
}

// ClosePage drops the cursor behind a stats message
func (u *UseCase) ClosePage(userID int64, messageID int) bool {
	_, ok := u.pages.Clear(PageKey{UserID: userID, MessageID: messageID})
	return ok
}
