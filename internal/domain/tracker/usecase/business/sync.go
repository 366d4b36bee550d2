package business

import (
	"context"
	"strings"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
)

// linkSlug extracts the slug Telegram expects from a full invite URL.
// Accepts https://t.me/+abc, t.me/joinchat/abc and bare slugs.
func linkSlug(url string) string {
	s := strings.TrimSpace(url)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "t.me/")
	s = strings.TrimPrefix(s, "telegram.me/")
	s = strings.TrimPrefix(s, "joinchat/")
	s = strings.TrimPrefix(s, "+")
	return s
}

// syncLink replaces the stored join set for one link with what the
// platform reports right now. Caller holds the user lock.
func (u *UseCase) syncLink(ctx context.Context, account deps.TelegramAccount, link *entities.InviteLink) error {
	importers, err := account.InviteImporters(ctx, link.Peer(), linkSlug(link.InviteLink), ImporterFetchLimit)
	if err != nil {
		return err
	}

	rows := make([]entities.JoinRecord, 0, len(importers))
	for _, imp := range importers {
		rows = append(rows, entities.JoinRecord{
			UserID:         link.UserID,
			ChatID:         link.ChatID,
			InviteLinkID:   link.ID,
			JoinedUserID:   imp.UserID,
			JoinedUsername: imp.DisplayName,
			JoinedAt:       imp.JoinedAt,
		})
	}

	if err := u.joins.ReplaceForLink(ctx, link.UserID, link.ID, rows); err != nil {
		return err
	}

	u.logger.Debug().
		Int64("user_id", link.UserID).
		Int64("link_id", link.ID).
		Int("joins", len(rows)).
		Msg("join set synced")
	return nil
}

// syncAll refreshes every active link. A link that fails to sync is
// skipped so one revoked link cannot starve the rest. Caller holds the
// user lock.
func (u *UseCase) syncAll(ctx context.Context, account deps.TelegramAccount, userID int64) ([]entities.InviteLink, error) {
	links, err := u.links.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range links {
		if err := u.syncLink(ctx, account, &links[i]); err != nil {
			u.logger.Warn().Err(err).
				Int64("user_id", userID).
				Int64("link_id", links[i].ID).
				Msg("failed to sync link, skipping")
		}
	}
	return links, nil
}
