package business

import (
	"context"

	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

// SelectionMode distinguishes what completing a selection does
type SelectionMode int

const (
	// SelectionCreate picks chats to export fresh invite links for.
	SelectionCreate SelectionMode = iota + 1
	// SelectionRemove picks tracked links to delete.
	SelectionRemove
)

// SelectionItem is one toggleable row in a selection round
type SelectionItem struct {
	Label  string
	Peer   entities.PeerRef
	LinkID int64
}

// Selection is the transient per-user multi-select state
type Selection struct {
	Mode   SelectionMode
	Items  []SelectionItem
	Picked map[int]bool
}

// PickedCount returns how many items are currently marked
func (s *Selection) PickedCount() int {
	n := 0
	for _, v := range s.Picked {
		if v {
			n++
		}
	}
	return n
}

// CreatedLink is one successfully exported and saved invite link
type CreatedLink struct {
	Title string
	URL   string
}

// BeginCreateSelection starts a multi-select round over the private
// chats the user administers. Premium-gated.
func (u *UseCase) BeginCreateSelection(ctx context.Context, userID int64) (*Selection, error) {
	if err := u.requireEntitlement(ctx, userID); err != nil {
		return nil, err
	}

	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	account, err := u.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	dialogs, err := account.Dialogs(ctx, DialogScanLimit, MaxTrackedChats)
	if err != nil {
		return nil, err
	}
	if len(dialogs) == 0 {
		return nil, trackererrors.ErrNoEligibleChats
	}

	items := make([]SelectionItem, 0, len(dialogs))
	for _, d := range dialogs {
		items = append(items, SelectionItem{Label: d.Title, Peer: d.Peer})
	}

	sel := &Selection{Mode: SelectionCreate, Items: items, Picked: make(map[int]bool)}
	u.selections.Set(userID, sel)
	u.removals.Clear(userID)
	return sel, nil
}

// BeginRemoveSelection starts a multi-select round over the user's
// tracked links.
func (u *UseCase) BeginRemoveSelection(ctx context.Context, userID int64) (*Selection, error) {
	links, err := u.links.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, trackererrors.ErrLinkNotFound
	}

	items := make([]SelectionItem, 0, len(links))
	for i := range links {
		items = append(items, SelectionItem{
			Label:  links[i].DisplayTitle(),
			Peer:   links[i].Peer(),
			LinkID: links[i].ID,
		})
	}

	sel := &Selection{Mode: SelectionRemove, Items: items, Picked: make(map[int]bool)}
	u.selections.Set(userID, sel)
	u.removals.Clear(userID)
	return sel, nil
}

// ToggleSelection flips one item and returns the updated selection
func (u *UseCase) ToggleSelection(userID int64, index int) (*Selection, error) {
	sel, ok := u.selections.Get(userID)
	if !ok {
		return nil, trackererrors.ErrNoSelection
	}
	if index < 0 || index >= len(sel.Items) {
		return nil, trackererrors.ErrSelectionOutOfRange
	}
	sel.Picked[index] = !sel.Picked[index]
	u.selections.Set(userID, sel)
	return sel, nil
}

// SelectionMode returns the mode of the in-progress selection, if any
func (u *UseCase) SelectionMode(userID int64) (SelectionMode, bool) {
	sel, ok := u.selections.Get(userID)
	if !ok {
		return 0, false
	}
	return sel.Mode, true
}

// CancelSelection drops the in-progress selection, if any
func (u *UseCase) CancelSelection(userID int64) bool {
	_, ok := u.selections.Clear(userID)
	u.removals.Clear(userID)
	return ok
}

// CompleteCreateSelection exports an invite link for every picked chat
// and records it for tracking. Chats that fail to export are skipped;
// the round succeeds if at least one link was created.
func (u *UseCase) CompleteCreateSelection(ctx context.Context, userID int64) ([]CreatedLink, error) {
	sel, ok := u.selections.Get(userID)
	if !ok || sel.Mode != SelectionCreate {
		return nil, trackererrors.ErrNoSelection
	}
	if sel.PickedCount() == 0 {
		return nil, trackererrors.ErrNothingSelected
	}

	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	account, err := u.account(ctx, userID)
	if err != nil {
		return nil, err
	}

	created := make([]CreatedLink, 0, sel.PickedCount())
	for i, item := range sel.Items {
		if !sel.Picked[i] {
			continue
		}

		url, err := account.ExportInviteLink(ctx, item.Peer)
		if err != nil {
			u.logger.Warn().Err(err).
				Int64("user_id", userID).
				Int64("chat_id", item.Peer.ChatID).
				Msg("failed to export invite link, skipping chat")
			continue
		}

		link := &entities.InviteLink{
			UserID:     userID,
			ChatID:     item.Peer.ChatID,
			AccessHash: item.Peer.AccessHash,
			ChatType:   item.Peer.Type,
			ChatTitle:  item.Label,
			InviteLink: url,
			IsActive:   true,
		}
		if err := u.links.Save(ctx, link); err != nil {
			u.logger.Error().Err(err).
				Int64("user_id", userID).
				Int64("chat_id", item.Peer.ChatID).
				Msg("failed to save invite link, skipping chat")
			continue
		}

		created = append(created, CreatedLink{Title: item.Label, URL: url})
	}

	u.selections.Clear(userID)

	if len(created) == 0 {
		return nil, trackererrors.ErrExportInviteFailed
	}

	u.logger.Info().
		Int64("user_id", userID).
		Int("created", len(created)).
		Msg("invite links created")
	return created, nil
}

// CompleteRemoveSelection records the picked links as pending removal
// and returns them so the caller can ask for confirmation. Nothing is
// deleted yet.
func (u *UseCase) CompleteRemoveSelection(ctx context.Context, userID int64) ([]entities.InviteLink, error) {
	sel, ok := u.selections.Get(userID)
	if !ok || sel.Mode != SelectionRemove {
		return nil, trackererrors.ErrNoSelection
	}
	if sel.PickedCount() == 0 {
		return nil, trackererrors.ErrNothingSelected
	}

	ids := make([]int64, 0, sel.PickedCount())
	picked := make([]entities.InviteLink, 0, sel.PickedCount())
	for i, item := range sel.Items {
		if !sel.Picked[i] {
			continue
		}
		ids = append(ids, item.LinkID)

		link, err := u.links.Get(ctx, userID, item.LinkID)
		if err != nil {
			return nil, err
		}
		picked = append(picked, *link)
	}

	u.selections.Clear(userID)
	u.removals.Set(userID, ids)
	return picked, nil
}

// ConfirmRemoval deletes the pending links together with every join row
// referencing them.
func (u *UseCase) ConfirmRemoval(ctx context.Context, userID int64) (int, error) {
	ids, ok := u.removals.Clear(userID)
	if !ok || len(ids) == 0 {
		return 0, trackererrors.ErrNoPendingRemoval
	}

	if err := u.links.DeleteWithJoins(ctx, userID, ids); err != nil {
		return 0, err
	}

	u.logger.Info().
		Int64("user_id", userID).
		Int("removed", len(ids)).
		Msg("invite links removed")
	return len(ids), nil
}

// CancelRemoval drops the pending removal without touching anything
func (u *UseCase) CancelRemoval(userID int64) bool {
	_, ok := u.removals.Clear(userID)
	return ok
}

// ListLinks returns the user's tracked links, newest first
func (u *UseCase) ListLinks(ctx context.Context, userID int64) ([]entities.InviteLink, error) {
	return u.links.ListActive(ctx, userID)
}
