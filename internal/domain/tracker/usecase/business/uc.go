// Package business contains the invite-link tracking use cases
package business

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
	"github.com/getaipilot/joincounter/internal/domain/tracker/state"
)

const (
	// MaxTrackedChats caps how many chats one selection round may pick.
	MaxTrackedChats = 14
	// StatsPageSize is the number of join rows per stats page.
	StatsPageSize = 15
	// ImporterFetchLimit bounds one importer fetch. Links with more
	// joiners than this are truncated; there is no continuation.
	ImporterFetchLimit = 1000
	// DialogScanLimit bounds how many dialogs are scanned for candidates.
	DialogScanLimit = 200
)

type UseCase struct {
	sessions     deps.SessionRepository
	links        deps.LinkRepository
	joins        deps.JoinRepository
	accounts     deps.AccountProvider
	auth         deps.Authenticator
	entitlements deps.EntitlementChecker
	logger       zerolog.Logger

	logins     *state.Store[int64, *LoginState]
	selections *state.Store[int64, *Selection]
	removals   *state.Store[int64, []int64]
	windows    *state.Store[int64, Window]
	pages      *state.Store[PageKey, *StatsPage]

	// userLocks serializes account-client operations per user; one
	// Telegram session does not tolerate concurrent request bursts well.
	userLocks sync.Map

	now func() time.Time
}

func NewUseCase(
	sessions deps.SessionRepository,
	links deps.LinkRepository,
	joins deps.JoinRepository,
	accounts deps.AccountProvider,
	auth deps.Authenticator,
	entitlements deps.EntitlementChecker,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessions,
		links:        links,
		joins:        joins,
		accounts:     accounts,
		auth:         auth,
		entitlements: entitlements,
		logger:       logger.With().Str("component", "tracker_usecase").Logger(),
		logins:       state.NewStore[int64, *LoginState](),
		selections:   state.NewStore[int64, *Selection](),
		removals:     state.NewStore[int64, []int64](),
		windows:      state.NewStore[int64, Window](),
		pages:        state.NewStore[PageKey, *StatsPage](),
		now:          time.Now,
	}
}

// lockFor returns the per-user serialization lock
func (u *UseCase) lockFor(userID int64) *sync.Mutex {
	mu, _ := u.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// requireEntitlement fails with ErrSubscriptionRequired unless the user
// holds an active subscription.
func (u *UseCase) requireEntitlement(ctx context.Context, userID int64) error {
	ok, err := u.entitlements.HasActive(ctx, userID)
	if err != nil {
		u.logger.Error().Err(err).Int64("user_id", userID).Msg("entitlement check failed")
		return err
	}
	if !ok {
		return trackererrors.ErrSubscriptionRequired
	}
	return nil
}

// account returns the user's connected client, serialized per user
func (u *UseCase) account(ctx context.Context, userID int64) (deps.TelegramAccount, error) {
	return u.accounts.Account(ctx, userID)
}
