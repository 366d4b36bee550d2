// Package deps defines the interfaces the tracker domain depends on
package deps

import (
	"context"
	"time"

	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
)

// SessionRepository persists user authorization records
type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*entities.Session, error)
	Upsert(ctx context.Context, session *entities.Session) error
	Delete(ctx context.Context, userID int64) error
}

// LinkRepository persists tracked invite links
type LinkRepository interface {
	Save(ctx context.Context, link *entities.InviteLink) error
	ListActive(ctx context.Context, userID int64) ([]entities.InviteLink, error)
	Get(ctx context.Context, userID, linkID int64) (*entities.InviteLink, error)
	// DeleteWithJoins removes the links and every join row referencing them
	// in one transaction.
	DeleteWithJoins(ctx context.Context, userID int64, linkIDs []int64) error
}

// JoinRepository persists the join rows owned by the sync engine
type JoinRepository interface {
	// ReplaceForLink atomically replaces the whole join set for one link.
	ReplaceForLink(ctx context.Context, userID, linkID int64, rows []entities.JoinRecord) error
	CountForLink(ctx context.Context, userID, linkID int64, since, until *time.Time) (int64, error)
	// PageForLink returns one page ordered by join time descending.
	PageForLink(ctx context.Context, userID, linkID int64, since, until *time.Time, offset, limit int) ([]entities.JoinRecord, error)
}

// TelegramAccount is a connected, authorized user-account client
type TelegramAccount interface {
	// Dialogs lists private groups/channels where the user is creator or admin.
	Dialogs(ctx context.Context, scanLimit, max int) ([]entities.DialogInfo, error)
	ExportInviteLink(ctx context.Context, peer entities.PeerRef) (string, error)
	// InviteImporters lists accounts that joined via the link slug, up to limit.
	InviteImporters(ctx context.Context, peer entities.PeerRef, linkSlug string, limit int) ([]entities.Importer, error)
	// ResolveUser resolves profile fields for display-name derivation.
	ResolveUser(ctx context.Context, userID int64) (*entities.TelegramUser, error)
	Self(ctx context.Context) (*entities.TelegramUser, error)
}

// AccountProvider hands out cached authorized clients per user
type AccountProvider interface {
	// Account returns a live client for the user, reconnecting if needed.
	// Fails with tracker ErrNoSession / ErrSessionUnauthorized.
	Account(ctx context.Context, userID int64) (TelegramAccount, error)
	// Invalidate drops and disconnects the cached client, if any.
	Invalidate(ctx context.Context, userID int64)
}

// LoginClient is an in-progress, possibly unauthorized client used by the
// login state machine. It is promoted into the account cache on success.
type LoginClient interface {
	TelegramAccount
	IsAuthorized(ctx context.Context) (bool, error)
	// SendCode requests a one-time code and returns the verification handle.
	SendCode(ctx context.Context, phone string) (codeHash string, err error)
	// SignIn verifies the code. Fails with ErrWrongCode or ErrTwoFactorNeeded.
	SignIn(ctx context.Context, phone, code, codeHash string) error
	// Password verifies the 2FA password. Fails with ErrWrongPassword.
	Password(ctx context.Context, password string) error
	// SessionFile is the credential artifact name persisted in the Session row.
	SessionFile() string
	Close(ctx context.Context) error
}

// Authenticator creates login clients and promotes them after authorization
type Authenticator interface {
	NewLoginClient(ctx context.Context, userID int64, phone string) (LoginClient, error)
	// Promote seeds the account cache with a freshly authorized client.
	Promote(userID int64, client LoginClient)
	// RemoveCredential deletes the stored credential artifact on logout.
	RemoveCredential(sessionFile string) error
}

// EntitlementChecker gates premium operations on an active subscription
type EntitlementChecker interface {
	HasActive(ctx context.Context, userID int64) (bool, error)
}
