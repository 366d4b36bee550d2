package business

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

// LoginStage is the position in the login conversation
type LoginStage int

const (
	StageAwaitingPhone LoginStage = iota + 1
	StageAwaitingCode
	StageAwaitingPassword
)

// LoginState is the transient per-user login conversation state
type LoginState struct {
	Stage    LoginStage
	Phone    string
	CodeHash string
	Client   deps.LoginClient
}

// LoginEvent describes what the login state machine did with one input
type LoginEvent int

const (
	// LoginEventPhoneNeeded asks the user for their phone number.
	LoginEventPhoneNeeded LoginEvent = iota + 1
	// LoginEventAlreadyAuthorized means a working session already exists.
	LoginEventAlreadyAuthorized
	// LoginEventBadPhone means the input did not look like a phone number.
	LoginEventBadPhone
	// LoginEventCodeSent asks the user for the one-time code.
	LoginEventCodeSent
	// LoginEventBadCode means the input did not look like a code.
	LoginEventBadCode
	// LoginEventWrongCode means the platform rejected the code; the flow
	// restarts from the phone prompt.
	LoginEventWrongCode
	// LoginEventPasswordNeeded asks for the 2FA password.
	LoginEventPasswordNeeded
	// LoginEventWrongPassword keeps the flow on the password prompt.
	LoginEventWrongPassword
	// LoginEventSuccess means the account is authorized and persisted.
	LoginEventSuccess
)

// LoginResult is the outcome of one login-flow step
type LoginResult struct {
	Event LoginEvent
	Self  *entities.TelegramUser
}

var (
	phoneRe = regexp.MustCompile(`^\+\d{6,15}$`)
	// Codes may be wrapped as "HELLO 12345" to stop Telegram from
	// revoking the message for containing a bare login code.
	codeRe = regexp.MustCompile(`(?i)^(?:hello\s*)?(\d{4,8})$`)
)

// StartLogin begins the login conversation. If a stored session is
// still authorized the flow is not started.
func (u *UseCase) StartLogin(ctx context.Context, userID int64) (*LoginResult, error) {
	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	if account, err := u.accounts.Account(ctx, userID); err == nil {
		self, serr := account.Self(ctx)
		if serr == nil {
			return &LoginResult{Event: LoginEventAlreadyAuthorized, Self: self}, nil
		}
		// Session row exists but the client is unusable; fall through
		// to a fresh login.
		u.accounts.Invalidate(ctx, userID)
	}

	u.abandonLogin(ctx, userID)
	u.logins.Set(userID, &LoginState{Stage: StageAwaitingPhone})
	u.logger.Info().Int64("user_id", userID).Msg("login flow started")
	return &LoginResult{Event: LoginEventPhoneNeeded}, nil
}

// InLogin reports whether a login conversation is in progress
func (u *UseCase) InLogin(userID int64) bool {
	_, ok := u.logins.Get(userID)
	return ok
}

// CancelLogin aborts the login conversation, if any
func (u *UseCase) CancelLogin(ctx context.Context, userID int64) bool {
	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()
	return u.abandonLogin(ctx, userID)
}

// abandonLogin drops login state and closes its client. Caller holds
// the user lock.
func (u *UseCase) abandonLogin(ctx context.Context, userID int64) bool {
	st, ok := u.logins.Clear(userID)
	if !ok {
		return false
	}
	if st.Client != nil {
		if err := st.Client.Close(ctx); err != nil {
			u.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to close login client")
		}
	}
	return true
}

// SubmitLoginInput advances the login conversation with one free-text
// message. Fails with ErrNoLoginInProgress when no flow is active.
func (u *UseCase) SubmitLoginInput(ctx context.Context, userID int64, text string) (*LoginResult, error) {
	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	st, ok := u.logins.Get(userID)
	if !ok {
		return nil, trackererrors.ErrNoLoginInProgress
	}

	text = strings.TrimSpace(text)

	switch st.Stage {
	case StageAwaitingPhone:
		return u.submitPhone(ctx, userID, st, text)
	case StageAwaitingCode:
		return u.submitCode(ctx, userID, st, text)
	case StageAwaitingPassword:
		return u.submitPassword(ctx, userID, st, text)
	default:
		u.abandonLogin(ctx, userID)
		return nil, trackererrors.ErrNoLoginInProgress
	}
}

func (u *UseCase) submitPhone(ctx context.Context, userID int64, st *LoginState, text string) (*LoginResult, error) {
	phone := strings.ReplaceAll(text, " ", "")
	if !phoneRe.MatchString(phone) {
		return &LoginResult{Event: LoginEventBadPhone}, nil
	}

	client, err := u.auth.NewLoginClient(ctx, userID, phone)
	if err != nil {
		u.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create login client")
		u.abandonLogin(ctx, userID)
		return nil, err
	}

	// The credential file for this phone may already be authorized;
	// no OTP round is needed then.
	if ok, aerr := client.IsAuthorized(ctx); aerr == nil && ok {
		st.Phone = phone
		st.Client = client
		u.logins.Set(userID, st)
		return u.completeLogin(ctx, userID, st)
	}

	codeHash, err := client.SendCode(ctx, phone)
	if err != nil {
		_ = client.Close(ctx)
		u.abandonLogin(ctx, userID)
		if errors.Is(err, trackererrors.ErrInvalidPhone) {
			// Restart from the phone prompt
			u.logins.Set(userID, &LoginState{Stage: StageAwaitingPhone})
			return &LoginResult{Event: LoginEventBadPhone}, nil
		}
		return nil, err
	}

	st.Stage = StageAwaitingCode
	st.Phone = phone
	st.CodeHash = codeHash
	st.Client = client
	u.logins.Set(userID, st)
	return &LoginResult{Event: LoginEventCodeSent}, nil
}

func (u *UseCase) submitCode(ctx context.Context, userID int64, st *LoginState, text string) (*LoginResult, error) {
	m := codeRe.FindStringSubmatch(text)
	if m == nil {
		return &LoginResult{Event: LoginEventBadCode}, nil
	}
	code := m[1]

	err := st.Client.SignIn(ctx, st.Phone, code, st.CodeHash)
	switch {
	case err == nil:
		return u.completeLogin(ctx, userID, st)
	case errors.Is(err, trackererrors.ErrTwoFactorNeeded):
		st.Stage = StageAwaitingPassword
		u.logins.Set(userID, st)
		return &LoginResult{Event: LoginEventPasswordNeeded}, nil
	case errors.Is(err, trackererrors.ErrWrongCode):
		// A rejected code invalidates the whole attempt; restart from
		// the phone prompt with a fresh client.
		u.abandonLogin(ctx, userID)
		u.logins.Set(userID, &LoginState{Stage: StageAwaitingPhone})
		return &LoginResult{Event: LoginEventWrongCode}, nil
	default:
		u.abandonLogin(ctx, userID)
		return nil, err
	}
}

func (u *UseCase) submitPassword(ctx context.Context, userID int64, st *LoginState, text string) (*LoginResult, error) {
	err := st.Client.Password(ctx, text)
	switch {
	case err == nil:
		return u.completeLogin(ctx, userID, st)
	case errors.Is(err, trackererrors.ErrWrongPassword):
		return &LoginResult{Event: LoginEventWrongPassword}, nil
	default:
		u.abandonLogin(ctx, userID)
		return nil, err
	}
}

// completeLogin persists the session and promotes the client into the
// account cache. Caller holds the user lock.
func (u *UseCase) completeLogin(ctx context.Context, userID int64, st *LoginState) (*LoginResult, error) {
	self, err := st.Client.Self(ctx)
	if err != nil {
		u.abandonLogin(ctx, userID)
		return nil, err
	}

	session := &entities.Session{
		UserID:      userID,
		Phone:       st.Phone,
		SessionFile: st.Client.SessionFile(),
		IsActive:    true,
	}
	if err := u.sessions.Upsert(ctx, session); err != nil {
		u.abandonLogin(ctx, userID)
		return nil, err
	}

	u.logins.Clear(userID)
	u.auth.Promote(userID, st.Client)
	u.logger.Info().Int64("user_id", userID).Msg("login completed")
	return &LoginResult{Event: LoginEventSuccess, Self: self}, nil
}

// ResendCode requests a fresh one-time code for the flow in progress.
// Only valid while the flow awaits a code.
func (u *UseCase) ResendCode(ctx context.Context, userID int64) error {
	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	st, ok := u.logins.Get(userID)
	if !ok || st.Stage != StageAwaitingCode {
		return trackererrors.ErrNoLoginInProgress
	}

	codeHash, err := st.Client.SendCode(ctx, st.Phone)
	if err != nil {
		return err
	}
	st.CodeHash = codeHash
	u.logins.Set(userID, st)
	return nil
}

// SessionStatus returns the profile behind the stored session, or
// ErrNoSession / ErrSessionUnauthorized.
func (u *UseCase) SessionStatus(ctx context.Context, userID int64) (*entities.TelegramUser, error) {
	account, err := u.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	return account.Self(ctx)
}

// Logout tears down the user's session: the cached client, the stored
// credential artifact and the session row. Tracked links and join data
// are kept.
func (u *UseCase) Logout(ctx context.Context, userID int64) error {
	mu := u.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	u.abandonLogin(ctx, userID)

	sess, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return err
	}

	u.accounts.Invalidate(ctx, userID)

	if err := u.auth.RemoveCredential(sess.SessionFile); err != nil {
		u.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to remove credential file")
	}

	if err := u.sessions.Delete(ctx, userID); err != nil {
		return err
	}

	u.logger.Info().Int64("user_id", userID).Msg("logged out")
	return nil
}

// HasSession reports whether a session row exists for the user
func (u *UseCase) HasSession(ctx context.Context, userID int64) (bool, error) {
	_, err := u.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, trackererrors.ErrNoSession) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
