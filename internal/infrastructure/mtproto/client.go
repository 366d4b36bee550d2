package mtproto

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/getaipilot/joincounter/internal/domain/tracker/entities"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

const (
	connectAttempts = 3
	connectBackoff  = 2 * time.Second
)

// UserClient is an MTProto client bound to one end user's account
type UserClient struct {
	client  *telegram.Client
	storage *FileSessionStorage

	apiID   int
	apiHash string

	connected     bool
	disconnecting bool
	mu            sync.RWMutex
	cancelFunc    context.CancelFunc
	runDone       chan struct{}

	logger zerolog.Logger

	api *tg.Client

	rateLimiter *rate.Limiter
}

// UserClientConfig holds configuration for a per-user client
type UserClientConfig struct {
	APIID       int
	APIHash     string
	SessionDir  string
	SessionFile string
	Logger      zerolog.Logger
}

// maskPhoneNumber masks phone number for logging (keeps first 2 and last 2 digits)
func maskPhoneNumber(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	return phone[:2] + strings.Repeat("*", len(phone)-4) + phone[len(phone)-2:]
}

// NewUserClient creates a client backed by the given credential file
func NewUserClient(cfg UserClientConfig) (*UserClient, error) {
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("APIID is required")
	}
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("APIHash is required")
	}
	if cfg.SessionFile == "" {
		return nil, fmt.Errorf("SessionFile is required")
	}
	if cfg.SessionDir == "" {
		cfg.SessionDir = "sessions"
	}

	storage, err := NewFileSessionStorage(cfg.SessionDir, cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create session storage: %w", err)
	}

	return &UserClient{
		apiID:       cfg.APIID,
		apiHash:     cfg.APIHash,
		storage:     storage,
		logger:      cfg.Logger.With().Str("component", "mtproto_client").Str("session", cfg.SessionFile).Logger(),
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 10), // 10 requests per second
	}, nil
}

// SessionFile returns the credential file name backing this client
func (c *UserClient) SessionFile() string {
	return c.storage.FileName()
}

// Connect connects to Telegram with bounded linear-backoff retries.
// It does not authenticate; authorization is checked and driven separately
// by the login flow.
func (c *UserClient) Connect(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		err := c.connectOnce(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < connectAttempts {
			delay := connectBackoff * time.Duration(attempt)
			c.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Dur("retry_delay", delay).
				Msg("connect failed, retrying")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	c.logger.Error().Err(lastErr).Msg("connect failed after all attempts")
	return fmt.Errorf("%w: %v", trackererrors.ErrConnectFailed, lastErr)
}

// connectOnce performs a single connection attempt
func (c *UserClient) connectOnce(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	if c.disconnecting {
		c.mu.Unlock()
		return fmt.Errorf("disconnect in progress, cannot connect")
	}
	// Keep the lock to prevent concurrent connection attempts
	defer c.mu.Unlock()

	c.client = telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: c.storage,
	})

	clientCtx, cancel := context.WithCancel(context.Background())
	c.cancelFunc = cancel

	readyChan := make(chan struct{})
	errChan := make(chan error, 1)
	c.runDone = make(chan struct{})

	runDone := c.runDone
	go func() {
		defer close(runDone)
		err := c.client.Run(clientCtx, func(ctx context.Context) error {
			c.api = c.client.API()

			c.mu.Lock()
			c.connected = true
			c.mu.Unlock()

			close(readyChan)

			// Keep connection alive until disconnect
			<-ctx.Done()
			return ctx.Err()
		})
		select {
		case errChan <- err:
		default:
		}
	}()

	select {
	case <-readyChan:
		c.logger.Debug().Msg("connected to Telegram")
		return nil
	case err := <-errChan:
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Disconnect disconnects from Telegram with graceful shutdown.
// Safe for concurrent use and safe to call when already disconnected.
func (c *UserClient) Disconnect(ctx context.Context) error {
	c.mu.Lock()

	if c.disconnecting || !c.connected {
		c.mu.Unlock()
		return nil
	}

	c.disconnecting = true
	cancelFunc := c.cancelFunc
	runDone := c.runDone
	c.mu.Unlock()

	if cancelFunc != nil {
		cancelFunc()
		if runDone != nil {
			select {
			case <-runDone:
			case <-ctx.Done():
				c.logger.Warn().Msg("disconnect timeout reached while waiting for client shutdown")
			}
		}
	}

	c.mu.Lock()
	c.client = nil
	c.api = nil
	c.connected = false
	c.cancelFunc = nil
	c.runDone = nil
	c.disconnecting = false
	c.mu.Unlock()

	c.logger.Debug().Msg("disconnected from Telegram")
	return nil
}

// Close disconnects the client; alias used by the login flow
func (c *UserClient) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}

// IsConnected checks if client is connected to Telegram
func (c *UserClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// apiClient returns the tg API client or an error when disconnected
func (c *UserClient) apiClient() (*tg.Client, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.connected || c.api == nil {
		return nil, trackererrors.ErrConnectFailed
	}
	return c.api, nil
}

// IsAuthorized reports whether the stored credential is accepted
func (c *UserClient) IsAuthorized(ctx context.Context) (bool, error) {
	if _, err := c.apiClient(); err != nil {
		return false, err
	}
	status, err := c.client.Auth().Status(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check auth status: %w", err)
	}
	return status.Authorized, nil
}

// SendCode requests a one-time code for the phone and returns the
// verification handle Telegram expects back on sign-in.
func (c *UserClient) SendCode(ctx context.Context, phone string) (string, error) {
	if _, err := c.apiClient(); err != nil {
		return "", err
	}

	sent, err := c.client.Auth().SendCode(ctx, phone, auth.SendCodeOptions{})
	if err != nil {
		c.logger.Error().Err(err).Str("phone", maskPhoneNumber(phone)).Msg("send code failed")
		return "", classifyAuthErr(err)
	}

	code, ok := sent.(*tg.AuthSentCode)
	if !ok {
		return "", fmt.Errorf("unexpected sent code response %T", sent)
	}

	c.logger.Info().Str("phone", maskPhoneNumber(phone)).Msg("authentication code sent")
	return code.PhoneCodeHash, nil
}

// SignIn verifies the one-time code
func (c *UserClient) SignIn(ctx context.Context, phone, code, codeHash string) error {
	if _, err := c.apiClient(); err != nil {
		return err
	}

	_, err := c.client.Auth().SignIn(ctx, phone, code, codeHash)
	if err != nil {
		if stderrors.Is(err, auth.ErrPasswordAuthNeeded) || tgerr.Is(err, "SESSION_PASSWORD_NEEDED") {
			return trackererrors.ErrTwoFactorNeeded
		}
		c.logger.Warn().Err(err).Msg("sign in failed")
		return classifyAuthErr(err)
	}

	c.logger.Info().Msg("sign in successful")
	return nil
}

// Password verifies the 2FA password
func (c *UserClient) Password(ctx context.Context, password string) error {
	if _, err := c.apiClient(); err != nil {
		return err
	}

	_, err := c.client.Auth().Password(ctx, password)
	if err != nil {
		c.logger.Warn().Err(err).Msg("2FA authentication failed")
		return classifyAuthErr(err)
	}

	c.logger.Info().Msg("2FA authentication successful")
	return nil
}

// classifyAuthErr maps platform auth errors onto the domain error kinds
func classifyAuthErr(err error) error {
	switch {
	case tgerr.Is(err, "PHONE_CODE_INVALID"), tgerr.Is(err, "PHONE_CODE_EXPIRED"):
		return trackererrors.ErrWrongCode
	case tgerr.Is(err, "PASSWORD_HASH_INVALID"):
		return trackererrors.ErrWrongPassword
	case tgerr.Is(err, "PHONE_NUMBER_INVALID"):
		return trackererrors.ErrInvalidPhone
	case tgerr.Is(err, "SESSION_REVOKED"), tgerr.Is(err, "AUTH_KEY_UNREGISTERED"):
		return trackererrors.ErrSessionUnauthorized
	default:
		return err
	}
}

// Self returns the authenticated account's profile
func (c *UserClient) Self(ctx context.Context) (*entities.TelegramUser, error) {
	if _, err := c.apiClient(); err != nil {
		return nil, err
	}

	me, err := c.client.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get self: %w", err)
	}
	return userFromTG(me), nil
}

// userFromTG converts a tg.User into the domain profile type
func userFromTG(u *tg.User) *entities.TelegramUser {
	return &entities.TelegramUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
	}
}

// Dialogs lists non-public groups and channels where the user holds
// creator or administrator rights, up to max entries. One-to-one chats
// and publicly addressable channels are excluded.
func (c *UserClient) Dialogs(ctx context.Context, scanLimit, max int) ([]entities.DialogInfo, error) {
	api, err := c.apiClient()
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	res, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      scanLimit,
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to get dialogs")
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}

	var chats []tg.ChatClass
	switch d := res.(type) {
	case *tg.MessagesDialogs:
		chats = d.Chats
	case *tg.MessagesDialogsSlice:
		chats = d.Chats
	default:
		return nil, fmt.Errorf("unexpected dialogs response %T", res)
	}

	infos := make([]entities.DialogInfo, 0, max)
	for _, chat := range chats {
		if len(infos) >= max {
			break
		}

		switch ent := chat.(type) {
		case *tg.Chat:
			// Basic groups are always private
			if ent.Deactivated {
				continue
			}
			if !isChatAdmin(ent) {
				continue
			}
			infos = append(infos, entities.DialogInfo{
				Peer:  entities.PeerRef{ChatID: ent.ID, Type: entities.ChatTypeGroup},
				Title: ent.Title,
			})
		case *tg.Channel:
			// A username means the channel is publicly addressable
			if _, public := ent.GetUsername(); public {
				continue
			}
			if !isChannelAdmin(ent) {
				continue
			}
			hash, _ := ent.GetAccessHash()
			infos = append(infos, entities.DialogInfo{
				Peer:  entities.PeerRef{ChatID: ent.ID, AccessHash: hash, Type: entities.ChatTypeChannel},
				Title: ent.Title,
			})
		}
	}

	c.logger.Debug().Int("eligible", len(infos)).Msg("dialogs scanned")
	return infos, nil
}

func isChatAdmin(ent *tg.Chat) bool {
	if ent.Creator {
		return true
	}
	_, ok := ent.GetAdminRights()
	return ok
}

func isChannelAdmin(ent *tg.Channel) bool {
	if ent.Creator {
		return true
	}
	_, ok := ent.GetAdminRights()
	return ok
}

// inputPeer converts a stored peer reference to an InputPeer
func inputPeer(peer entities.PeerRef) tg.InputPeerClass {
	if peer.Type == entities.ChatTypeChannel {
		return &tg.InputPeerChannel{ChannelID: peer.ChatID, AccessHash: peer.AccessHash}
	}
	return &tg.InputPeerChat{ChatID: peer.ChatID}
}

// ExportInviteLink creates a fresh invite link for the chat
func (c *UserClient) ExportInviteLink(ctx context.Context, peer entities.PeerRef) (string, error) {
	api, err := c.apiClient()
	if err != nil {
		return "", err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	res, err := api.MessagesExportChatInvite(ctx, &tg.MessagesExportChatInviteRequest{
		Peer: inputPeer(peer),
	})
	if err != nil {
		c.logger.Error().Err(err).Int64("chat_id", peer.ChatID).Msg("failed to export invite link")
		return "", fmt.Errorf("failed to export invite link: %w", err)
	}

	exported, ok := res.(*tg.ChatInviteExported)
	if !ok {
		return "", fmt.Errorf("unexpected exported invite response %T", res)
	}

	c.logger.Info().Int64("chat_id", peer.ChatID).Msg("invite link exported")
	return exported.Link, nil
}

// InviteImporters lists accounts that joined via the given link slug.
// At most limit entries are returned; no continuation past the cap.
func (c *UserClient) InviteImporters(ctx context.Context, peer entities.PeerRef, linkSlug string, limit int) ([]entities.Importer, error) {
	api, err := c.apiClient()
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	req := &tg.MessagesGetChatInviteImportersRequest{
		Peer:       inputPeer(peer),
		OffsetUser: &tg.InputUserEmpty{},
		Limit:      limit,
	}
	req.SetLink(linkSlug)

	res, err := api.MessagesGetChatInviteImporters(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Int64("chat_id", peer.ChatID).Msg("failed to get invite importers")
		return nil, fmt.Errorf("failed to get invite importers: %w", err)
	}

	// Profiles for name derivation ride along in the response
	profiles := make(map[int64]*entities.TelegramUser, len(res.Users))
	for _, u := range res.Users {
		if user, ok := u.(*tg.User); ok {
			profiles[user.ID] = userFromTG(user)
		}
	}

	importers := make([]entities.Importer, 0, len(res.Importers))
	for _, imp := range res.Importers {
		if imp.UserID == 0 {
			continue
		}

		joinedAt := time.Now().UTC()
		if imp.Date != 0 {
			joinedAt = time.Unix(int64(imp.Date), 0).UTC()
		}

		name := fmt.Sprintf("id:%d", imp.UserID)
		if profile, ok := profiles[imp.UserID]; ok {
			name = profile.DisplayName()
		}

		importers = append(importers, entities.Importer{
			UserID:      imp.UserID,
			DisplayName: name,
			JoinedAt:    joinedAt,
		})
	}

	c.logger.Debug().
		Int64("chat_id", peer.ChatID).
		Int("importers", len(importers)).
		Msg("invite importers fetched")
	return importers, nil
}

// ResolveUser resolves profile fields for one account. Telegram only
// allows this for accounts the session can already address; callers must
// treat failure as a soft miss.
func (c *UserClient) ResolveUser(ctx context.Context, userID int64) (*entities.TelegramUser, error) {
	api, err := c.apiClient()
	if err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	users, err := api.UsersGetUsers(ctx, []tg.InputUserClass{
		&tg.InputUser{UserID: userID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	for _, u := range users {
		if user, ok := u.(*tg.User); ok && user.ID == userID {
			return userFromTG(user), nil
		}
	}

	return nil, fmt.Errorf("user %d not found", userID)
}
