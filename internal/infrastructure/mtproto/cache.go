package mtproto

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	trackererrors "github.com/getaipilot/joincounter/internal/domain/tracker/errors"
)

// ClientCache keeps one connected MTProto client per logged-in user.
// Clients are created lazily from the persisted session record and
// reused across bot commands.
type ClientCache struct {
	cfg      *config.Telegram
	sessions deps.SessionRepository
	logger   zerolog.Logger

	// mu guards the map only; connects happen under the per-user lock
	// so one user's slow reconnect never blocks another user.
	mu        sync.Mutex
	clients   map[int64]*UserClient
	userLocks sync.Map
}

// NewClientCache creates the per-user client cache
func NewClientCache(cfg *config.Telegram, sessions deps.SessionRepository, logger zerolog.Logger) *ClientCache {
	return &ClientCache{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger.With().Str("component", "mtproto_cache").Logger(),
		clients:  make(map[int64]*UserClient),
	}
}

// lockFor returns the lock serializing connects for one user
func (c *ClientCache) lockFor(userID int64) *sync.Mutex {
	mu, _ := c.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Account returns a live authorized client for the user, creating and
// connecting one from the stored session when needed.
func (c *ClientCache) Account(ctx context.Context, userID int64) (deps.TelegramAccount, error) {
	lock := c.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	c.mu.Lock()
	cached, ok := c.clients[userID]
	if ok && !cached.IsConnected() {
		// Connection dropped; rebuild from the stored session
		delete(c.clients, userID)
		ok = false
	}
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	sess, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sess.IsActive {
		return nil, trackererrors.ErrNoSession
	}

	client, err := NewUserClient(UserClientConfig{
		APIID:       c.cfg.APIID,
		APIHash:     c.cfg.APIHash,
		SessionDir:  c.cfg.SessionDir,
		SessionFile: sess.SessionFile,
		Logger:      c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	authorized, err := client.IsAuthorized(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if !authorized {
		_ = client.Disconnect(ctx)
		c.logger.Warn().Int64("user_id", userID).Msg("stored session is no longer authorized")
		return nil, trackererrors.ErrSessionUnauthorized
	}

	c.mu.Lock()
	c.clients[userID] = client
	c.mu.Unlock()
	c.logger.Info().Int64("user_id", userID).Msg("account client connected")
	return client, nil
}

// Invalidate drops and disconnects the cached client, if any
func (c *ClientCache) Invalidate(ctx context.Context, userID int64) {
	c.mu.Lock()
	client, ok := c.clients[userID]
	if ok {
		delete(c.clients, userID)
	}
	c.mu.Unlock()

	if ok {
		if err := client.Disconnect(ctx); err != nil {
			c.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to disconnect invalidated client")
		}
	}
}

// NewLoginClient creates a fresh, connected client for the login flow.
// Any cached client for the user is dropped first so the new credential
// starts from a clean slate.
func (c *ClientCache) NewLoginClient(ctx context.Context, userID int64, phone string) (deps.LoginClient, error) {
	c.Invalidate(ctx, userID)

	client, err := NewUserClient(UserClientConfig{
		APIID:       c.cfg.APIID,
		APIHash:     c.cfg.APIHash,
		SessionDir:  c.cfg.SessionDir,
		SessionFile: SessionFileName(userID, phone),
		Logger:      c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create login client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// Promote seeds the cache with a freshly authorized login client
func (c *ClientCache) Promote(userID int64, client deps.LoginClient) {
	uc, ok := client.(*UserClient)
	if !ok {
		c.logger.Error().Int64("user_id", userID).Msg("cannot promote unknown client type")
		return
	}

	c.mu.Lock()
	old, had := c.clients[userID]
	c.clients[userID] = uc
	c.mu.Unlock()

	if had && old != uc {
		_ = old.Disconnect(context.Background())
	}
	c.logger.Info().Int64("user_id", userID).Msg("login client promoted")
}

// RemoveCredential deletes the stored credential artifact on logout
func (c *ClientCache) RemoveCredential(sessionFile string) error {
	if sessionFile == "" {
		return nil
	}
	path := filepath.Join(c.cfg.SessionDir, filepath.Base(sessionFile))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential %s: %w", sessionFile, err)
	}
	return nil
}

// Shutdown disconnects every cached client
func (c *ClientCache) Shutdown(ctx context.Context) {
	c.mu.Lock()
	clients := c.clients
	c.clients = make(map[int64]*UserClient)
	c.mu.Unlock()

	for userID, client := range clients {
		if err := client.Disconnect(ctx); err != nil {
			c.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to disconnect client on shutdown")
		}
	}
}
