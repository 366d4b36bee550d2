package mtproto

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
)

// Module provides MTProto account-client components for fx DI
var Module = fx.Module("mtproto",
	fx.Provide(NewClientCacheFx),
	fx.Provide(
		func(c *ClientCache) deps.AccountProvider { return c },
		func(c *ClientCache) deps.Authenticator { return c },
	),
)

// NewClientCacheFx creates the per-user client cache with fx lifecycle management
func NewClientCacheFx(
	lc fx.Lifecycle,
	cfg *config.Telegram,
	sessions deps.SessionRepository,
	logger zerolog.Logger,
) *ClientCache {
	cache := NewClientCache(cfg, sessions, logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Disconnecting user account clients")
			cache.Shutdown(ctx)
			return nil
		},
	})

	return cache
}
