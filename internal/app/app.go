// Package app contains application bootstrap
package app

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/config"
	"github.com/getaipilot/joincounter/internal/domain"
	billingconsts "github.com/getaipilot/joincounter/internal/domain/billing/consts"
	trackerconsts "github.com/getaipilot/joincounter/internal/domain/tracker/consts"
	"github.com/getaipilot/joincounter/internal/infrastructure"
	"github.com/getaipilot/joincounter/internal/infrastructure/telegram"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, bots, kafka)
		infrastructure.Module,

		// Domain (tracking and billing business logic)
		domain.Module,

		fx.Invoke(registerBotMeta),
	)
}

// registerBotMeta publishes the command menu and bot description
func registerBotMeta(lc fx.Lifecycle, bot *telegram.Bot, log zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			commands := make([]models.BotCommand, 0, len(trackerconsts.AllCommands)+len(billingconsts.AllCommands))
			for _, c := range trackerconsts.AllCommands {
				commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
			}
			for _, c := range billingconsts.AllCommands {
				commands = append(commands, models.BotCommand{Command: c.Name, Description: c.Description})
			}

			if _, err := bot.Raw().SetMyCommands(ctx, &tgbot.SetMyCommandsParams{Commands: commands}); err != nil {
				log.Warn().Err(err).Msg("failed to set bot commands")
			}

			if _, err := bot.Raw().SetMyDescription(ctx, &tgbot.SetMyDescriptionParams{
				Description: "Creates invite links for your private groups and channels and counts who joins through them.",
			}); err != nil {
				log.Warn().Err(err).Msg("failed to set bot description")
			}
			return nil
		},
	})
}
