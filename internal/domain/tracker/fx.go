// Package tracker wires the invite-link tracking domain
package tracker

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	trackertg "github.com/getaipilot/joincounter/internal/domain/tracker/delivery/telegram"
	"github.com/getaipilot/joincounter/internal/domain/tracker/deps"
	"github.com/getaipilot/joincounter/internal/domain/tracker/repository/postgres"
	"github.com/getaipilot/joincounter/internal/domain/tracker/usecase/business"
	"github.com/getaipilot/joincounter/internal/infrastructure/telegram"
)

var Module = fx.Module(
	"tracker",
	fx.Provide(
		NewSessionRepository,
		NewLinkRepository,
		NewJoinRepository,
		business.NewUseCase,
		trackertg.NewHandlers,
		trackertg.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

func NewSessionRepository(db *gorm.DB) deps.SessionRepository {
	return postgres.NewSessionRepository(db)
}

func NewLinkRepository(db *gorm.DB) deps.LinkRepository {
	return postgres.NewLinkRepository(db)
}

func NewJoinRepository(db *gorm.DB) deps.JoinRepository {
	return postgres.NewJoinRepository(db)
}

func registerRoutes(router *trackertg.Router, bot *telegram.Bot, log zerolog.Logger) {
	router.RegisterRoutes(bot)
	log.Info().Msg("tracker routes registered")
}
