// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/internal/infrastructure/database"
	"github.com/getaipilot/joincounter/internal/infrastructure/kafka"
	"github.com/getaipilot/joincounter/internal/infrastructure/logger"
	"github.com/getaipilot/joincounter/internal/infrastructure/mtproto"
	"github.com/getaipilot/joincounter/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	telegram.Module,
	mtproto.Module,
	kafka.Module,
)
