// Package logger contains logger infrastructure
package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

// provideLogger creates logger from config
func provideLogger(logCfg *config.Logging, svcCfg *config.Service) zerolog.Logger {
	return New(logCfg.Level, svcCfg.Name)
}
