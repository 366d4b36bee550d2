// Package domain aggregates the domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/getaipilot/joincounter/internal/domain/billing"
	"github.com/getaipilot/joincounter/internal/domain/tracker"
)

// Module provides all domain components for fx dependency injection
var Module = fx.Module("domain",
	tracker.Module,
	billing.Module,
)
