// Package consts contains constants for the billing domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandUpgrade       = Command{Name: "upgrade", Description: "See subscription plans"}
	CommandUpgradeStatus = Command{Name: "upgrade_status", Description: "Show your subscription"}
)

// AllCommands contains all billing commands for menu registration
var AllCommands = []Command{
	CommandUpgrade,
	CommandUpgradeStatus,
}
