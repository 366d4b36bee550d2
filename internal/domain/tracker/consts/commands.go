// Package consts contains constants for the tracker domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart       = Command{Name: "start", Description: "Start the bot"}
	CommandHelp        = Command{Name: "help", Description: "Show help message"}
	CommandStartDemo   = Command{Name: "start_demo", Description: "Show a quick usage walkthrough"}
	CommandStatus      = Command{Name: "status", Description: "Show your account connection status"}
	CommandLogin       = Command{Name: "login", Description: "Connect your Telegram account"}
	CommandStopLogin   = Command{Name: "stoplogin", Description: "Cancel the login in progress"}
	CommandLogout      = Command{Name: "logout", Description: "Disconnect your Telegram account"}
	CommandCreateLink  = Command{Name: "create_link", Description: "Create tracked invite links"}
	CommandLinks       = Command{Name: "links", Description: "List your tracked invite links"}
	CommandRemoveLink  = Command{Name: "remove_link", Description: "Remove tracked invite links"}
	CommandStats       = Command{Name: "stats", Description: "Show who joined via a link"}
	CommandHourStatus  = Command{Name: "hour_status", Description: "Joins in the last hour"}
	CommandTodayStatus = Command{Name: "today_status", Description: "Joins since midnight"}
	CommandWeekStatus  = Command{Name: "week_status", Description: "Joins in the last 7 days"}
	CommandMonthStatus = Command{Name: "month_status", Description: "Joins in the last 30 days"}
	CommandYearStatus  = Command{Name: "year_status", Description: "Joins in the last 365 days"}
)

// AllCommands contains all tracker commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandStartDemo,
	CommandStatus,
	CommandLogin,
	CommandStopLogin,
	CommandLogout,
	CommandCreateLink,
	CommandLinks,
	CommandRemoveLink,
	CommandStats,
	CommandHourStatus,
	CommandTodayStatus,
	CommandWeekStatus,
	CommandMonthStatus,
	CommandYearStatus,
}
