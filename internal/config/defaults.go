package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultRegistryPath       = "group_ids.csv"
	DefaultRegistryBackupDir  = "backups"
	DefaultRegistryBackupKeep = 7

	DefaultDatabasePath      = "relay.db"
	DefaultDatabaseRetention = 30 * 24 * time.Hour

	DefaultForwarderRatePerSecond = 20 // Telegram allows roughly 30 messages per second per bot
	DefaultForwarderCopyTimeout   = 15 * time.Second
)

// DefaultTasks lists the scheduled tasks and when they run.
var DefaultTasks = map[string]TaskConfig{
	"registry_backup": {Enabled: true, Schedule: "0 0 3 * * *"},
	"delivery_prune":  {Enabled: true, Schedule: "0 30 3 * * *"},
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * 0"},
}
