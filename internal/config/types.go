package config

import "time"

// Config holds all application configuration. It is built once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Forwarder ForwarderConfig `mapstructure:"forwarder"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot credential and the authorized source chat.
type TelegramConfig struct {
	Token        string `mapstructure:"token"          validate:"required"`
	SourceChatID int64  `mapstructure:"source_chat_id" validate:"required"`
}

// RegistryConfig locates the destination registry file and its backups.
type RegistryConfig struct {
	Path       string `mapstructure:"path"        validate:"required"`
	BackupDir  string `mapstructure:"backup_dir"  validate:"required"`
	BackupKeep int    `mapstructure:"backup_keep" validate:"min=1"`
}

// DatabaseConfig configures the SQLite delivery journal.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path"      validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"min=1h"`
}

// ForwarderConfig paces copy calls against the Telegram API.
type ForwarderConfig struct {
	RatePerSecond int           `mapstructure:"rate_per_second" validate:"min=1,max=30"`
	CopyTimeout   time.Duration `mapstructure:"copy_timeout"    validate:"min=1s,max=2m"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a scheduled task with a 6-field cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}
