// Package config provides configuration loading, validation, and management
// for the relay bot. It handles reading from an optional YAML file and the
// environment, setting default values, and validating configuration parameters.
package config

import "errors"

// ErrConfiguration wraps every error returned while building a Config.
var ErrConfiguration = errors.New("configuration error")

// IsSourceChat reports whether chatID is the single chat allowed to issue commands.
func (c *Config) IsSourceChat(chatID int64) bool {
	return chatID != 0 && chatID == c.Telegram.SourceChatID
}
