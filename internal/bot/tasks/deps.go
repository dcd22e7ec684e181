// Package tasks implements the relay bot's scheduled maintenance tasks.
package tasks

import (
	"log/slog"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/registry"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Registry *registry.Store
	Journal  database.Store
}
