package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/forwarder"
	"github.com/edgard/relaybot/internal/registry"
)

// Sender posts replies back to the operator. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Forwarder copies a source message into destination chats.
type Forwarder interface {
	Forward(ctx context.Context, src forwarder.SourceRef, targets []registry.Entry) forwarder.Report
}

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Registry  *registry.Store
	Forwarder Forwarder
	Journal   database.Store
}
