// Package telegram handles the setup of the Telegram bot: construction,
// handler registration and the command menu.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/bot/handlers"
)

// Registrar is the subset of *bot.Bot used to register handlers.
type Registrar interface {
	RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, f bot.HandlerFunc, m ...bot.Middleware) string
	RegisterHandlerMatchFunc(matchFunc bot.MatchFunc, f bot.HandlerFunc, m ...bot.Middleware) string
}

// CommandSetter is the subset of *bot.Bot used to publish the command menu.
type CommandSetter interface {
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
}

// NewTelegramBot creates a new Telegram bot instance using the go-telegram/bot library.
// Unmatched updates and polling errors are logged through logger; opts may override both.
func NewTelegramBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	opts = append([]bot.Option{
		bot.WithDefaultHandler(NewDefaultHandler(logger)),
		bot.WithErrorsHandler(NewErrorsHandler(logger)),
	}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created successfully", "token_prefix", tokenPrefix(token))
	return b, nil
}

// NewDefaultHandler handles updates no command matched. They are expected
// (ordinary chat traffic, commands from other chats) and logged at debug only.
func NewDefaultHandler(logger *slog.Logger) bot.HandlerFunc {
	log := logger.With("component", "default_handler")
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		args := []any{"update_id", update.ID}
		if msg := handlers.SourceMessage(update); msg != nil {
			args = append(args, "chat_id", msg.Chat.ID, "message_id", msg.ID)
		}
		log.DebugContext(ctx, "Unhandled update", args...)
	}
}

// NewErrorsHandler logs errors reported by the polling loop.
func NewErrorsHandler(logger *slog.Logger) bot.ErrorsHandler {
	log := logger.With("component", "telegram_bot")
	return func(err error) {
		log.Error("Telegram bot error", "error", err)
	}
}

func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return "..."
	}
	return token[:8] + "..."
}

// applyMiddleware wraps a handler function with a slice of middleware.
// Middleware are applied in reverse order so the first one in the slice is the outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers command handlers with the Telegram bot instance.
// Handlers carrying a MatchFunc are registered with it; the rest by pattern.
func RegisterHandlers(b Registrar, logger *slog.Logger, registeredHandlers map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	if len(registeredHandlers) == 0 {
		log.Warn("No handlers provided for registration.")
		return nil
	}

	log.Info("Registering Telegram handlers...", "count", len(registeredHandlers))

	for _, name := range sortedKeys(registeredHandlers) {
		regHandler := registeredHandlers[name]
		if regHandler.Handler == nil {
			log.Warn("Skipping registration for nil handler", "pattern", regHandler.Pattern)
			continue
		}

		finalHandler := applyMiddleware(regHandler.Handler, regHandler.Middleware)
		if regHandler.MatchFunc != nil {
			b.RegisterHandlerMatchFunc(regHandler.MatchFunc, finalHandler)
			log.Debug("Registered match func handler", "command", name, "middleware_count", len(regHandler.Middleware))
			continue
		}

		b.RegisterHandler(regHandler.HandlerType, regHandler.Pattern, regHandler.MatchType, finalHandler)
		log.Debug("Registered handler", "pattern", regHandler.Pattern, "match_type", regHandler.MatchType, "middleware_count", len(regHandler.Middleware))
	}

	log.Info("Registered Telegram handlers successfully", "count", len(registeredHandlers))
	return nil
}

// BotCommands builds the command menu from the registered handlers.
func BotCommands(registeredHandlers map[string]handlers.RegisteredHandler) []models.BotCommand {
	commands := make([]models.BotCommand, 0, len(registeredHandlers))
	for _, name := range sortedKeys(registeredHandlers) {
		h := registeredHandlers[name]
		if h.Description == "" {
			continue
		}
		commands = append(commands, models.BotCommand{
			Command:     strings.TrimPrefix(name, "/"),
			Description: h.Description,
		})
	}
	return commands
}

// SetCommands publishes the command menu to the source chat only, so other
// chats are not offered commands they cannot run.
func SetCommands(ctx context.Context, b CommandSetter, sourceChatID int64, registeredHandlers map[string]handlers.RegisteredHandler) error {
	commands := BotCommands(registeredHandlers)
	if len(commands) == 0 {
		return nil
	}

	_, err := b.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
		Scope:    &models.BotCommandScopeChat{ChatID: sourceChatID},
	})
	if err != nil {
		return fmt.Errorf("failed to set bot commands: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]handlers.RegisteredHandler) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
