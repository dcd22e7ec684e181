package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewHelpHandler returns a handler for the /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

// helpHandler processes the /help command using injected dependencies.
type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil {
		h.deps.Logger.WarnContext(ctx, "Help handler received update with nil message", "handler", "help", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h helpHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "help")
	log.InfoContext(ctx, "Handling /help command", "chat_id", msg.Chat.ID)
	reply(ctx, s, log, msg, helpText)
}
