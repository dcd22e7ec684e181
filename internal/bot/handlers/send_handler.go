package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSendHandler returns a handler for /send <name>,<name>,... sent as a reply.
func NewSendHandler(deps HandlerDeps) bot.HandlerFunc {
	return sendHandler{deps}.Handle
}

type sendHandler struct {
	deps HandlerDeps
}

func (h sendHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil || msg.ReplyToMessage == nil {
		h.deps.Logger.ErrorContext(ctx, "Send handler called without reply", "handler", "send", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h sendHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "send", "chat_id", msg.Chat.ID, "source_message_id", msg.ReplyToMessage.ID)

	_, names := splitCommand(msg.Text)
	if names == "" {
		reply(ctx, s, log, msg, msgSendUsage)
		return
	}

	reg, err := h.deps.Registry.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load registry", "error", err)
		reply(ctx, s, log, msg, msgRegistryError)
		return
	}

	targets, unresolved := reg.Resolve(names)

	notFound := make([]string, len(unresolved))
	for i, name := range unresolved {
		notFound[i] = fmt.Sprintf("<code>%s</code> (not found)", html.EscapeString(name))
	}
	if len(targets) == 0 && len(notFound) == 0 {
		reply(ctx, s, log, msg, msgSendUsage)
		return
	}

	log.InfoContext(ctx, "Sending message to named groups", "resolved", len(targets), "unresolved", len(unresolved))

	report := h.deps.Forwarder.Forward(ctx, sourceRef(msg), targets)
	reportDeliveries(ctx, s, log, msg, report, notFound)
}
