package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBroadcastHandler returns a handler for /broadcast sent as a reply.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil || msg.ReplyToMessage == nil {
		h.deps.Logger.ErrorContext(ctx, "Broadcast handler called without reply", "handler", "broadcast", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h broadcastHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "broadcast", "chat_id", msg.Chat.ID, "source_message_id", msg.ReplyToMessage.ID)

	reg, err := h.deps.Registry.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load registry", "error", err)
		reply(ctx, s, log, msg, msgRegistryError)
		return
	}

	if reg.Len() == 0 {
		reply(ctx, s, log, msg, msgNothingToSend)
		return
	}

	log.InfoContext(ctx, "Broadcasting message", "groups", reg.Len())

	report := h.deps.Forwarder.Forward(ctx, sourceRef(msg), reg.Entries())
	failed := report.Failed()
	if len(failed) == 0 {
		reply(ctx, s, log, msg, fmt.Sprintf(msgBroadcastDone, len(report.Outcomes)))
		return
	}

	reply(ctx, s, log, msg, fmt.Sprintf(msgBroadcastSome, len(report.Outcomes)-len(failed), len(report.Outcomes)))
	failures := make([]string, len(failed))
	for i, o := range failed {
		failures[i] = formatFailure(o)
	}
	reply(ctx, s, log, msg, fmt.Sprintf(msgCouldNotSend, strings.Join(failures, ", ")))
}
