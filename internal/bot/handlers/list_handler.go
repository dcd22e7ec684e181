package handlers

import (
	"context"
	"fmt"
	"html"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewListHandler returns a handler for the /list command.
func NewListHandler(deps HandlerDeps) bot.HandlerFunc {
	return listHandler{deps}.Handle
}

type listHandler struct {
	deps HandlerDeps
}

func (h listHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil {
		h.deps.Logger.ErrorContext(ctx, "List handler called without message", "handler", "list", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h listHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "list", "chat_id", msg.Chat.ID)

	reg, err := h.deps.Registry.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load registry", "error", err)
		reply(ctx, s, log, msg, msgRegistryError)
		return
	}

	if reg.Len() == 0 {
		reply(ctx, s, log, msg, msgNoGroups)
		return
	}

	entries := reg.Entries()
	blocks := make([]string, len(entries))
	for i, e := range entries {
		blocks[i] = fmt.Sprintf(msgListEntry, html.EscapeString(e.Name), e.ID)
	}

	log.InfoContext(ctx, "Listing groups", "count", len(entries))
	replyBlocks(ctx, s, log, msg, msgListHeader, blocks)
}
