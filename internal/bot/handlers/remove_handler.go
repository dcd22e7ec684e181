package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/registry"
)

var errGroupNotFound = errors.New("group not found")

// NewRemoveHandler returns a handler for the /remove command.
func NewRemoveHandler(deps HandlerDeps) bot.HandlerFunc {
	return removeHandler{deps}.Handle
}

type removeHandler struct {
	deps HandlerDeps
}

func (h removeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil {
		h.deps.Logger.ErrorContext(ctx, "Remove handler called without message", "handler", "remove", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h removeHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "remove", "chat_id", msg.Chat.ID)

	args := commandArgs(msg.Text)
	if len(args) == 0 {
		reply(ctx, s, log, msg, msgRemoveUsage)
		return
	}

	groupID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		reply(ctx, s, log, msg, msgInvalidGroupID)
		return
	}

	var removedName string
	err = h.deps.Registry.Update(func(reg *registry.Registry) error {
		name, ok := reg.Remove(groupID)
		if !ok {
			return errGroupNotFound
		}
		removedName = name
		return nil
	})

	switch {
	case errors.Is(err, errGroupNotFound):
		reply(ctx, s, log, msg, fmt.Sprintf(msgGroupNotFound, groupID))

	case err != nil:
		log.ErrorContext(ctx, "Failed to remove group", "group_id", groupID, "error", err)
		reply(ctx, s, log, msg, msgRegistryError)

	default:
		log.InfoContext(ctx, "Group removed", "group_id", groupID, "group_name", removedName)
		reply(ctx, s, log, msg, fmt.Sprintf(msgGroupRemoved, html.EscapeString(removedName), groupID))
	}
}
