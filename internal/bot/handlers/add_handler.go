package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/registry"
)

// NewAddHandler returns a handler for the /add command.
func NewAddHandler(deps HandlerDeps) bot.HandlerFunc {
	return addHandler{deps}.Handle
}

// addHandler registers a destination group: /add <group_id> <group_name...>
type addHandler struct {
	deps HandlerDeps
}

func (h addHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil {
		h.deps.Logger.ErrorContext(ctx, "Add handler called without message", "handler", "add", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h addHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "add", "chat_id", msg.Chat.ID)

	args := commandArgs(msg.Text)
	if len(args) < 2 {
		reply(ctx, s, log, msg, msgAddUsage)
		return
	}

	groupID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		reply(ctx, s, log, msg, msgInvalidGroupID)
		return
	}
	groupName := strings.Join(args[1:], " ")

	var existingName string
	var owner int64
	err = h.deps.Registry.Update(func(reg *registry.Registry) error {
		if name, ok := reg.Get(groupID); ok {
			existingName = name
			return registry.ErrExists
		}
		if err := reg.Add(groupID, groupName); err != nil {
			owner = reg.NameIndex()[strings.ToLower(groupName)]
			return err
		}
		return nil
	})

	switch {
	case errors.Is(err, registry.ErrExists):
		log.InfoContext(ctx, "Group already registered", "group_id", groupID, "existing_name", existingName)
		reply(ctx, s, log, msg, fmt.Sprintf(msgGroupExists, groupID, html.EscapeString(existingName)))

	case errors.Is(err, registry.ErrNameTaken):
		log.InfoContext(ctx, "Group name already in use", "group_id", groupID, "group_name", groupName, "owner_id", owner)
		reply(ctx, s, log, msg, fmt.Sprintf(msgNameTaken, html.EscapeString(groupName), owner))

	case err != nil:
		log.ErrorContext(ctx, "Failed to add group", "group_id", groupID, "error", err)
		reply(ctx, s, log, msg, msgRegistryError)

	default:
		log.InfoContext(ctx, "Group added", "group_id", groupID, "group_name", groupName)
		reply(ctx, s, log, msg, fmt.Sprintf(msgGroupAdded, html.EscapeString(groupName), groupID))
	}
}
