package handlers

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/database"
)

const defaultHistoryCount = 10

// NewHistoryHandler returns a handler for the /history command.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

// historyHandler shows the latest rows of the delivery journal.
type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := SourceMessage(update)
	if msg == nil {
		h.deps.Logger.ErrorContext(ctx, "History handler called without message", "handler", "history", "update_id", update.ID)
		return
	}
	h.handle(ctx, b, msg)
}

func (h historyHandler) handle(ctx context.Context, s Sender, msg *models.Message) {
	log := h.deps.Logger.With("handler", "history", "chat_id", msg.Chat.ID)

	count := defaultHistoryCount
	if args := commandArgs(msg.Text); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			reply(ctx, s, log, msg, msgHistoryUsage)
			return
		}
		count = min(n, database.MaxRecentDeliveries)
	}

	deliveries, err := h.deps.Journal.RecentDeliveries(ctx, count)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load delivery history", "error", err)
		reply(ctx, s, log, msg, msgHistoryError)
		return
	}

	if len(deliveries) == 0 {
		reply(ctx, s, log, msg, msgNoHistory)
		return
	}

	blocks := make([]string, len(deliveries))
	for i, d := range deliveries {
		blocks[i] = formatDelivery(d)
	}
	replyBlocks(ctx, s, log, msg, msgHistoryHeader, blocks)
}

func formatDelivery(d database.Delivery) string {
	status := "✅"
	if !d.Success {
		status = "❌"
	}
	line := fmt.Sprintf("%s %s <b>%s</b> (<code>%d</code>) msg %d",
		status, d.CreatedAt.UTC().Format(time.DateTime), html.EscapeString(d.TargetName), d.TargetChatID, d.SourceMessageID)
	if d.Error != "" {
		line += ": " + html.EscapeString(d.Error)
	}
	return line + "\n"
}
