// Package handlers contains Telegram bot command handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SourceChatOnly creates a middleware that lets an update through only when it
// comes from the configured source chat. Anything else is dropped with a log
// line and no reply.
func SourceChatOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			log := deps.Logger.With("middleware", "SourceChatOnly")

			msg := SourceMessage(update)
			if msg == nil {
				log.DebugContext(ctx, "Ignoring update without message", "update_id", update.ID)
				return
			}

			if !deps.Config.IsSourceChat(msg.Chat.ID) {
				var userID int64
				if msg.From != nil {
					userID = msg.From.ID
				}
				log.WarnContext(ctx, "Unauthorized command attempt",
					"chat_id", msg.Chat.ID, "user_id", userID, "command", commandName(msg.Text))
				return
			}

			next(ctx, bot, update)
		}
	}
}

// SourceMessage returns the message or channel post carried by update.
func SourceMessage(update *models.Update) *models.Message {
	if update == nil {
		return nil
	}
	if update.Message != nil {
		return update.Message
	}
	return update.ChannelPost
}
