package handlers

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/forwarder"
)

// ForwardCommandMatcher matches a reply whose text starts with /<command>,
// ignoring case and an @botname suffix. It accepts messages and channel posts.
// When takesArgs is false, text after the command makes the update not match.
func ForwardCommandMatcher(command string, takesArgs bool) bot.MatchFunc {
	return func(update *models.Update) bool {
		msg := SourceMessage(update)
		if msg == nil || msg.ReplyToMessage == nil || msg.Text == "" {
			return false
		}
		cmd, rest := splitCommand(msg.Text)
		return cmd == command && (takesArgs || rest == "")
	}
}

// sourceRef identifies the replied-to message that should be copied.
func sourceRef(msg *models.Message) forwarder.SourceRef {
	return forwarder.SourceRef{ChatID: msg.Chat.ID, MessageID: msg.ReplyToMessage.ID}
}

func formatTarget(o forwarder.Outcome) string {
	return fmt.Sprintf("<b>%s</b> (<code>%d</code>)", html.EscapeString(o.Target.Name), o.Target.ID)
}

func formatFailure(o forwarder.Outcome) string {
	return formatTarget(o) + " (delivery failed)"
}

// reportDeliveries sends the "sent to" reply for successful outcomes and the
// "could not send" reply for failed outcomes plus any extra failure lines.
func reportDeliveries(ctx context.Context, s Sender, log *slog.Logger, msg *models.Message, report forwarder.Report, extraFailures []string) {
	var sent []string
	for _, o := range report.Succeeded() {
		sent = append(sent, formatTarget(o))
	}

	failures := append([]string(nil), extraFailures...)
	for _, o := range report.Failed() {
		failures = append(failures, formatFailure(o))
	}

	if len(sent) > 0 {
		reply(ctx, s, log, msg, fmt.Sprintf(msgSentTo, strings.Join(sent, ", ")))
	}
	if len(failures) > 0 {
		reply(ctx, s, log, msg, fmt.Sprintf(msgCouldNotSend, strings.Join(failures, ", ")))
	}
}
