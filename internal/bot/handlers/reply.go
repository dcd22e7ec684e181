package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	sendMessageTimeout = 10 * time.Second
	// Telegram rejects messages longer than this many UTF-16 code units; runes are close enough here.
	maxMessageLength = 4096
)

// reply sends an HTML message to the chat of msg, quoting msg. Errors are logged only.
func reply(ctx context.Context, s Sender, log *slog.Logger, msg *models.Message, text string) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := s.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:    msg.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                msg.ID,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", msg.Chat.ID)
	}
}

// replyBlocks sends header followed by blocks, packing as many whole blocks
// into each message as fit under the Telegram length limit.
func replyBlocks(ctx context.Context, s Sender, log *slog.Logger, msg *models.Message, header string, blocks []string) {
	for _, chunk := range packBlocks(header, blocks, maxMessageLength) {
		reply(ctx, s, log, msg, chunk)
	}
}

func packBlocks(header string, blocks []string, limit int) []string {
	var chunks []string
	var b strings.Builder
	b.WriteString(header)
	size := len([]rune(header))

	for _, block := range blocks {
		n := len([]rune(block))
		if size+n > limit && b.Len() > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
			size = 0
		}
		b.WriteString(block)
		size += n
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// commandName returns the lower-cased command of text without the leading
// slash or an @botname suffix, or "" when text is not a command.
func commandName(text string) string {
	cmd, _ := splitCommand(text)
	return cmd
}

// splitCommand separates "/cmd@bot rest of text" into "cmd" and "rest of text".
func splitCommand(text string) (cmd, rest string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	token := text
	if i := strings.IndexFunc(text, isSpace); i >= 0 {
		token, rest = text[:i], strings.TrimSpace(text[i:])
	}

	token = strings.TrimPrefix(token, "/")
	if i := strings.IndexByte(token, '@'); i >= 0 {
		token = token[:i]
	}
	return strings.ToLower(token), rest
}

// commandArgs returns the whitespace separated arguments after the command.
func commandArgs(text string) []string {
	_, rest := splitCommand(text)
	return strings.Fields(rest)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
