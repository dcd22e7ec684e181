package telegram

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/relaybot/internal/bot/handlers"
	"github.com/edgard/relaybot/internal/logger"
)

type fakeRegistrar struct {
	patterns   []string
	matchFuncs int
}

func (r *fakeRegistrar) RegisterHandler(handlerType bot.HandlerType, pattern string, matchType bot.MatchType, f bot.HandlerFunc, m ...bot.Middleware) string {
	r.patterns = append(r.patterns, pattern)
	return pattern
}

func (r *fakeRegistrar) RegisterHandlerMatchFunc(matchFunc bot.MatchFunc, f bot.HandlerFunc, m ...bot.Middleware) string {
	r.matchFuncs++
	return "match"
}

type fakeCommandSetter struct {
	params *bot.SetMyCommandsParams
	err    error
}

func (s *fakeCommandSetter) SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error) {
	s.params = params
	return s.err == nil, s.err
}

func noopHandler(ctx context.Context, b *bot.Bot, update *models.Update) {}

func testHandlers() map[string]handlers.RegisteredHandler {
	return map[string]handlers.RegisteredHandler{
		"/list": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "list",
			Handler:     noopHandler,
			MatchType:   bot.MatchTypeCommandStartOnly,
			Description: "List all target groups",
		},
		"/add": {
			HandlerType: bot.HandlerTypeMessageText,
			Pattern:     "add",
			Handler:     noopHandler,
			MatchType:   bot.MatchTypeCommandStartOnly,
			Description: "Add a group",
		},
		"/send": {
			Pattern:     "send",
			Handler:     noopHandler,
			MatchFunc:   func(*models.Update) bool { return true },
			Description: "Send to groups",
		},
		"/hidden": {
			Pattern: "hidden",
		},
	}
}

func TestRegisterHandlers(t *testing.T) {
	t.Parallel()

	r := &fakeRegistrar{}
	require.NoError(t, RegisterHandlers(r, logger.Discard(), testHandlers()))

	assert.Equal(t, []string{"add", "list"}, r.patterns)
	assert.Equal(t, 1, r.matchFuncs)
}

func TestApplyMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mw := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, update *models.Update) {
				calls = append(calls, name)
				next(ctx, b, update)
			}
		}
	}
	h := applyMiddleware(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		calls = append(calls, "handler")
	}, []bot.Middleware{mw("outer"), mw("inner")})

	h(context.Background(), nil, &models.Update{})

	assert.Equal(t, []string{"outer", "inner", "handler"}, calls)
}

func TestSetCommands(t *testing.T) {
	t.Parallel()

	s := &fakeCommandSetter{}
	require.NoError(t, SetCommands(context.Background(), s, -100999, testHandlers()))

	require.NotNil(t, s.params)
	assert.Equal(t, []models.BotCommand{
		{Command: "add", Description: "Add a group"},
		{Command: "list", Description: "List all target groups"},
		{Command: "send", Description: "Send to groups"},
	}, s.params.Commands)
	assert.Equal(t, &models.BotCommandScopeChat{ChatID: int64(-100999)}, s.params.Scope)

	failing := &fakeCommandSetter{err: errors.New("Unauthorized")}
	assert.ErrorIs(t, SetCommands(context.Background(), failing, -100999, testHandlers()), failing.err)
}

func TestNewTelegramBotRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewTelegramBot("", logger.Discard())
	assert.Error(t, err)
	assert.Equal(t, "...", tokenPrefix("short"))
	assert.Equal(t, "12345678...", tokenPrefix("12345678:ABCDEF"))
}

func TestErrorsHandlerLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewErrorsHandler(logger.New(&buf, "info", true))(errors.New("error get updates"))

	assert.Contains(t, buf.String(), `"msg":"Telegram bot error"`)
	assert.Contains(t, buf.String(), `"error":"error get updates"`)
}
